package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/gobeaver/uploadrules"
	"github.com/gobeaver/uploadrules/internal/cli/config"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// ErrRejected is returned by check when at least one file fails its rules.
var ErrRejected = errors.New("upload rejected")

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
)

func cmdCheck(w io.Writer) *cli.Command {
	var (
		rulesCfg config.Rules
		field    string
	)

	flags := append(rulesCfg.Flags(),
		&cli.StringFlag{
			Name:        "field",
			Aliases:     []string{"F"},
			Usage:       "Form field the files were uploaded under",
			Value:       "file",
			Destination: &field,
		},
	)

	return &cli.Command{
		Name:      "check",
		Aliases:   []string{"c"},
		Usage:     "Validate files as uploads of a form field",
		ArgsUsage: "PATH...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			paths := c.Args().Slice()
			if len(paths) == 0 {
				return goerr.New("no files given")
			}

			logger := ctxlog.From(ctx)
			logger.Debug("check options", "rules", rulesCfg, "field", field)

			v, err := rulesCfg.Build()
			if err != nil {
				return err
			}
			if len(v.RulesFor(field)) == 0 {
				logger.Warn("no rules apply to field", slog.String("field", field))
			}

			rejected := 0
			for _, path := range paths {
				file, err := uploadrules.FileFromPath(path)
				if err != nil {
					return goerr.Wrap(err, "failed to stat upload", goerr.V("path", path))
				}

				report, err := v.Validate(ctx, field, file)
				if err != nil {
					return goerr.Wrap(err, "rules could not run",
						goerr.V("path", path),
						goerr.V("capability", uploadrules.MissingCapability(err)))
				}

				if report.Valid() {
					passColor.Fprintln(w, report.Summary())
				} else {
					rejected++
					failColor.Fprintln(w, report.Summary())
				}
			}

			if rejected > 0 {
				return goerr.Wrap(ErrRejected, "some files were rejected",
					goerr.V("rejected", rejected),
					goerr.V("total", len(paths)))
			}
			return nil
		},
	}
}
