package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gobeaver/uploadrules"
	"github.com/gobeaver/uploadrules/ruleset"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdWatch(w io.Writer) *cli.Command {
	var path string

	return &cli.Command{
		Name:  "watch",
		Usage: "Validate a rule-set file and re-validate it on every change",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "rules",
				Aliases:     []string{"r"},
				Sources:     cli.EnvVars("UPLOADRULES_RULES"),
				Usage:       "Rule-set YAML file",
				Required:    true,
				Destination: &path,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			v, err := ruleset.Load(path)
			if err != nil {
				return err
			}
			printPatterns(w, v)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := ruleset.Watch(ctx, path, func(v *uploadrules.Validator, err error) {
				if err != nil {
					failColor.Fprintf(w, "✗ %s: %v\n", path, err)
					return
				}
				printPatterns(w, v)
			}); err != nil {
				return goerr.Wrap(err, "failed to watch rule set", goerr.V("path", path))
			}
			return nil
		},
	}
}

func printPatterns(w io.Writer, v *uploadrules.Validator) {
	for _, pattern := range v.Patterns() {
		passColor.Fprintf(w, "✓ %s: %s\n", pattern, strings.Join(v.BoundRules(pattern), ", "))
	}
	fmt.Fprintln(w)
}
