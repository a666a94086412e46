package cli

import (
	"context"
	"io"
	"os"

	"github.com/gobeaver/uploadrules/internal/cli/config"
	"github.com/gobeaver/uploadrules/internal/logging"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Run executes the uploadrules command line.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout)
}

func run(ctx context.Context, args []string, w io.Writer) error {
	var loggerCfg config.Logger
	logger := logging.Default()
	closeLog := func() {}

	app := &cli.Command{
		Name:  "uploadrules",
		Usage: "Check uploaded files against size, extension, media type and dimension rules",
		Flags: loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			configured, closer, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			logger, closeLog = configured, closer

			ctx = ctxlog.With(ctx, logger)
			ctxlog.From(ctx).Debug("base options", "logger", loggerCfg)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdCheck(w),
			cmdDetect(w),
			cmdWatch(w),
		},
	}
	defer func() { closeLog() }()

	if err := app.Run(ctx, args); err != nil {
		handleError(ctxlog.With(ctx, logger), goerr.Wrap(err, "failed to run uploadrules"))
		return err
	}

	return nil
}

func handleError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	ctxlog.From(ctx).Error("error occurred", "error", err)
}
