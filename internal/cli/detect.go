package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gobeaver/uploadrules"
	"github.com/gobeaver/uploadrules/sniff"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdDetect(w io.Writer) *cli.Command {
	var (
		detectorName string
		headerLimit  int64
	)

	return &cli.Command{
		Name:      "detect",
		Aliases:   []string{"d"},
		Usage:     "Print the detected media type, pixel size, usual extension and fingerprint of files",
		ArgsUsage: "PATH...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "detector",
				Usage:       "Content detector [" + strings.Join(sniff.Names(), "|") + "]",
				Sources:     cli.EnvVars("UPLOADRULES_DETECTOR"),
				Value:       "magic",
				Destination: &detectorName,
			},
			&cli.Int64Flag{
				Name:        "header-limit",
				Usage:       "Bytes read while decoding an image header",
				Value:       uploadrules.DefaultHeaderLimit,
				Destination: &headerLimit,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			paths := c.Args().Slice()
			if len(paths) == 0 {
				return goerr.New("no files given")
			}

			detector, err := sniff.ByName(detectorName)
			if err != nil {
				return goerr.Wrap(err, "invalid detector", goerr.V("detector", detectorName))
			}

			for _, path := range paths {
				mediaType, err := detector.Detect(ctx, path)
				if err != nil {
					return goerr.Wrap(err, "failed to detect media type",
						goerr.V("path", path),
						goerr.V("detector", detector.Name()))
				}

				size := "-"
				if width, height, err := uploadrules.ImageSize(path, headerLimit); err == nil {
					size = fmt.Sprintf("%dx%d", width, height)
				}

				fp, err := uploadrules.Fingerprint(path)
				if err != nil {
					return goerr.Wrap(err, "failed to fingerprint", goerr.V("path", path))
				}

				ext := sniff.ExtensionFor(mediaType)
				if ext != "" && !sniff.MatchesExtension(mediaType, uploadrules.Ext(path)) {
					ctxlog.From(ctx).Warn("extension does not match content",
						slog.String("path", path),
						slog.String("media_type", mediaType),
						slog.String("expected", ext))
				}
				if ext == "" {
					ext = "-"
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", path, mediaType, size, ext, fp)
			}
			return nil
		},
	}
}
