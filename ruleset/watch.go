package ruleset

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gobeaver/uploadrules"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// ReloadFunc receives the rebuilt validator, or the error that prevented
// building it. On error the caller should keep its previous validator.
type ReloadFunc func(v *uploadrules.Validator, err error)

// Watch reloads the rule set at path whenever it changes and passes the
// result to onReload. It blocks until ctx is done.
//
// The parent directory is watched rather than the file itself, so editors
// that save by renaming a temporary file over path are picked up.
func Watch(ctx context.Context, path string, onReload ReloadFunc) error {
	logger := ctxlog.From(ctx)

	abs, err := filepath.Abs(path)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve rule set path", goerr.V("path", path))
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return goerr.Wrap(err, "failed to create watcher")
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return goerr.Wrap(err, "failed to watch rule set directory", goerr.V("path", abs))
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			v, err := Load(abs)
			if err != nil {
				logger.Warn("rule set reload failed", slog.String("path", abs), slog.Any("error", err))
			} else {
				logger.Info("rule set reloaded", slog.String("path", abs), slog.Any("patterns", v.Patterns()))
			}
			onReload(v, err)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("rule set watcher error", slog.Any("error", err))
		}
	}
}
