package lister

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joseph-ayodele/scan2pdf/constants"
	"github.com/joseph-ayodele/scan2pdf/internal/common"
)

type WatchConfig struct {
	Dir      string        // directory to watch (non-recursive)
	Debounce time.Duration // coalesce rapid create/write bursts into one group
	Logger   *slog.Logger
}

// Watch emits groups of image paths created or rewritten in cfg.Dir. A group is
// flushed once no matching event arrived for cfg.Debounce. Both channels are
// closed when ctx is done.
func Watch(ctx context.Context, cfg WatchConfig) (<-chan []string, <-chan error, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, nil, common.DirectoryNotFound(cfg.Dir, err)
	}
	if _, err := ListImages(abs); err != nil {
		return nil, nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, nil, err
	}
	if err := w.Add(abs); err != nil {
		_ = w.Close()
		return nil, nil, common.DirectoryNotFound(cfg.Dir, err)
	}

	groups := make(chan []string, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(groups)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("failed to close watcher", "error", err)
			}
		}()

		pending := map[string]struct{}{}
		timer := time.NewTimer(time.Hour)
		timer.Stop()

		flush := func() {
			if len(pending) == 0 {
				return
			}
			group := make([]string, 0, len(pending))
			for p := range pending {
				group = append(group, p)
			}
			sort.Strings(group)
			clear(pending)
			select {
			case groups <- group:
			case <-ctx.Done():
			}
		}

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if !constants.IsImageName(e.Name) || !e.Has(fsnotify.Create) && !e.Has(fsnotify.Write) && !e.Has(fsnotify.Rename) {
					continue
				}
				// Rename fires for the old name; only keep paths that still exist as images.
				if e.Has(fsnotify.Rename) {
					delete(pending, e.Name)
					continue
				}
				pending[e.Name] = struct{}{}
				if cfg.Debounce <= 0 {
					flush()
					continue
				}
				timer.Reset(cfg.Debounce)
			case <-timer.C:
				flush()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if errors.Is(err, fsnotify.ErrEventOverflow) {
					logger.Warn("watcher event overflow; some files may be missed", "dir", abs)
				} else {
					logger.Error("watcher error", "error", err)
				}
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return groups, errCh, nil
}
