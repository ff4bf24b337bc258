package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	m "vfault.dev/pkg/vfault/internal/model"
)

// DefaultWatchDebounce is how long a burst of file events is collected
// before the change is reported.
const DefaultWatchDebounce = 200 * time.Millisecond

// WatchAdapter reports changes to a set of files.
type WatchAdapter interface {
	// Watch reports each changed path until ctx is done, then closes both
	// channels.
	Watch(ctx context.Context, paths []m.Path) (<-chan m.Path, <-chan error, error)
}

// FSNotifyWatchAdapter implements WatchAdapter with fsnotify. It watches the
// parent directories so files replaced by editors keep being tracked.
type FSNotifyWatchAdapter struct {
	debounce time.Duration
}

// NewFSNotifyWatchAdapter constructs a FSNotifyWatchAdapter. A non-positive
// debounce selects DefaultWatchDebounce.
func NewFSNotifyWatchAdapter(debounce time.Duration) *FSNotifyWatchAdapter {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	return &FSNotifyWatchAdapter{debounce: debounce}
}

// Watch starts watching paths.
func (a *FSNotifyWatchAdapter) Watch(ctx context.Context, paths []m.Path) (<-chan m.Path, <-chan error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	targets := make(map[string]m.Path, len(paths))
	dirs := make(map[string]bool)

	for _, p := range paths {
		abs, err := filepath.Abs(string(p))
		if err != nil {
			_ = watcher.Close()
			return nil, nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}

		targets[abs] = p

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}

		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}

		dirs[dir] = true
	}

	changes := make(chan m.Path, len(paths))
	errs := make(chan error, 1)

	go a.loop(ctx, watcher, targets, changes, errs)

	return changes, errs, nil
}

func (a *FSNotifyWatchAdapter) loop(ctx context.Context, watcher *fsnotify.Watcher, targets map[string]m.Path,
	changes chan<- m.Path, errs chan<- error,
) {
	defer close(errs)
	defer close(changes)
	defer watcher.Close()

	pending := make(map[string]bool)
	timer := time.NewTimer(a.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if _, tracked := targets[filepath.Clean(event.Name)]; !tracked {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			slog.Debug("watched file changed", "path", event.Name, "op", event.Op.String())

			pending[filepath.Clean(event.Name)] = true

			timer.Reset(a.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			select {
			case errs <- err:
			default:
				slog.Error("dropped watcher error", "error", err)
			}
		case <-timer.C:
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}

			sort.Strings(names)
			clear(pending)

			for _, name := range names {
				select {
				case changes <- targets[name]:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
