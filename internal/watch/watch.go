// Package watch notifies the UI when the contents of the managed directory
// may have changed behind its back.
package watch

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher coalesces filesystem events on one directory into "contents may
// have changed" ticks. Bursts (a batch rename touches every folder) collapse
// into a single notification after a short quiet period.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	changes  chan struct{}

	closeOnce sync.Once
	closed    chan struct{}
}

// New starts watching dir. debounce <= 0 defaults to 250ms.
func New(dir string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		closed:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes delivers at most one pending notification; receivers re-list the
// directory when it fires.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closed)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.closed:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// Only structural changes matter; writes inside folders don't
			// affect the listing.
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}
