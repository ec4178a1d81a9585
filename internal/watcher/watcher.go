// Package watcher watches a sweep manifest file for content changes so
// cmd/cdpa-sweep's -watch flag can re-run the sweep whenever the
// manifest is edited, without polling.
//
// Adapted from the teacher's internal/watcher: the same fsnotify setup
// (watch the containing directory, since most editors replace rather
// than append-write a file) and debounce-then-hash pattern, trimmed
// from many tracked files down to the single manifest path this
// package exists to serve, and firing a reload only when the file's
// content actually changed rather than merely its mtime.
package watcher

import (
	"crypto/sha256"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long a file must go unmodified before a change is
// reported, absorbing editors that write in several small bursts.
const Debounce = 300 * time.Millisecond

// ManifestWatcher watches a single manifest file and reports a reload
// whenever its content hash changes.
type ManifestWatcher struct {
	fsWatcher *fsnotify.Watcher
	path      string

	mu       sync.Mutex
	lastHash [32]byte
	pending  bool
	timer    *time.Timer

	changed chan struct{}
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewManifestWatcher starts watching path's containing directory.
func NewManifestWatcher(path string) (*ManifestWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	hash, _, err := HashFile(absPath)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &ManifestWatcher{
		fsWatcher: fsWatcher,
		path:      absPath,
		lastHash:  hash,
		changed:   make(chan struct{}, 1),
		errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}

	w.wg.Add(1)
	go w.eventLoop()

	return w, nil
}

// Changed reports a reload every time the manifest's content hash
// changes following a debounce period of quiet.
func (w *ManifestWatcher) Changed() <-chan struct{} { return w.changed }

// Errors surfaces fsnotify and hashing errors encountered while watching.
func (w *ManifestWatcher) Errors() <-chan error { return w.errors }

// Close stops the watcher.
func (w *ManifestWatcher) Close() error {
	close(w.done)
	w.wg.Wait()
	return w.fsWatcher.Close()
}

func (w *ManifestWatcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleCheck()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *ManifestWatcher) scheduleCheck() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(Debounce, w.checkForChange)
}

func (w *ManifestWatcher) checkForChange() {
	hash, _, err := HashFile(w.path)
	if err != nil {
		select {
		case w.errors <- err:
		default:
		}
		return
	}

	w.mu.Lock()
	changed := hash != w.lastHash
	if changed {
		w.lastHash = hash
	}
	w.mu.Unlock()

	if changed {
		select {
		case w.changed <- struct{}{}:
		default:
		}
	}
}

// HashFile computes the SHA-256 hash of a file using streaming, so
// large manifests don't need to be loaded into memory just to detect a
// change.
func HashFile(path string) ([32]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return [32]byte{}, 0, err
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return [32]byte{}, 0, err
	}

	var hash [32]byte
	copy(hash[:], h.Sum(nil))
	return hash, size, nil
}
