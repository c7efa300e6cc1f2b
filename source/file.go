package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/rowlist/types"
)

// Document is the layout of a contacts file.
//
// Example:
//
//	contacts:
//	  - id: 1
//	    name: Alice
//	    starred: true
//	  - id: 2
//	    name: Bob
//	    kind: phone
//	    value: "+1 555 0100"
type Document struct {
	Contacts []Record `yaml:"contacts"`
}

// ReadFile reads the records of a YAML contacts file.
func ReadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contacts file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse contacts file %s: %w", path, err)
	}

	return doc.Contacts, nil
}

// WriteFile writes records as a YAML contacts file. The file is replaced
// through a rename so watchers never read a partial document.
func WriteFile(path string, records []Record) error {
	data, err := yaml.Marshal(Document{Contacts: records})
	if err != nil {
		return fmt.Errorf("failed to encode contacts: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint:gosec // contact files are not secret
		return fmt.Errorf("failed to write contacts file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace contacts file: %w", err)
	}

	return nil
}

// File is a row source over a YAML contacts file.
//
// Invalid records are skipped with a warning. Watch follows the directory of
// the file, so editors that replace the file on save are handled.
type File struct {
	path string
	opts sourceOptions
}

var (
	_ types.RowSource = (*File)(nil)
	_ Watcher         = (*File)(nil)
)

// NewFile creates a source reading path.
//
// Example:
//
//	contacts := source.NewFile("contacts.yaml",
//	    source.WithBuildOptions(source.BuildOptions{Alphabet: alphabet.Latin()}),
//	)
func NewFile(path string, opts ...SourceOption) *File {
	return &File{path: filepath.Clean(path), opts: newSourceOptions(opts)}
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// LoadRows reads and sorts the records of the file.
func (f *File) LoadRows(ctx context.Context) (*types.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := ReadFile(f.path)
	if err != nil {
		return nil, err
	}

	rows, errs := Rows(records)
	for _, err := range errs {
		f.opts.logger.Warn("skipping invalid record", "file", f.path, "error", err)
	}

	return Build(rows, f.opts.build), nil
}

// Watch delivers a snapshot after every settled change of the file until ctx
// is done. A file that cannot be parsed mid-write is retried on the next
// change.
//
// Returns:
//   - error: Error wrapping types.ErrWatcherFailed if the directory cannot be
//     watched, nil after ctx is cancelled
func (f *File) Watch(ctx context.Context, deliver func(*types.Snapshot)) error {
	// fail fast on a missing directory instead of retrying forever
	if _, err := os.Stat(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("%w: %w", types.ErrWatcherFailed, err)
	}

	return runWatch(ctx, "file", f.opts, func(ctx context.Context) (bool, error) {
		return f.watchOnce(ctx, deliver)
	})
}

func (f *File) watchOnce(ctx context.Context, deliver func(*types.Snapshot)) (bool, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return false, fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(filepath.Dir(f.path)); err != nil {
		return false, fmt.Errorf("failed to watch %s: %w", filepath.Dir(f.path), err)
	}

	deb := &debouncer{d: f.opts.debounce}
	defer deb.stop()

	reload := func() {
		snap, err := f.LoadRows(ctx)
		if err != nil {
			f.opts.logger.Warn("failed to reload contacts file", "file", f.path, "error", err)
			return
		}
		deliver(snap)
	}

	for {
		select {
		case <-ctx.Done():
			return true, nil
		case ev, ok := <-w.Events:
			if !ok {
				return true, errWatchClosed
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if f.opts.debounce <= 0 {
				reload()
				continue
			}
			deb.touch()
		case err, ok := <-w.Errors:
			if !ok {
				return true, errWatchClosed
			}
			f.opts.logger.Warn("file watcher error", "file", f.path, "error", err)
		case <-deb.fire():
			deb.done()
			reload()
		}
	}
}
