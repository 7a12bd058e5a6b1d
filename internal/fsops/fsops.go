// Package fsops provides the file operations the branch rebuild needs:
// overwrite-writes, tolerant removals, and reads that treat a missing
// file as an absent value rather than an error. All paths are relative
// to a single repository root.
package fsops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Ops performs filesystem operations rooted at a repository directory.
type Ops struct {
	fs   afero.Fs
	root string
}

// New returns an Ops over the given filesystem and repository root.
func New(fs afero.Fs, root string) *Ops {
	return &Ops{fs: fs, root: root}
}

// NewOS returns an Ops over the real filesystem.
func NewOS(root string) *Ops {
	return New(afero.NewOsFs(), root)
}

func (o *Ops) abs(rel string) string {
	return filepath.Join(o.root, filepath.FromSlash(rel))
}

// Write creates any missing parent directories and writes content to
// the file at rel, replacing whatever was there. Writing the same
// content twice leaves the filesystem unchanged.
func (o *Ops) Write(rel, content string) error {
	path := o.abs(rel)
	if err := o.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := afero.WriteFile(o.fs, path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}

// Remove deletes the file at rel if it exists; a missing file is a no-op.
func (o *Ops) Remove(rel string) error {
	path := o.abs(rel)
	if err := o.fs.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove %s: %w", rel, err)
	}
	return nil
}

// RemoveDir recursively deletes the directory at rel if it exists;
// a missing directory is a no-op.
func (o *Ops) RemoveDir(rel string) error {
	path := o.abs(rel)
	exists, err := afero.DirExists(o.fs, path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	if !exists {
		return nil
	}
	if err := o.fs.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove directory %s: %w", rel, err)
	}
	return nil
}

// Read returns the content of the file at rel. A missing file is not
// an error: the second return value reports presence.
func (o *Ops) Read(rel string) (string, bool, error) {
	data, err := afero.ReadFile(o.fs, o.abs(rel))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	return string(data), true, nil
}
