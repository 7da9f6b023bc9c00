// Package lister finds the JPEG files of a directory and turns them into job items.
package lister

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/scan2pdf/constants"
	"github.com/joseph-ayodele/scan2pdf/internal/common"
	"github.com/joseph-ayodele/scan2pdf/internal/entity"
)

// ListImages reads dir non-recursively and returns the absolute paths of the
// .jpg/.jpeg entries, sorted by file name. Subdirectories are ignored.
func ListImages(dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, common.DirectoryNotFound(dir, errors.New("directory is required"))
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, common.DirectoryNotFound(dir, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, common.DirectoryNotFound(dir, err)
	}
	if !st.IsDir() {
		return nil, common.DirectoryNotFound(dir, errors.New("not a directory"))
	}

	// ReadDir returns entries sorted by filename.
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, common.DirectoryNotFound(dir, err)
	}

	var paths []string
	for _, d := range entries {
		if !constants.IsImageName(d.Name()) {
			continue
		}
		path := filepath.Join(abs, d.Name())
		if isDir(path, d) {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func isDir(path string, d fs.DirEntry) bool {
	if d.IsDir() {
		return true
	}
	if d.Type()&fs.ModeSymlink != 0 {
		st, err := os.Stat(path)
		return err != nil || st.IsDir()
	}
	return false
}

// NewBatch creates one Pending item per path, preserving order.
func NewBatch(paths []string) entity.Batch {
	batch := make(entity.Batch, 0, len(paths))
	for _, p := range paths {
		batch = append(batch, entity.JobItem{
			ID:         uuid.New(),
			SourcePath: p,
			Status:     constants.StatusPending,
		})
	}
	return batch
}

// SelectByName returns the items whose base name is in names, in batch order.
// Unknown names are returned separately so the caller can warn about them.
func SelectByName(batch entity.Batch, names []string) (entity.Batch, []string) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		n = filepath.Base(strings.TrimSpace(n))
		if n != "" && n != "." {
			wanted[n] = false
		}
	}

	var selected entity.Batch
	for _, item := range batch {
		if _, ok := wanted[item.Name()]; ok {
			selected = append(selected, item)
			wanted[item.Name()] = true
		}
	}

	var missing []string
	for _, n := range names {
		n = filepath.Base(strings.TrimSpace(n))
		if found, ok := wanted[n]; ok && !found {
			missing = append(missing, n)
			delete(wanted, n)
		}
	}
	return selected, missing
}
