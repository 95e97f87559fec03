package audiocache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// preservedDir holds sound effects that are not generated clips.
const preservedDir = "sfx"

var clearableSuffixes = []string{audioExt, MetadataSuffix, ".tmp", ".part"}

// Clear removes every clip, metadata record, and leftover temporary file
// under dir, skipping the sfx directory. It returns the number of files
// removed. A missing dir is not an error.
func Clear(dir string) (int, error) {
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == preservedDir {
				return fs.SkipDir
			}
			return nil
		}
		if !clearable(d.Name()) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("os.Remove(%s) > %w", path, err)
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("filepath.WalkDir(%s) > %w", dir, err)
	}
	return removed, nil
}

func clearable(name string) bool {
	for _, suffix := range clearableSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
