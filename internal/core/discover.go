package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// secondaryMarkers identify the "EOD Update-2" export by file name.
var secondaryMarkers = []string{"EOD Update-2", "EOD Update_2"}

// ErrNoInput is returned by DiscoverInputs when dir holds no main export.
var ErrNoInput = errors.New("no CSV file found")

// IsSecondaryExport reports whether a file name looks like the secondary
// export.
func IsSecondaryExport(name string) bool {
	for _, m := range secondaryMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// DiscoverInputs picks the files of a run from dir: the newest *.csv by
// modification time that is not the secondary export, plus the newest
// secondary export if there is one. Name order breaks modification-time ties.
func DiscoverInputs(dir string) (Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Input{}, fmt.Errorf("discover inputs in %s: %w", dir, err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var main, secondary *candidate

	newer := func(c *candidate, path string, mod time.Time) bool {
		return c == nil || mod.After(c.modTime) || (mod.Equal(c.modTime) && path < c.path)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if IsSecondaryExport(e.Name()) {
			if newer(secondary, path, info.ModTime()) {
				secondary = &candidate{path, info.ModTime()}
			}
			continue
		}
		if newer(main, path, info.ModTime()) {
			main = &candidate{path, info.ModTime()}
		}
	}

	if main == nil {
		return Input{}, fmt.Errorf("discover inputs in %s: %w", dir, ErrNoInput)
	}

	in := Input{Path: main.path}
	if secondary != nil {
		in.SecondaryPath = secondary.path
	}
	return in, nil
}
