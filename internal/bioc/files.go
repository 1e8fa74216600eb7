package bioc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Enumerate resolves an input path to the ordered list of corpus files to
// process: the path itself when it is a file, otherwise every .xml file
// directly inside the directory, sorted by name. A missing path or a
// directory with nothing to process is an error.
func Enumerate(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input path %s: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", path, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".xml") {
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no .xml files found in %s", path)
	}
	return files, nil
}
