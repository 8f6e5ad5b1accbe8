package request

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// examplePrefix marks template files shipped with the tool; they are skipped
// until the user renames them.
const examplePrefix = "example"

// ListFiles returns the request files in dir for one cycle: every *.txt file
// whose name does not start with the example marker, in sorted order. The
// directory is created if it does not exist yet.
func ListFiles(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if !strings.HasSuffix(name, ".txt") || strings.HasPrefix(name, examplePrefix) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
