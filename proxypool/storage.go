package proxypool

import (
	"os"
	"path/filepath"
	"strings"
)

// SaveList rewrites path with one endpoint per line, trailing newline iff the
// list is non-empty. The write goes through a temp file and rename so a crash
// mid-eviction never leaves a partially written proxy file behind.
func SaveList(path string, endpoints []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var sb strings.Builder
	for _, e := range endpoints {
		sb.WriteString(e)
		sb.WriteString("\n")
	}

	tmp, err := os.CreateTemp(dir, ".proxies-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	// CreateTemp uses 0600; keep the proxy file world-readable like the
	// one the user wrote.
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
