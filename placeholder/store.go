package placeholder

import (
	"bufio"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Rotation selects how a value pool is walked between calls.
type Rotation string

const (
	RotationSequential Rotation = "sequential"
	RotationRandom     Rotation = "random"
)

// Store loads line-based value pools from a directory and hands out values
// under a rotation policy. Pools are loaded once on first reference and kept
// for the process lifetime. Safe for concurrent use.
type Store struct {
	dir string

	mu      sync.Mutex
	values  map[string][]string
	cursors map[string]int
}

// NewStore creates a Store over the given directory. The directory is created
// if it does not exist yet.
func NewStore(dir string) *Store {
	_ = os.MkdirAll(dir, 0755)
	return &Store{
		dir:     dir,
		values:  make(map[string][]string),
		cursors: make(map[string]int),
	}
}

// Next returns the next value for name under the given policy. Sequential
// rotation advances a per-name cursor modulo the pool length; random rotation
// draws uniformly and leaves the cursor untouched.
func (s *Store) Next(name string, policy Rotation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vals, err := s.loadLocked(name)
	if err != nil {
		return "", err
	}

	if policy == RotationRandom {
		return vals[rand.IntN(len(vals))], nil
	}
	idx := s.cursors[name] % len(vals)
	s.cursors[name] = (idx + 1) % len(vals)
	return vals[idx], nil
}

func (s *Store) loadLocked(name string) ([]string, error) {
	if vals, ok := s.values[name]; ok {
		return vals, nil
	}

	path := s.pathFor(name)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Name: name, Path: filepath.Join(s.dir, name)}
		}
		return nil, err
	}
	defer file.Close()

	var vals []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		vals = append(vals, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, &EmptyError{Name: name, Path: path}
	}

	s.values[name] = vals
	return vals, nil
}

// pathFor resolves the backing file: exact name first, then name + ".txt".
func (s *Store) pathFor(name string) string {
	direct := filepath.Join(s.dir, name)
	if _, err := os.Stat(direct); err == nil {
		return direct
	}
	withTxt := direct + ".txt"
	if _, err := os.Stat(withTxt); err == nil {
		return withTxt
	}
	return direct
}
