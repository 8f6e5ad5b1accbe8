package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"reqloop/sender"
)

// Mode selects what a Sink does with completed responses.
type Mode string

const (
	ModeOff     Mode = "off"
	ModeConsole Mode = "console"
	ModeFile    Mode = "file"
)

// ConsoleTarget is the --response value that selects console dumping.
const ConsoleTarget = "-"

// Sink accepts completed responses and discards, prints or durably appends
// formatted blocks. Safe for concurrent writers.
type Sink struct {
	mode Mode
	path string
	mu   sync.Mutex
}

// New builds a Sink from the --response target: "" disables it, ConsoleTarget
// dumps to stdout, anything else appends to a file under baseDir (absolute
// paths are used as-is).
func New(target, baseDir string) (*Sink, error) {
	switch target {
	case "":
		return &Sink{mode: ModeOff}, nil
	case ConsoleTarget:
		return &Sink{mode: ModeConsole}, nil
	}

	dest := target
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(baseDir, dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, err
	}
	return &Sink{mode: ModeFile, path: dest}, nil
}

func (s *Sink) Enabled() bool {
	return s.mode != ModeOff
}

// Describe returns a short label for startup logging.
func (s *Sink) Describe() string {
	if s.mode == ModeFile {
		return "file=" + s.path
	}
	return string(s.mode)
}

// Write emits one formatted response block to the configured destination.
func (s *Sink) Write(resp *sender.Response) error {
	block := FormatBlock(resp)
	switch s.mode {
	case ModeConsole:
		s.mu.Lock()
		defer s.mu.Unlock()
		_, err := fmt.Print(block)
		return err
	case ModeFile:
		s.mu.Lock()
		defer s.mu.Unlock()
		f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = f.WriteString(block)
		return err
	}
	return nil
}

// FormatBlock renders a response as status line, headers, blank line and body
// between two rule lines.
func FormatBlock(resp *sender.Response) string {
	rule := strings.Repeat("=", 70)

	names := make([]string, 0, len(resp.Headers))
	for name := range resp.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	var headers strings.Builder
	for _, name := range names {
		headers.WriteString(fmt.Sprintf("%s: %s\n", name, strings.Join(resp.Headers[name], ", ")))
	}

	return strings.Join([]string{
		rule,
		fmt.Sprintf("%d %s %s", resp.StatusCode, statusText(resp), resp.URL),
		strings.TrimRight(headers.String(), "\n"),
		"",
		string(resp.Body),
		rule,
		"",
	}, "\n")
}

func statusText(resp *sender.Response) string {
	// resp.Status is "200 OK"; keep only the reason phrase.
	_, reason, found := strings.Cut(resp.Status, " ")
	if !found {
		return resp.Status
	}
	return reason
}
