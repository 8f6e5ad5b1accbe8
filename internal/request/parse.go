package request

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformed is wrapped by every request-text parse failure.
var ErrMalformed = errors.New("malformed request")

// Parsed holds the components of one raw HTTP request text.
type Parsed struct {
	Method  string
	Path    string
	Proto   string
	Headers map[string]string
	Body    string
}

var headBodySplit = regexp.MustCompile(`\r?\n\r?\n`)

// Parse converts HTTP/1.1-style request text (request line, header lines,
// blank line, raw body) into a Parsed. Missing or malformed request lines and
// header lines without a colon are rejected.
func Parse(raw string) (*Parsed, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: request text is empty", ErrMalformed)
	}

	head, body := splitHeadAndBody(raw)
	headLines := strings.Split(head, "\n")
	if len(headLines) == 0 || strings.TrimSpace(headLines[0]) == "" {
		return nil, fmt.Errorf("%w: missing request line", ErrMalformed)
	}

	fields := strings.Fields(headLines[0])
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: cannot parse request line: %s", ErrMalformed, strings.TrimSpace(headLines[0]))
	}

	headers := make(map[string]string)
	for _, line := range headLines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("%w: invalid header format: %s", ErrMalformed, line)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	return &Parsed{
		Method:  fields[0],
		Path:    fields[1],
		Proto:   fields[2],
		Headers: headers,
		Body:    body,
	}, nil
}

func splitHeadAndBody(raw string) (head, body string) {
	parts := headBodySplit.Split(raw, 2)
	head = strings.ReplaceAll(parts[0], "\r", "")
	if len(parts) > 1 {
		body = parts[1]
	}
	return head, body
}
