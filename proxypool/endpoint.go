package proxypool

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"reqloop/internal/shared/logger"
)

// Normalize converts one raw proxy list line into a canonical
// scheme://[user:pass@]host:port URI. Accepted forms: full URIs,
// user:pass@host:port, host:port:user:pass and bare host:port.
// Blank lines and #-comments return false.
func Normalize(line string) (string, bool) {
	raw := strings.TrimSpace(line)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return "", false
	}

	token := strings.Fields(raw)[0]

	if strings.Contains(token, "://") {
		return token, true
	}
	if strings.Contains(token, "@") {
		return "http://" + token, true
	}

	parts := strings.Split(token, ":")
	switch {
	case len(parts) >= 4:
		return fmt.Sprintf("http://%s:%s@%s:%s", parts[2], parts[3], parts[0], parts[1]), true
	case len(parts) >= 2:
		return fmt.Sprintf("http://%s:%s", parts[0], parts[1]), true
	}
	return "http://" + token, true
}

// LoadFile reads a proxy list file and returns the normalized endpoints in
// file order. A missing file yields an empty list, not an error.
func LoadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			l := logger.WithComponent("ProxyPool")
			l.Warn().
				Str("path", path).
				Msg("Proxy file not found.")
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var endpoints []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if normalized, ok := Normalize(scanner.Text()); ok {
			endpoints = append(endpoints, normalized)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return endpoints, nil
}
