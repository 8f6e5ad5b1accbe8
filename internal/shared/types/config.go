package types

import "strings"

// CommonConf contains the request replay behaviour configuration.
type CommonConf struct {
	RequestsDir     string `ini:"requests_dir"`
	IntervalSeconds int    `ini:"interval_seconds"`
	TimeoutSeconds  int    `ini:"timeout_seconds"`
	Workers         int    `ini:"workers"`
	Scheme          string `ini:"scheme"`
	DefaultHost     string `ini:"default_host"`
	VerifyTLS       bool   `ini:"verify_tls"`
	SkipHeaders     string `ini:"skip_headers"` // comma separated, lowercase
}

// LogConf contains logging specific configuration.
type LogConf struct {
	Level string `ini:"level"`
}

// PlaceholderConf configures the placeholder resolution engine.
type PlaceholderConf struct {
	Dir      string `ini:"dir"`
	Rotation string `ini:"rotation"` // "sequential" or "random"
}

// ProxyConf configures the proxy pool and the check subcommand.
type ProxyConf struct {
	File         string `ini:"file"`
	CheckURL     string `ini:"check_url"`
	CheckWorkers int    `ini:"check_workers"`
}

// ResponseConf configures the response sink.
type ResponseConf struct {
	Dir string `ini:"dir"`
}

// Config is the unified configuration structure for a reqloop run.
type Config struct {
	CommonConf      `ini:"common"`
	LogConf         `ini:"log"`
	PlaceholderConf `ini:"placeholder"`
	ProxyConf       `ini:"proxy"`
	ResponseConf    `ini:"response"`
}

// NewDefaultConfig returns a Config populated with the built-in defaults.
// Values from the ini file and CLI flags are layered on top of these.
func NewDefaultConfig() *Config {
	return &Config{
		CommonConf: CommonConf{
			RequestsDir:     "requests",
			IntervalSeconds: 5,
			TimeoutSeconds:  15,
			Workers:         10,
			Scheme:          "https",
			VerifyTLS:       true,
			SkipHeaders:     "content-length",
		},
		LogConf: LogConf{
			Level: "info",
		},
		PlaceholderConf: PlaceholderConf{
			Dir:      "placeholders",
			Rotation: "sequential",
		},
		ProxyConf: ProxyConf{
			File:         "proxies.txt",
			CheckURL:     "https://httpbin.org/ip",
			CheckWorkers: 20,
		},
		ResponseConf: ResponseConf{
			Dir: "responses",
		},
	}
}

// SkipHeaderSet expands the comma separated SkipHeaders field into a lookup set.
func (c *CommonConf) SkipHeaderSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, h := range strings.Split(c.SkipHeaders, ",") {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			set[h] = struct{}{}
		}
	}
	return set
}
