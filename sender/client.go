package sender

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	xproxy "golang.org/x/net/proxy"
)

// NewClient builds an HTTP client routed through the given proxy endpoint
// ("" for direct). socks5:// endpoints dial through a SOCKS5 dialer, anything
// else is handed to the transport's proxy support. insecure disables TLS
// certificate verification.
func NewClient(proxyURL string, insecure bool, timeout time.Duration) (*http.Client, error) {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure},
	}

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", proxyURL, err)
		}
		switch u.Scheme {
		case "socks5", "socks5h":
			var auth *xproxy.Auth
			if u.User != nil {
				password, _ := u.User.Password()
				auth = &xproxy.Auth{User: u.User.Username(), Password: password}
			}
			dialer, err := xproxy.SOCKS5("tcp", u.Host, auth, xproxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("socks5 dialer for %q: %w", proxyURL, err)
			}
			if cd, ok := dialer.(xproxy.ContextDialer); ok {
				tr.DialContext = cd.DialContext
			} else {
				tr.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
					return dialer.Dial(network, addr)
				}
			}
		default:
			tr.Proxy = http.ProxyURL(u)
		}
	}

	return &http.Client{Transport: tr, Timeout: timeout}, nil
}

// IsTLSError reports whether err stems from certificate verification or the
// TLS handshake, i.e. whether retrying with verification disabled can help.
func IsTLSError(err error) bool {
	if err == nil {
		return false
	}
	var certVerify *tls.CertificateVerificationError
	if errors.As(err, &certVerify) {
		return true
	}
	var recordHeader tls.RecordHeaderError
	if errors.As(err, &recordHeader) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostname x509.HostnameError
	if errors.As(err, &hostname) {
		return true
	}
	var certInvalid x509.CertificateInvalidError
	return errors.As(err, &certInvalid)
}
