// Package transport provides the HTTP transports used for backend calls.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const dialTimeout = 10 * time.Second

// New returns the transport for the given kind: "chrome" gets the Chrome
// TLS fingerprint transport, anything else the default pooled transport.
func New(kind string) http.RoundTripper {
	if kind == "chrome" {
		return NewChromeTransport(dialTimeout)
	}
	return NewDefaultTransport()
}

// NewDefaultTransport returns a pooled transport tuned for a steady stream
// of small JSON calls against a single backend host.
func NewDefaultTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}
}

// NewChromeTransport returns an http.RoundTripper whose TLS handshake looks
// like Chrome's. Go's own TLS client has a recognizable JA3 fingerprint that
// some CDNs rate-limit, so when the store backend sits behind one of those
// the handshake goes through uTLS with HelloChrome_Auto instead. ALPN still
// negotiates h2 or http/1.1; HTTP/2 framing stays on http2.Transport.
func NewChromeTransport(timeout time.Duration) http.RoundTripper {
	dialer := &net.Dialer{Timeout: timeout}

	return &chromeTransport{
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialChromeTLS(ctx, dialer, network, addr)
			},
		},
		h1: &http.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialChromeTLS(ctx, dialer, network, addr)
			},
			ForceAttemptHTTP2: false,
		},
	}
}

// chromeTransport speaks HTTP/2 when the server does and drops to HTTP/1.1
// when it doesn't; both paths dial through the Chrome handshake.
type chromeTransport struct {
	h2 *http2.Transport
	h1 *http.Transport
}

func (t *chromeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	return t.h1.RoundTrip(req)
}

// dialChromeTLS dials and completes a uTLS handshake presenting Chrome's
// ClientHello. SNI comes from the address, which may arrive without a port.
func dialChromeTLS(ctx context.Context, dialer *net.Dialer, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	tlsConn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloChrome_Auto)
	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
