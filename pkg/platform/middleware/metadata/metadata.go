package metadata

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

type contextKeyClient struct{}

// Client describes the caller as seen from its connection and User-Agent.
type Client struct {
	IP        string
	UserAgent string
	Browser   string
	OS        string
	Bot       bool
}

// ClientMetadata parses the caller's address and User-Agent once per request
// and stores the result in the context. Apply it before Logger.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithClient(r.Context(), ParseClient(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParseClient builds a Client from the request headers.
func ParseClient(r *http.Request) Client {
	raw := r.Header.Get("User-Agent")
	c := Client{IP: ClientIPFromRequest(r), UserAgent: raw}
	if raw == "" {
		return c
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	c.Browser = strings.TrimSpace(name + " " + version)
	c.OS = ua.OS()
	c.Bot = ua.Bot()
	return c
}

// ClientFromContext returns the parsed client, or the zero Client.
func ClientFromContext(ctx context.Context) Client {
	c, _ := ctx.Value(contextKeyClient{}).(Client)
	return c
}

// WithClient injects client metadata into a context.
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, contextKeyClient{}, c)
}

// ClientIPFromRequest returns the originating client address. The first
// X-Forwarded-For hop wins, then X-Real-IP, then the connection's peer.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
