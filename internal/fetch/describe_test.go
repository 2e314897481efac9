package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestDescribe(t *testing.T) {
	const u = "https://example.com/p"
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("%w: empty", ErrInvalidURL), "Invalid URL"},
		{&StatusError{Code: 404}, "HTTP error 404 for " + u},
		{fmt.Errorf("get: %w", &StatusError{Code: 503}), "HTTP error 503 for " + u},
		{context.DeadlineExceeded, "Timeout when accessing " + u},
		{&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, "Connection error to " + u},
		{&net.DNSError{Err: "no such host", Name: "example.com"}, "Connection error to " + u},
		{errors.New("unsupported content type: application/pdf"), "Request error: unsupported content type: application/pdf"},
	}
	for _, tc := range cases {
		if got := Describe(u, tc.err); got != tc.want {
			t.Fatalf("Describe(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestValidateURL(t *testing.T) {
	good := []string{"https://example.com", " http://example.com/a?b=1 ", "file:///tmp/page.html"}
	for _, s := range good {
		if _, err := ValidateURL(s); err != nil {
			t.Fatalf("ValidateURL(%q): %v", s, err)
		}
	}
	bad := []string{"", "   ", "example.com/page", "https://", "mailto:a@b.c", "http://[::1"}
	for _, s := range bad {
		if _, err := ValidateURL(s); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("ValidateURL(%q) = %v, want ErrInvalidURL", s, err)
		}
	}
}
