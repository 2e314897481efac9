package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// Describe renders err as the one-line message stored in result rows.
func Describe(rawURL string, err error) string {
	if err == nil {
		return ""
	}
	var se *StatusError
	switch {
	case errors.Is(err, ErrInvalidURL):
		return "Invalid URL"
	case errors.As(err, &se):
		return fmt.Sprintf("HTTP error %d for %s", se.Code, rawURL)
	case IsTimeout(err):
		return fmt.Sprintf("Timeout when accessing %s", rawURL)
	case isConnection(err):
		return fmt.Sprintf("Connection error to %s", rawURL)
	default:
		return fmt.Sprintf("Request error: %v", err)
	}
}

// IsTimeout reports whether err came from a deadline rather than the server.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isConnection(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}
