package utils

import (
	"fmt"
	"net"
	"net/http"
	"time"
)

func Str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// NewHTTPClient builds a client with a bounded dial timeout and an
// overall request deadline, so no outbound call can block forever.
func NewHTTPClient(connect, read time.Duration) *http.Client {
	if connect <= 0 {
		connect = 5 * time.Second
	}
	if read <= 0 {
		read = 25 * time.Second
	}
	return &http.Client{
		Timeout: read,
		Transport: &http.Transport{
			DialContext:         (&net.Dialer{Timeout: connect}).DialContext,
			TLSHandshakeTimeout: connect,
		},
	}
}
