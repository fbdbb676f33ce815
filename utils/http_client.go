package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient builds the client used for outbound calls, with a timeout so
// a hung collaborator cannot pin a request goroutine.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
	}
}
