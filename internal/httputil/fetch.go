// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP helpers shared by the OMDb client:
// a JSON GET, a typed error for non-success status codes, and a test for
// cancellation.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// StatusError reports a response whose status code is not 2xx. It is the
// transport failure class; application errors carried in a 200 body are the
// caller's to classify.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.URL, e.StatusCode)
}

// IsCanceled reports whether err is the result of the caller cancelling the
// request context. A request that ran out its deadline is not cancelled.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// GetJSON issues a GET for reqURL under ctx and decodes the JSON body into v.
//
// A non-2xx status yields a *StatusError with the body drained and closed.
// Cancelling ctx aborts the request and GetJSON returns an error that
// satisfies IsCanceled.
func GetJSON(ctx context.Context, client *http.Client, reqURL, userAgent string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		// client.Do wraps the context error in *url.Error, which unwraps.
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, URL: redact(req)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// redact drops the query string so API keys never reach error messages.
func redact(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	return u.String()
}
