package universalhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const contentTypeJSON = "application/json"

// Request describes one call. Body takes priority over BodyModel; BodyModel
// is never attached to a GET, while an explicit Body is.
type Request struct {
	Delegate  Delegate
	URL       string
	Body      map[string]any
	Method    HTTPMethod
	BodyModel any
	Headers   map[string]string
	Debug     bool
}

// parseURL accepts absolute http(s) URLs whose characters are all legal
// unencoded.
func parseURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("url is empty")
	}
	for i := 0; i < len(raw); i++ {
		if !isURLByte(raw[i]) {
			return nil, fmt.Errorf("url contains unencoded character %q at offset %d", raw[i], i)
		}
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("url has no host")
	}
	return u, nil
}

// isURLByte reports whether c is an RFC 3986 unreserved or reserved
// character, or the percent sign of an escape.
func isURLByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-._~:/?#[]@!$&'()*+,;=%", c) >= 0
}

// encodeBody returns the bytes to send, or nil when nothing is attached.
// A non-nil error means an encoding attempt failed; it never blocks the request.
func encodeBody(req Request) ([]byte, error) {
	var errs []error
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err == nil {
			return raw, nil
		}
		errs = append(errs, fmt.Errorf("body map: %w", err))
	}
	if req.BodyModel != nil && req.Method != GET {
		raw, err := json.Marshal(req.BodyModel)
		if err == nil {
			return raw, nil
		}
		errs = append(errs, fmt.Errorf("body model: %w", err))
	}
	return nil, errors.Join(errs...)
}

func buildHeader(headers map[string]string, hasBody bool) http.Header {
	h := make(http.Header, len(headers)+1)
	for key, value := range headers {
		h.Add(key, value)
	}
	if hasBody && h.Get("Content-Type") == "" {
		h.Set("Content-Type", contentTypeJSON)
	}
	return h
}
