package universalhttp

import (
	"fmt"
	"net/http"
	"strings"
)

// HTTPMethod is the verb used for a request. The zero value is GET.
type HTTPMethod int

const (
	GET HTTPMethod = iota
	POST
)

// String returns the wire name of the method.
func (m HTTPMethod) String() string {
	if m == POST {
		return http.MethodPost
	}
	return http.MethodGet
}

// ParseMethod maps a config value onto an HTTPMethod. Empty means GET.
func ParseMethod(s string) (HTTPMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", http.MethodGet:
		return GET, nil
	case http.MethodPost:
		return POST, nil
	default:
		return GET, fmt.Errorf("unsupported http method %q (expected GET or POST)", s)
	}
}
