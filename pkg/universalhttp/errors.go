package universalhttp

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidURL = errors.New("invalid url")
	ErrTransport  = errors.New("transport failure")
	ErrDecode     = errors.New("decode failure")
	ErrEncode     = errors.New("encode failure")
)

// Kind classifies a failed request.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidURL
	KindTransport
	KindDecode
	KindEncode
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidURL:
		return ErrInvalidURL
	case KindTransport:
		return ErrTransport
	case KindDecode:
		return ErrDecode
	case KindEncode:
		return ErrEncode
	default:
		return nil
	}
}

// Error is returned by Execute for every failed request.
type Error struct {
	Kind   Kind
	Method string
	URL    string
	Err    error
}

func (e *Error) Error() string {
	reason := e.Kind.String()
	if s := e.Kind.sentinel(); s != nil {
		reason = s.Error()
	}
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, reason)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, reason, e.Err)
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf reports the failure kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
