package universalhttp

// Outcome is the result of a request that was sent. A nil Model means the
// call failed or the body was empty; a nil StatusCode means no HTTP response
// was received.
type Outcome[M any] struct {
	Model      *M
	StatusCode *int
}

// Status returns the HTTP status code, if a response was received.
func (o *Outcome[M]) Status() (int, bool) {
	if o == nil || o.StatusCode == nil {
		return 0, false
	}
	return *o.StatusCode, true
}

// OK reports whether a model was decoded.
func (o *Outcome[M]) OK() bool {
	return o != nil && o.Model != nil
}
