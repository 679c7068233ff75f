package universalhttp

// Delegate is told when a request fails. It carries no detail, only the fact
// of failure; the result channel carries the absent model.
type Delegate interface {
	ErrorDidOccur()
}

// DelegateFunc adapts a plain function to the Delegate interface.
type DelegateFunc func()

// ErrorDidOccur calls f.
func (f DelegateFunc) ErrorDidOccur() {
	if f != nil {
		f()
	}
}

func notify(d Delegate) {
	if d != nil {
		d.ErrorDidOccur()
	}
}
