package tasker

import "reflect"

// Processor is implemented by types that consume tasks. Pools are generic over
// the concrete processor type, so the call is made on a type parameter rather
// than through a stored closure.
type Processor[T any] interface {
	Process(v T)
}

// ProcessorFunc adapts an ordinary function to the Processor interface
type ProcessorFunc[T any] func(v T)

// Process calls f(v)
func (f ProcessorFunc[T]) Process(v T) {
	f(v)
}

// isNil reports whether a processor is nil, including typed nil pointers and functions
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
