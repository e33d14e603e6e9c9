package binding

import "reflect"

// Error represents a binding error
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Errors
var (
	ErrNilTarget = &Error{Code: "INVALID_TARGET", Message: "binding target must not be nil"}
	ErrNotFound  = &Error{Code: "NOT_FOUND", Message: "no binding registered under that name"}
)

// validateTarget rejects absent targets. For nilable kinds (pointers, maps,
// channels, funcs, slices, interfaces) a nil value counts as absent;
// non-nilable kinds always pass.
func validateTarget(target interface{}) error {
	if target == nil {
		return ErrNilTarget
	}
	v := reflect.ValueOf(target)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.Interface:
		if v.IsNil() {
			return ErrNilTarget
		}
	}
	return nil
}
