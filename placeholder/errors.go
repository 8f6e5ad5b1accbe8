package placeholder

import "fmt"

// NotFoundError reports a token with no backing value file and no dynamic form.
type NotFoundError struct {
	Name string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("placeholder '%s' not found (expected %s or %s.txt)", e.Name, e.Path, e.Path)
}

// EmptyError reports a backing file with no usable lines.
type EmptyError struct {
	Name string
	Path string
}

func (e *EmptyError) Error() string {
	return fmt.Sprintf("placeholder '%s' has no values in %s", e.Name, e.Path)
}
