package coverage

import (
	"errors"
	"fmt"
)

// ErrIndeterminate is returned when no check path provided an answer.
var ErrIndeterminate = errors.New("installation status is indeterminate, all check paths failed")

// StatusError is returned when a check path responded with a HTTP status
// code that is neither 200 nor 404.
type StatusError struct {
	Path   string
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: http request failed with StatusCode: %d, response: %q", e.Path, e.Status, string(e.Body))
}
