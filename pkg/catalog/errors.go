package catalog

import (
	"errors"
	"fmt"
)

// DataShapeError indicates a reference URL that does not match the expected
// catalog shape. This is a contract violation of the upstream payload and is
// raised rather than silently producing an invalid identifier.
type DataShapeError struct {
	Ref    string
	Reason string
}

// Error implements the error interface.
func (e *DataShapeError) Error() string {
	return fmt.Sprintf("malformed reference %q: %s", e.Ref, e.Reason)
}

// IsDataShapeError reports whether err is (or wraps) a *DataShapeError.
func IsDataShapeError(err error) bool {
	var de *DataShapeError
	return errors.As(err, &de)
}
