package catalog

import (
	"strconv"
	"strings"
)

// ParseRefID extracts the numeric identifier from a catalog reference URL.
// References have the shape ".../{kind}/{id}/" with the identifier as the
// last path segment before the trailing slash. A reference that does not
// match this shape yields a *DataShapeError.
func ParseRefID(ref string) (int, error) {
	trimmed := strings.TrimRight(ref, "/")
	if trimmed == "" {
		return 0, &DataShapeError{Ref: ref, Reason: "empty reference"}
	}

	seg := trimmed
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		seg = trimmed[i+1:]
	}

	id, err := strconv.Atoi(seg)
	if err != nil {
		return 0, &DataShapeError{Ref: ref, Reason: "last path segment is not numeric"}
	}
	if id <= 0 {
		return 0, &DataShapeError{Ref: ref, Reason: "identifier must be positive"}
	}

	return id, nil
}
