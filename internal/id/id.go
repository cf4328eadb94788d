package id

import "github.com/oklog/ulid/v2"

// New returns a lexically sortable ULID string.
func New() string {
	return ulid.Make().String()
}
