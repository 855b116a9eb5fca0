package models

import "github.com/oklog/ulid/v2"

// NewID returns a new record identifier. IDs sort in creation order.
func NewID() string {
	return ulid.Make().String()
}
