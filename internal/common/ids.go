package common

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewULID returns a 26-char sortable id, used for visitor session ids.
func NewULID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// NewUUID returns a random uuid string, used for widget and source ids.
func NewUUID() string {
	return uuid.NewString()
}
