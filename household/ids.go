package household

import "github.com/google/uuid"

// NewID returns a fresh record id.
func NewID() string {
	return uuid.NewString()
}

func idOrNew(v any) string {
	if s := asString(v); s != "" {
		return s
	}
	return NewID()
}
