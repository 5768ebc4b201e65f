package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound indicates a missing key in the key/value store.
var ErrKeyNotFound = errors.New("key not found")

// KeyValuePair represents a stored key/value entry with metadata.
type KeyValuePair struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// KeyValueStorage defines persistent key/value operations used for settings
// such as API keys and SMTP credentials. Keys are case-insensitive.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	GetPair(ctx context.Context, key string) (*KeyValuePair, error)
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key string, value string, description string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]*KeyValuePair, error)
}
