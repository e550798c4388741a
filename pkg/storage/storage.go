// Package storage is a best-effort key/value store for client-side session
// state. No operation ever returns an error: a store that cannot be read
// behaves as empty and writes that fail are dropped.
package storage

import "context"

const (
	KeyAuthToken = "auth_token"
	KeyUser      = "user"
)

type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Remove(ctx context.Context, key string)
}

// Nop is used when no store can be resolved.
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool) { return "", false }
func (Nop) Set(context.Context, string, string)        {}
func (Nop) Remove(context.Context, string)             {}
