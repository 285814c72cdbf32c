package catalog

import (
	"context"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// Store persists whole catalog snapshots.
type Store interface {
	Load(ctx context.Context) ([]Fields, error)
	Save(ctx context.Context, fields []Fields) error
	Ping(ctx context.Context) error
	Location() string
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
