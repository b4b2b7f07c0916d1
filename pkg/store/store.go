// Package store persists named cursor layouts.
//
// Three backends share the [Store] interface: [FileStore] writes one JSON
// file per layout and suits the CLI; [RedisStore] and [MongoStore] let
// several scope servers share layouts. Layout names are validated with
// errors.ValidateLayoutName before they reach any backend, since they
// become file names and keys.
package store

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/errors"
)

// Store saves and loads cursor layouts by name.
type Store interface {
	// Save writes l under l.Name, replacing any previous layout.
	Save(ctx context.Context, l cursor.Layout) error
	// Load returns the layout called name, or a NOT_FOUND error.
	Load(ctx context.Context, name string) (cursor.Layout, error)
	// List returns the stored layout names in ascending order.
	List(ctx context.Context) ([]string, error)
	// Delete removes a layout. Deleting a missing layout is not an error.
	Delete(ctx context.Context, name string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string
	Dir      string
	RedisURL string
	MongoURI string
	Database string
	Logger   *log.Logger
}

// Open connects to the configured backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case "", BackendFile:
		s, err = NewFileStore(opts.Dir)
	case BackendRedis:
		s, err = NewRedisStore(ctx, opts.RedisURL)
	case BackendMongo:
		s, err = NewMongoStore(ctx, opts.MongoURI, opts.Database)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	if opts.Logger != nil {
		opts.Logger.Debug("cursor store opened", "backend", opts.Backend)
	}
	return s, nil
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeNotFound, "no cursor layout named %q", name)
}
