package saves

import (
	"context"
	"fmt"
)

// Driver names a Store implementation
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverS3       Driver = "s3"
)

// Options selects and configures a Store.
//
//	file:     Target is the save directory (default .saves)
//	sqlite:   Target is the database path (default hamlet.db)
//	postgres: Target is the DSN
//	s3:       S3 is used; Target overrides the bucket when set
type Options struct {
	Driver Driver
	Target string
	S3     S3Config
}

// Open returns the Store for the configured driver (file by default)
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverFile:
		return NewFileStore(opts.Target)
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return NewSQLiteStore(ctx, opts.Target)
	case DriverPostgres:
		return NewPostgresStore(ctx, opts.Target)
	case DriverS3:
		cfg := opts.S3
		if opts.Target != "" {
			cfg.Bucket = opts.Target
		}
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown save driver %q", opts.Driver)
	}
}
