// Package store opens the entry repository selected by the server
// configuration and prepares its schema.
package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophfeedback/internal/logging"
	"github.com/dmitrijs2005/gophfeedback/internal/server/config"
	"github.com/dmitrijs2005/gophfeedback/internal/server/repositories/dynamo"
	"github.com/dmitrijs2005/gophfeedback/internal/server/repositories/entries"
	"github.com/dmitrijs2005/gophfeedback/internal/server/repositories/repomanager"
)

type dynamoClient interface {
	dynamo.API
	dynamo.TableAPI
}

var newDynamoClient = func(ctx context.Context, cfg dynamo.ClientConfig) (dynamoClient, error) {
	return dynamo.NewClient(ctx, cfg)
}

// Store is an opened entry repository.
type Store struct {
	Backend string
	Entries entries.Repository
	close   func() error
}

// Close releases the underlying connection, if any.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the configured backend. SQL databases are migrated to
// the latest schema and a missing DynamoDB table is created when the
// configuration allows it.
func Open(ctx context.Context, c *config.Config, logger logging.Logger) (*Store, error) {
	logger = logger.With("module", "store", "backend", c.StoreBackend)

	switch c.StoreBackend {
	case config.BackendSQL:
		db, rm, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		logger.Info(ctx, "database ready", "driver", rm.Dialect().Name)
		return &Store{Backend: c.StoreBackend, Entries: rm.Entries(db), close: db.Close}, nil

	case config.BackendDynamoDB:
		client, err := newDynamoClient(ctx, dynamo.ClientConfig{
			Region:    c.DynamoRegion,
			Endpoint:  c.DynamoEndpoint,
			AccessKey: c.DynamoAccessKey,
			SecretKey: c.DynamoSecretKey,
		})
		if err != nil {
			return nil, err
		}
		if c.DynamoCreateTable {
			if err := dynamo.EnsureTable(ctx, client, c.DynamoTable); err != nil {
				return nil, err
			}
		}
		logger.Info(ctx, "dynamodb ready", "table", c.DynamoTable)
		return &Store{Backend: c.StoreBackend, Entries: dynamo.NewRepository(client, c.DynamoTable)}, nil

	case config.BackendMemory:
		logger.Warn(ctx, "entries are kept in memory and lost on restart")
		return &Store{Backend: c.StoreBackend, Entries: entries.NewMemoryRepository()}, nil
	}

	return nil, fmt.Errorf("unsupported store backend %q", c.StoreBackend)
}
