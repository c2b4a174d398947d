// Package mongostore implements the domain repositories on MongoDB with the v2 driver.
// Documents use the UUID string form as _id; multi-document writes run in session transactions,
// which require a replica set or sharded deployment.
package mongostore

import (
	"context"
	"log/slog"
	"time"

	"storefront/config"
	"storefront/internal/domain/lifecycle"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/fx"
)

// Collection names
const (
	ColUsers      = "users"
	ColCategories = "categories"
	ColProducts   = "products"
	ColOrders     = "orders"
)

const defaultConnectTimeout = 10 * time.Second

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Store owns the client and the database every repository reads from.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// New creates the MongoDB client. The connection is verified when the application starts.
func New(params Params) (*Store, error) {
	cfg := params.Config.Mongo
	if cfg == nil || cfg.URI == "" {
		return nil, errors.New("mongo uri must be provided")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongo database must be provided")
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MongoDB client")
	}

	store := &Store{
		client: client,
		db:     client.Database(cfg.Database),
		logger: params.Logger,
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx, nil); err != nil {
				return errors.Wrap(err, "failed to ping MongoDB")
			}

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			return store.Close(stopCtx)
		},
	})

	return store, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return errors.Wrap(s.client.Disconnect(ctx), "failed to disconnect MongoDB")
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}
