package mongostore

import (
	"context"

	"storefront/internal/domain/repository"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type schemaMigrator struct {
	store *Store
}

// NewSchemaMigrator returns a migrator that ensures every index the repositories rely on.
func NewSchemaMigrator(store *Store) repository.SchemaMigrator {
	return &schemaMigrator{store: store}
}

func (m *schemaMigrator) Migrate(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		// users
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},

		// categories
		{ColCategories, bson.D{{Key: "name", Value: 1}}, true},
		{ColCategories, bson.D{{Key: "created_at", Value: -1}}, false},

		// products
		{ColProducts, bson.D{{Key: "category_id", Value: 1}}, false},
		{ColProducts, bson.D{{Key: "created_at", Value: -1}}, false},
		{ColProducts, bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}, false},

		// orders
		{ColOrders, bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}, false},
		{ColOrders, bson.D{{Key: "created_at", Value: -1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := m.store.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return errors.Wrapf(err, "failed to create index on %s", i.col)
		}
	}

	if m.store.logger != nil {
		m.store.logger.InfoContext(ctx, "MongoDB indexes ensured", "count", len(indexes))
	}

	return nil
}
