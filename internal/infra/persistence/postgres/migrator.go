package postgres

import (
	"context"

	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const createProductSearchIndex = "CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN (" + productSearchExpr + ")"

type schemaMigrator struct {
	db *gorm.DB
}

// NewSchemaMigrator returns a migrator that creates or alters the tables for every model.
func NewSchemaMigrator(db *gorm.DB) repository.SchemaMigrator {
	return &schemaMigrator{db: db}
}

func (m *schemaMigrator) Migrate(ctx context.Context) error {
	db := m.db.WithContext(ctx)
	if err := db.AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(createProductSearchIndex).Error; err != nil {
		return errors.Wrap(err, "failed to create product search index")
	}

	return nil
}
