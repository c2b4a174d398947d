// Package model contains the GORM-specific structs mirroring the relational schema.
package model

import (
	"github.com/google/uuid"
)

// ensureID assigns a time-ordered UUID when the caller did not set one.
// IDs are generated in Go so the schema does not depend on database-side UUID functions.
func ensureID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}

	generated, err := uuid.NewV7()
	if err != nil {
		return err
	}
	*id = generated

	return nil
}

// All returns every model in dependency order, for migrations.
func All() []any {
	return []any{
		&UserModel{},
		&CategoryModel{},
		&ProductModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
