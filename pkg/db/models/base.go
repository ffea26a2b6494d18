package models

import "github.com/google/uuid"

// assignID fills a zero primary key so inserts work without database side defaults.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model, parents first.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&CustomizationGroup{},
		&CustomizationOption{},
		&Order{},
		&OrderItem{},
		&Theme{},
	}
}
