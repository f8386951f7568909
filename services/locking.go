package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockProjectRow takes the project-scoped write lock that serializes edge
// admission and clone sort-index computation within one project. SQLite
// (used in tests) serializes writers on its own and rejects FOR UPDATE
// syntax, so the clause is skipped there.
func lockProjectRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
