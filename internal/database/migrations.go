package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes AutoMigrate cannot express from
// struct tags alone.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Owner-scoped listing in creation order
		{"tasks", "idx_tasks_owner_id_id", "owner_id, id"},
		// Owner-scoped listing filtered by completion
		{"tasks", "idx_tasks_owner_id_done", "owner_id, done"},
	}

	for _, idx := range indexes {
		sql := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Debug().Str("index", idx.name).Str("table", idx.table).Msg("Index ensured")
	}

	return nil
}
