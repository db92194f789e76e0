package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Session indexes for feed queries and per-user listings
		{"sessions", "idx_sessions_user_created", "user_id, created_at"},
		{"sessions", "idx_sessions_visibility", "visibility"},
		{"sessions", "idx_sessions_activity_type_id", "activity_type_id"},

		// Social graph lookups
		{"follows", "idx_follows_follower_id", "follower_id"},
		{"follows", "idx_follows_followee_id", "followee_id"},

		// Activity type governance
		{"activity_types", "idx_activity_types_user_id", "user_id"},
		{"activity_types", "idx_activity_types_is_system", "is_system"},

		// Comments per session
		{"session_comments", "idx_session_comments_session_id", "session_id"},

		// Preferences per user
		{"user_activity_preferences", "idx_activity_prefs_user_id", "user_id"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}
