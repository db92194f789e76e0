package database

import (
	"gorm.io/gorm"

	"github.com/tempofeed/tempofeed-api/internal/models"
)

// systemActivityTypes is the fixed seed list. IDs and order values 1..10 are
// stable across deployments; the quota and governance checks rely on IsSystem,
// not on the ID range.
var systemActivityTypes = []models.ActivityType{
	{ID: 1, Name: "Study", Icon: "book", DefaultColor: "#4F86F7", Category: "learning", Order: 1, IsSystem: true},
	{ID: 2, Name: "Work", Icon: "briefcase", DefaultColor: "#5D6D7E", Category: "career", Order: 2, IsSystem: true},
	{ID: 3, Name: "Reading", Icon: "book-open", DefaultColor: "#AF7AC5", Category: "learning", Order: 3, IsSystem: true},
	{ID: 4, Name: "Exercise", Icon: "dumbbell", DefaultColor: "#E74C3C", Category: "health", Order: 4, IsSystem: true},
	{ID: 5, Name: "Coding", Icon: "code", DefaultColor: "#2ECC71", Category: "career", Order: 5, IsSystem: true},
	{ID: 6, Name: "Art", Icon: "palette", DefaultColor: "#F39C12", Category: "creative", Order: 6, IsSystem: true},
	{ID: 7, Name: "Music", Icon: "music", DefaultColor: "#9B59B6", Category: "creative", Order: 7, IsSystem: true},
	{ID: 8, Name: "Meditation", Icon: "lotus", DefaultColor: "#1ABC9C", Category: "health", Order: 8, IsSystem: true},
	{ID: 9, Name: "Language", Icon: "globe", DefaultColor: "#3498DB", Category: "learning", Order: 9, IsSystem: true},
	{ID: 10, Name: "Writing", Icon: "pen", DefaultColor: "#E67E22", Category: "creative", Order: 10, IsSystem: true},
}

// SeedSystemActivityTypes inserts the fixed system activity types. Idempotent:
// rows that already exist are left untouched.
func SeedSystemActivityTypes(db *gorm.DB) error {
	for _, at := range systemActivityTypes {
		if err := db.Where(models.ActivityType{ID: at.ID}).FirstOrCreate(&at).Error; err != nil {
			return err
		}
	}
	return nil
}
