package db

import (
	types "github.com/yungbote/recipe-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.Tag{},
		&types.Ingredient{},
		// Recipe last so its many2many join tables are created after both sides exist.
		&types.Recipe{},
	)
}

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating schema")
	return AutoMigrateAll(s.db)
}
