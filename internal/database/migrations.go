package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/models"
)

// Migrate creates the schema and the indexes the query paths depend on.
func Migrate() error {
	return MigrateDatabase(DB)
}

// MigrateDatabase runs auto-migration plus the raw indexes AutoMigrate
// cannot express.
func MigrateDatabase(db *gorm.DB) error {
	zap.L().Info("running database migrations")

	err := db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.ProjectGroup{},
		&models.Project{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.Bug{},
		&models.TimeLog{},
		&models.Timesheet{},
		&models.Milestone{},
		&models.Comment{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := addIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	zap.L().Info("database migrations completed")
	return nil
}

// addIndexes creates composite and partial indexes. The partial unique index
// on project_groups is the persistence-level backstop for the
// case-insensitive name constraint: the guard checks it first, the index
// settles races.
func addIndexes(db *gorm.DB) error {
	// Partial indexes are Postgres-only; skip them elsewhere (tests run on sqlite).
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_project_groups_company_name
			ON project_groups (company_id, LOWER(name)) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_company_status ON tasks (company_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_company_project ON tasks (company_id, project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bugs_company_status ON bugs (company_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_time_logs_company_user_date ON time_logs (company_id, user_id, log_date)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications (user_id, read)`,
	}

	for _, sql := range statements {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}
