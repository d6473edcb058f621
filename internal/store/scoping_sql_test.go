package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gobinath946/project-weaver-sub001/internal/models"
)

func openMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// The scoping wrapper must emit the tenant and soft-delete predicates on
// every read, verbatim, regardless of what else the caller adds.
func TestScopedQueryCarriesTenantAndSoftDeleteFilters(t *testing.T) {
	db, mock := openMockDB(t)
	store := New[models.Project](db)

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE .*company_id = \$1 AND deleted_at IS NULL.* AND "status" = \$2`).
		WithArgs(int64(42), "active").
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "name"}))

	_, err := store.FindScoped(context.Background(), 42, Conditions{"status": "active"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetScopedQueryShape(t *testing.T) {
	db, mock := openMockDB(t)
	store := New[models.Project](db)

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE .*company_id = \$1 AND deleted_at IS NULL.* AND id = \$2 ORDER BY`).
		WithArgs(int64(42), int64(7), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "name"}).AddRow(7, 42, "Scoped"))

	project, err := store.GetScoped(context.Background(), 42, 7)
	require.NoError(t, err)
	require.Equal(t, "Scoped", project.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}
