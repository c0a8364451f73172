package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMigrationPart(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE deliveries (id uuid);
ALTER TABLE deliveries ADD COLUMN status text;

-- +migrate Down
DROP TABLE deliveries;
`
	t.Run("Up", func(t *testing.T) {
		up := extractMigrationPart(content, "Up")
		assert.Contains(t, up, "CREATE TABLE deliveries")
		assert.Contains(t, up, "ALTER TABLE deliveries")
		assert.NotContains(t, up, "DROP TABLE deliveries")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Down", func(t *testing.T) {
		down := extractMigrationPart(content, "Down")
		assert.Contains(t, down, "DROP TABLE deliveries")
		assert.NotContains(t, down, "CREATE TABLE deliveries")
	})
}

func TestRunMigrationsUp(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	tmpDir := t.TempDir()
	fileName := "20250110000001_create_sellers.sql"
	filePath := filepath.Join(tmpDir, fileName)
	require.NoError(t, os.WriteFile(filePath, []byte("-- +migrate Up\nCREATE TABLE sellers (id bigserial);"), 0644))

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs(fileName).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE TABLE sellers").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs(fileName).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, runMigrationsUp(database, []string{filePath}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsUp_SkipsApplied(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	tmpDir := t.TempDir()
	fileName := "20250110000001_create_sellers.sql"
	filePath := filepath.Join(tmpDir, fileName)
	require.NoError(t, os.WriteFile(filePath, []byte("-- +migrate Up\nCREATE TABLE sellers (id bigserial);"), 0644))

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs(fileName).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, runMigrationsUp(database, []string{filePath}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsDown(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	tmpDir := t.TempDir()
	fileName := "20250110000001_create_sellers.sql"
	filePath := filepath.Join(tmpDir, fileName)
	require.NoError(t, os.WriteFile(filePath, []byte("-- +migrate Up\nCREATE TABLE sellers (id bigserial);\n-- +migrate Down\nDROP TABLE sellers;"), 0644))

	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(fileName))
	mock.ExpectExec("DROP TABLE sellers").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM schema_migrations").
		WithArgs(fileName).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, runMigrationsDown(database, []string{filePath}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_UnknownMode(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = run(database, "sideways", t.TempDir())
	assert.ErrorContains(t, err, "unknown mode")
}
