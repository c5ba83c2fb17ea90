package database

import (
	"database/sql"
	"embed"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationDialect = "sqlite3"

func migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// MigrateUp applies every pending migration and returns how many ran.
func MigrateUp(db *sql.DB) (int, error) {
	return migrate.Exec(db, migrationDialect, migrationSource(), migrate.Up)
}

// MigrateDown rolls back at most steps migrations.
func MigrateDown(db *sql.DB, steps int) (int, error) {
	return migrate.ExecMax(db, migrationDialect, migrationSource(), migrate.Down, steps)
}

type MigrationStatus struct {
	ID      string
	Applied bool
}

func MigrationStatuses(db *sql.DB) ([]MigrationStatus, error) {
	migrations, err := migrationSource().FindMigrations()
	if err != nil {
		return nil, err
	}

	records, err := migrate.GetMigrationRecords(db, migrationDialect)
	if err != nil {
		return nil, err
	}

	applied := make(map[string]bool, len(records))
	for _, record := range records {
		applied[record.Id] = true
	}

	statuses := make([]MigrationStatus, 0, len(migrations))
	for _, m := range migrations {
		statuses = append(statuses, MigrationStatus{ID: m.Id, Applied: applied[m.Id]})
	}
	return statuses, nil
}
