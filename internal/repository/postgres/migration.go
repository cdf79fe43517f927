package postgres

import (
	"database/sql"
	"fmt"
	"os"
)

// RunMigrations executes the schema.sql file to initialize the database.
// A few common locations are checked so this works regardless of where
// 'go run' or the binary is executed from.
func RunMigrations(db *sql.DB) error {
	possiblePaths := []string{
		"script/migration/schema.sql",    // from repo root (go run ./cmd/server)
		"../script/migration/schema.sql", // from cmd/server
		"../../script/migration/schema.sql",
	}

	var schemaPath string
	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			schemaPath = path
			break
		}
	}
	if schemaPath == "" {
		schemaPath = possiblePaths[0]
	}

	content, err := os.ReadFile(schemaPath)
	if err != nil {
		wd, _ := os.Getwd()
		return fmt.Errorf("failed to read migration file %q (wd: %s): %v", schemaPath, wd, err)
	}

	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to execute schema.sql: %v", err)
	}

	return nil
}
