package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// LoadFixtures загружает SQL фикстуры в базу
func LoadFixtures(ctx context.Context, db *sql.DB, fixturesPath string, files ...string) error {
	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(fixturesPath, file))
		if err != nil {
			return fmt.Errorf("read fixture %s: %w", file, err)
		}

		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("load fixture %s: %w", file, err)
		}
	}

	return nil
}

// ReadTiles возвращает text[] колонку как строку литерала массива, NULL как пустую строку
func ReadTiles(ctx context.Context, db *sql.DB, table, column, id string) (string, error) {
	var value sql.NullString
	query := fmt.Sprintf("SELECT %s::text FROM %s WHERE id = $1", column, table)
	if err := db.QueryRowContext(ctx, query, id).Scan(&value); err != nil {
		return "", fmt.Errorf("read %s.%s: %w", table, column, err)
	}
	return value.String, nil
}
