package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var migrationNamePattern = regexp.MustCompile(`^\d{14}_[a-z0-9_]+\.sql$`)

// ValidateDir checks every migration file in dir follows the
// YYYYMMDDHHMMSS_snake_case.sql naming convention goose expects.
func ValidateDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading migrations dir: %w", err)
	}

	var bad []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".sql" {
			continue
		}
		if !migrationNamePattern.MatchString(name) {
			bad = append(bad, name)
		}
	}

	if len(bad) > 0 {
		return fmt.Errorf("malformed migration names: %s", strings.Join(bad, ", "))
	}
	return nil
}
