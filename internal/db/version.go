package db

import (
	"github.com/lineagehq/lineage/internal/db/migrations"
)

// SchemaVersion returns the number of SQL migration files, which equals the
// current schema version. Exposed through the readiness endpoint and the CLI
// doctor command so operators can compare instances.
func SchemaVersion() int {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return 0
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() {
			count++
		}
	}

	return count
}
