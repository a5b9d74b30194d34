package dbmigrate

import (
	"fmt"

	"github.com/alwell-health/alwell/internal/config"
)

// SelectDatabaseURL selects the Postgres URL for migrations.
// Priority: DIRECT > DATABASE_URL > POOLED (with warning).
// If requireDirect is true, only DATABASE_URL_DIRECT is accepted.
// SQLite storage creates its own schema on open and is rejected here.
func SelectDatabaseURL(cfg *config.Config, requireDirect bool) (dbURL string, source string, warning string, err error) {
	if cfg.StorageMode == config.StorageModeSQLite {
		return "", "", "", fmt.Errorf("STORAGE_MODE=sqlite does not use migrations (schema is created on open at %s)", cfg.SQLitePath)
	}

	if requireDirect {
		if cfg.DatabaseURLDirect == "" {
			return "", "", "", fmt.Errorf("DATABASE_URL_DIRECT is required for startup migrations")
		}
		return cfg.DatabaseURLDirect, "DATABASE_URL_DIRECT", "", nil
	}

	switch {
	case cfg.DatabaseURLDirect != "":
		return cfg.DatabaseURLDirect, "DATABASE_URL_DIRECT", "", nil
	case cfg.DatabaseURLRaw != "":
		return cfg.DatabaseURLRaw, "DATABASE_URL", "", nil
	case cfg.DatabaseURLPooled != "":
		return cfg.DatabaseURLPooled, "DATABASE_URL_POOLED", "pooled connections may break goose advisory locks; set DATABASE_URL_DIRECT", nil
	}

	return "", "", "", fmt.Errorf("no database URL configured for STORAGE_MODE=%s (set DATABASE_URL_DIRECT or DATABASE_URL)", cfg.StorageMode)
}
