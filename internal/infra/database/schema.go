package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// documentTables lists every document table the service owns. Each table has
// the same shape: id, system-maintained timestamps, and a JSONB attribute bag.
var documentTables = []string{"template", "user", "permission", "role"}

// InitSchema creates the document tables, the updated_at trigger, and the
// unique/secondary indexes. All statements are idempotent.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, table := range documentTables {
		if err := createDocumentTable(ctx, pool, table); err != nil {
			return err
		}
	}

	indexes := []string{
		// Uniqueness is enforced here; application-level checks are only a
		// fast path for friendlier messages.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_username ON "user" ((data->>'username'))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_email ON "user" ((data->>'email')) WHERE data->>'email' IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_role_code ON role ((data->>'code'))`,
		`CREATE INDEX IF NOT EXISTS idx_role_name ON role ((data->>'name'))`,
		`CREATE INDEX IF NOT EXISTS idx_role_type ON role ((data->>'type'))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_permission_code ON permission ((data->>'code'))`,
		`CREATE INDEX IF NOT EXISTS idx_permission_name ON permission ((data->>'name'))`,
		`CREATE INDEX IF NOT EXISTS idx_permission_type ON permission ((data->>'type'))`,
	}

	for _, stmt := range indexes {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

func createDocumentTable(ctx context.Context, pool *pgxpool.Pool, table string) error {
	stmt := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]q (
    id UUID DEFAULT gen_random_uuid() PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    data JSONB
);

CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = CURRENT_TIMESTAMP;
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1
        FROM pg_trigger
        WHERE tgname = 'trigger_update_updated_at_%[1]s'
          AND tgrelid = '%[1]s'::regclass
    ) THEN
        CREATE TRIGGER trigger_update_updated_at_%[1]s
            BEFORE UPDATE ON %[1]q
            FOR EACH ROW
            EXECUTE FUNCTION update_updated_at_column();
    END IF;
END $$;`, table)

	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	return nil
}
