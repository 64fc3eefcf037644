package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func RunMigrations(pool *pgxpool.Pool) error {
	ctx := context.Background()

	migrations := []string{
		createEnumTypes,
		createUsersTable,
		createRDSInstancesTable,
	}

	for i, migration := range migrations {
		log.Printf("Running migration %d/%d", i+1, len(migrations))
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Println("All migrations completed successfully")
	return nil
}

const createEnumTypes = `
-- Create ENUM types if they don't exist
DO $$
BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'rds_engine_t') THEN
    CREATE TYPE rds_engine_t AS ENUM ('mysql', 'postgres', 'mariadb', 'oracle', 'sqlserver');
  END IF;
END$$;

DO $$
BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'rds_status_t') THEN
    CREATE TYPE rds_status_t AS ENUM ('creating', 'available', 'modifying', 'deleting', 'deleted', 'failed');
  END IF;
END$$;
`

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  last_login_at TIMESTAMP WITH TIME ZONE
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
`

const createRDSInstancesTable = `
CREATE TABLE IF NOT EXISTS rds_instances (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  database_name TEXT NOT NULL,
  expected_size TEXT NOT NULL,
  engine rds_engine_t NOT NULL DEFAULT 'mysql',
  instance_class TEXT NOT NULL,
  allocated_storage INT NOT NULL DEFAULT 20,
  aws_instance_identifier TEXT NOT NULL DEFAULT '',
  endpoint TEXT NOT NULL DEFAULT '',
  port INT NOT NULL DEFAULT 3306,
  database_username TEXT NOT NULL DEFAULT 'admin',
  database_password TEXT NOT NULL DEFAULT '',
  service_account_username TEXT NOT NULL DEFAULT '',
  app_username TEXT NOT NULL DEFAULT '',
  status rds_status_t NOT NULL DEFAULT 'creating',
  created_by TEXT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

-- Uniqueness is case-insensitive: "Orders-DB" and "orders-db" are the same name.
CREATE UNIQUE INDEX IF NOT EXISTS ux_rds_instances_database_name_lower ON rds_instances(LOWER(database_name));
CREATE INDEX IF NOT EXISTS idx_rds_instances_created_by ON rds_instances(created_by);
CREATE INDEX IF NOT EXISTS idx_rds_instances_status ON rds_instances(status);
CREATE INDEX IF NOT EXISTS idx_rds_instances_created_at ON rds_instances(created_at);
`
