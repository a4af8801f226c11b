package config

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

const profilesSchema = `
CREATE TABLE IF NOT EXISTS baby_profiles (
	id UUID PRIMARY KEY,
	owner_user_id UUID NOT NULL,
	name VARCHAR(100) NOT NULL,
	date_of_birth DATE NOT NULL,
	birth_weight NUMERIC,
	birth_length NUMERIC,
	birth_head_circumference NUMERIC,
	sex TEXT NOT NULL DEFAULT 'unknown',
	timezone VARCHAR(50) NOT NULL DEFAULT 'Australia/Sydney',
	notes TEXT,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT chk_sex CHECK (sex IN ('male', 'female', 'other', 'unknown')),
	CONSTRAINT chk_birth_measurements CHECK (
		(birth_weight IS NULL OR birth_weight > 0) AND
		(birth_length IS NULL OR birth_length > 0) AND
		(birth_head_circumference IS NULL OR birth_head_circumference > 0)
	)
);`

// care_events stores the normalized record of every accepted event as JSONB
const eventsSchema = `
CREATE TABLE IF NOT EXISTS care_events (
	id UUID PRIMARY KEY,
	baby_id UUID NOT NULL REFERENCES baby_profiles(id) ON DELETE CASCADE,
	kind TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	created_by UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	payload JSONB NOT NULL,
	CONSTRAINT chk_kind CHECK (kind IN ('feeding', 'sleep', 'diaper', 'growth', 'health'))
);`

// InitDatabase creates the database schema if it does not exist
// With dropTables set, existing tables are dropped first
func InitDatabase(db *sql.DB, dropTables bool) error {
	if dropTables {
		log.Println("Dropping existing tables (DROP_TABLES_ON_STARTUP=true)...")
		for _, table := range []string{"care_events", "baby_profiles"} {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE"); err != nil {
				log.Printf("Warning: Failed to drop %s table: %v", table, err)
			}
		}
	}

	log.Println("Creating baby_profiles table...")
	if _, err := db.Exec(profilesSchema); err != nil {
		return fmt.Errorf("failed to create baby_profiles table: %w", err)
	}

	log.Println("Creating care_events table...")
	if _, err := db.Exec(eventsSchema); err != nil {
		return fmt.Errorf("failed to create care_events table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_baby_profiles_owner_user_id ON baby_profiles(owner_user_id)",
		"CREATE INDEX IF NOT EXISTS idx_baby_profiles_is_active ON baby_profiles(is_active)",
		"CREATE INDEX IF NOT EXISTS idx_care_events_baby_id ON care_events(baby_id)",
		"CREATE INDEX IF NOT EXISTS idx_care_events_baby_kind_occurred ON care_events(baby_id, kind, occurred_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_care_events_created_by ON care_events(created_by)",
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
		}
	}

	log.Println("Database schema initialized successfully")
	return nil
}

// ConnectDatabase establishes a connection to PostgreSQL with retry logic
func ConnectDatabase(databaseURL string, maxRetries int, retryDelay time.Duration) (*sql.DB, error) {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		db, err := sql.Open("postgres", databaseURL)
		if err == nil {
			if err = db.Ping(); err == nil {
				// Configure connection pool
				db.SetMaxOpenConns(25)
				db.SetMaxIdleConns(5)
				db.SetConnMaxLifetime(5 * time.Minute)

				log.Println("Database connection established successfully")
				return db, nil
			}
			db.Close()
		}

		lastErr = err
		log.Printf("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, lastErr)
}
