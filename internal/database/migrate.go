package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// Idempotent DDL executed at startup when MIGRATE_ON_START is set.
// Ticket IDs are UUIDs assigned by the application; user and event IDs
// are auto-increment.  The CHECK on balance_cents backs up the
// application-level overdraft guard, and the composite index on
// (event_id, user_id) serves the flattened booking query.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(16) NOT NULL DEFAULT 'CUSTOMER',
		balance_cents BIGINT NOT NULL DEFAULT 0 CHECK (balance_cents >= 0),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		starts_at DATETIME NOT NULL,
		price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id CHAR(36) PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		event_id BIGINT UNSIGNED NOT NULL,
		place INT NOT NULL,
		category ENUM('PREMIUM','STANDARD','BAR') NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_tickets_user FOREIGN KEY (user_id) REFERENCES users(id),
		INDEX idx_tickets_event_user (event_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
}

// Migrate applies the schema statements one by one.  Every statement
// is idempotent so repeated startups are safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	log.Println("database: schema bootstrap complete")
	return nil
}
