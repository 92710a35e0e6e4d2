package store

import "context"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT PRIMARY KEY,
		expire_date TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS history (
		id BIGSERIAL PRIMARY KEY,
		chat_id BIGINT NOT NULL,
		amount BIGINT NOT NULL CHECK (amount <> 0),
		description TEXT,
		balance_after BIGINT NOT NULL,
		user_name TEXT,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS assistants (
		id BIGSERIAL PRIMARY KEY,
		chat_id BIGINT NOT NULL,
		owner_id BIGINT NOT NULL,
		assistant_id BIGINT NOT NULL,
		UNIQUE (chat_id, assistant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS report_jobs (
		chat_id BIGINT PRIMARY KEY,
		hour INT NOT NULL CHECK (hour BETWEEN 0 AND 23),
		minute INT NOT NULL CHECK (minute BETWEEN 0 AND 59)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_chat_id ON history (chat_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assistants_chat_id ON assistants (chat_id)`,
	`CREATE INDEX IF NOT EXISTS idx_users_user_id ON users (user_id)`,
}

// Bootstrap creates the schema if it does not exist yet. Statements are
// individually idempotent, so a partial earlier run is safe to repeat.
func (s *Store) Bootstrap(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
