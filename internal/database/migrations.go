package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(500),
		provider VARCHAR(50) NOT NULL,
		provider_id VARCHAR(255) NOT NULL,
		global_role VARCHAR(50) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(provider, provider_id)
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(500),
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role VARCHAR(50) NOT NULL DEFAULT 'member',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(team_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS artists (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(1000),
		spotify_id VARCHAR(64),
		genres TEXT[] NOT NULL DEFAULT '{}',
		monthly_listeners BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		artist_id UUID NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		title VARCHAR(500) NOT NULL,
		due_date DATE,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS prospects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		artist_name VARCHAR(255) NOT NULL,
		stage VARCHAR(32) NOT NULL DEFAULT 'discovered',
		priority VARCHAR(16) NOT NULL DEFAULT 'medium',
		genre VARCHAR(100),
		city VARCHAR(100),
		next_follow_up DATE,
		notes TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS budgets (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		artist_id UUID NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		quarter VARCHAR(7) NOT NULL,
		category VARCHAR(100) NOT NULL,
		kind VARCHAR(16) NOT NULL,
		amount_cents BIGINT NOT NULL,
		description TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// One row per artist, replaced wholesale on every sync
	`CREATE TABLE IF NOT EXISTS performance_snapshots (
		artist_id UUID PRIMARY KEY REFERENCES artists(id) ON DELETE CASCADE,
		lead_streams_total BIGINT NOT NULL DEFAULT 0,
		monthly_streams BIGINT NOT NULL DEFAULT 0,
		est_monthly_revenue DOUBLE PRECISION NOT NULL DEFAULT 0,
		raw JSONB NOT NULL DEFAULT '{}',
		scraped_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS section_preferences (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		settings JSONB NOT NULL DEFAULT '{}',
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_team_id ON team_members(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_user_id ON team_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_artists_team_id ON artists(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_artist_id ON tasks(artist_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_team_id ON tasks(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_prospects_team_id ON prospects(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_budgets_artist_id ON budgets(artist_id)`,
	`CREATE INDEX IF NOT EXISTS idx_budgets_team_quarter ON budgets(team_id, quarter)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
