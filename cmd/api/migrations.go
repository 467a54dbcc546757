// cmd/api/migrations.go
// Startup schema migrations. Statements are idempotent so the server can
// be pointed at a fresh or an existing database.

package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
)

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			handle VARCHAR(100) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE,
			phone VARCHAR(20) UNIQUE,
			password_hash VARCHAR(255),
			provider VARCHAR(50) DEFAULT 'local',
			provider_id VARCHAR(255),
			display_name VARCHAR(100) DEFAULT '',
			bio TEXT,
			avatar_url TEXT,
			banner_url TEXT,
			location VARCHAR(255),
			website TEXT,
			follower_count INTEGER NOT NULL DEFAULT 0,
			following_count INTEGER NOT NULL DEFAULT 0,
			post_count INTEGER NOT NULL DEFAULT 0,
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			reputation INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS follows (
			follower_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			following_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (follower_id, following_id)
		)`,

		`CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			body TEXT NOT NULL,
			type VARCHAR(20) NOT NULL DEFAULT 'post',
			parent_id BIGINT REFERENCES posts(id) ON DELETE CASCADE,
			quoted_post_id BIGINT REFERENCES posts(id) ON DELETE SET NULL,
			media JSONB,
			poll JSONB,
			hashtags TEXT[] NOT NULL DEFAULT '{}',
			mentions TEXT[] NOT NULL DEFAULT '{}',
			visibility VARCHAR(20) NOT NULL DEFAULT 'public',
			location VARCHAR(255),
			like_count INTEGER NOT NULL DEFAULT 0,
			repost_count INTEGER NOT NULL DEFAULT 0,
			reply_count INTEGER NOT NULL DEFAULT 0,
			bookmark_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS interactions (
			post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (post_id, user_id, type)
		)`,

		`CREATE TABLE IF NOT EXISTS hashtags (
			name VARCHAR(100) PRIMARY KEY,
			usage_count INTEGER NOT NULL DEFAULT 0,
			first_used_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_used_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			type VARCHAR(30) NOT NULL,
			title VARCHAR(255) NOT NULL,
			body TEXT,
			actor_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
			post_id BIGINT REFERENCES posts(id) ON DELETE CASCADE,
			conversation_id BIGINT,
			data JSONB,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS notification_preferences (
			user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			email_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			sms_enabled BOOLEAN NOT NULL DEFAULT FALSE
		)`,

		`CREATE TABLE IF NOT EXISTS search_history (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			query VARCHAR(255) NOT NULL,
			search_type VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS conversations (
			id BIGSERIAL PRIMARY KEY,
			is_group BOOLEAN NOT NULL DEFAULT FALSE,
			pair_key VARCHAR(50) UNIQUE,
			title VARCHAR(100),
			last_message_id BIGINT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS conversation_members (
			conversation_id BIGINT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (conversation_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			conversation_id BIGINT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			body TEXT NOT NULL,
			media_url TEXT,
			edited BOOLEAN NOT NULL DEFAULT FALSE,
			read_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS rooms (
			id BIGSERIAL PRIMARY KEY,
			owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			description TEXT,
			visibility VARCHAR(20) NOT NULL DEFAULT 'public',
			theme JSONB NOT NULL DEFAULT '{}',
			visit_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS room_assets (
			id BIGSERIAL PRIMARY KEY,
			room_id BIGINT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			asset_url TEXT NOT NULL,
			asset_type VARCHAR(20) NOT NULL,
			placement JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS room_visits (
			id BIGSERIAL PRIMARY KEY,
			room_id BIGINT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
			visitor_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
			started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			ended_at TIMESTAMPTZ,
			duration_seconds INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS discovery_swipes (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			target_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			action VARCHAR(10) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, target_id)
		)`,

		`CREATE TABLE IF NOT EXISTS discovery_connections (
			id BIGSERIAL PRIMARY KEY,
			user_a_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user_b_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_a_id, user_b_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_handle ON users(handle)`,
		`CREATE INDEX IF NOT EXISTS idx_follows_following_id ON follows(following_id)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_parent_id ON posts(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_hashtags ON posts USING GIN (hashtags)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user_id ON interactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_hashtags_usage ON hashtags(usage_count DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_search_history_user_id ON search_history(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON messages(conversation_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_rooms_owner_id ON rooms(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_room_assets_room_id ON room_assets(room_id)`,
		`CREATE INDEX IF NOT EXISTS idx_room_visits_room_id ON room_visits(room_id)`,
		`CREATE INDEX IF NOT EXISTS idx_discovery_swipes_target ON discovery_swipes(target_id)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("migration %d/%d failed: %w", i+1, len(migrations), err)
		}
	}

	log.Printf("ran %d schema migrations", len(migrations))
	return nil
}
