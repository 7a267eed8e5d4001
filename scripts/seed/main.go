package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/haven-app/haven/internal/app"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT,
		image_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS guardians (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		relationship TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		ip TEXT,
		ua TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

type seedProduct struct {
	name  string
	price float64
	image string
}

var products = []seedProduct{
	{"Pepper Spray", 254, "/img/pepper-spray.webp"},
	{"Self-Defense Keychain", 305, "/img/keychain.jpg"},
	{"Tactical Flashlight", 695, "/img/flashlight.webp"},
	{"Personal Alarm", 515, "/img/alarm.jpg"},
}

func main() {
	ctx := context.Background()
	logger := slog.Default()

	cfg, err := app.LoadConfig()
	if err != nil {
		logger.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			logger.Error("apply schema", slog.Any("error", err))
			os.Exit(1)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("haven-demo"), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", slog.Any("error", err))
		os.Exit(1)
	}
	_, err = pool.Exec(ctx, `INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING`,
		"demo@haven.local", string(hashed), "Demo User")
	if err != nil {
		logger.Error("seed user", slog.Any("error", err))
		os.Exit(1)
	}

	for _, p := range products {
		_, err := pool.Exec(ctx, `INSERT INTO products (name, price, image)
			SELECT $1, $2, $3
			WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)`,
			p.name, p.price, p.image)
		if err != nil {
			logger.Error("seed product", slog.String("name", p.name), slog.Any("error", err))
			os.Exit(1)
		}
	}

	logger.Info("seed complete")
}
