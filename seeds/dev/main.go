package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edvin/botfarm/internal/core"
)

const (
	devUserID = "usr_dev_000000000001"
	devBot1ID = "bot_dev_000000000001"
	devBot2ID = "bot_dev_000000000002"
)

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	fmt.Println("Seeding botfarm database...")

	fmt.Println("  Inserting dev user...")
	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, display_name, verified_at) VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash`,
		devUserID, "dev@botfarm.test", core.HashPassword("devpassword"), "Dev User")
	if err != nil {
		fmt.Fprintf(os.Stderr, "insert user: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("  Inserting bots...")
	bots := []struct {
		id, name, platform, runtime string
	}{
		{devBot1ID, "Echo Bot", "telegram", "python"},
		{devBot2ID, "Moderator", "discord", "nodejs"},
	}
	for _, b := range bots {
		_, err = pool.Exec(ctx,
			`INSERT INTO bots (id, user_id, name, platform, runtime, status) VALUES ($1, $2, $3, $4, $5, 'offline')
			 ON CONFLICT (id) DO NOTHING`,
			b.id, devUserID, b.name, b.platform, b.runtime)
		if err != nil {
			fmt.Fprintf(os.Stderr, "insert bot %s: %v\n", b.name, err)
			os.Exit(1)
		}
	}

	fmt.Println("  Inserting env vars...")
	_, err = pool.Exec(ctx,
		`INSERT INTO bot_env_vars (id, bot_id, key, value) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (bot_id, key) DO UPDATE SET value = EXCLUDED.value`,
		"bev_dev_000000000001", devBot1ID, "TELEGRAM_TOKEN", "dev-token-not-real")
	if err != nil {
		fmt.Fprintf(os.Stderr, "insert env var: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done. Login: dev@botfarm.test / devpassword")
}
