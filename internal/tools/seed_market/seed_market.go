package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trendforge/fantasymarket/internal/dbconfig"
)

// Asset mirrors the JSON snapshot layout
type Asset struct {
	ID       uuid.UUID `json:"id"`
	Category string    `json:"category"`
	Name     string    `json:"name"`
}

type Team struct {
	ID       uuid.UUID `json:"id"`
	LeagueID uuid.UUID `json:"league_id"`
	Name     string    `json:"name"`
}

type SeedFile struct {
	Assets []Asset `json:"assets"`
	Teams  []Team  `json:"teams"`
}

func main() {
	path := flag.String("file", "seed_market.json", "path to market seed JSON")
	flag.Parse()

	ctx := context.Background()

	// 1) Load the JSON snapshot
	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Upsert and count
	var inserted, skipped, errs int
	for _, a := range seed.Assets {
		tag, err := pool.Exec(ctx, `
            INSERT INTO assets (id, category, name)
            VALUES ($1, $2, $3)
            ON CONFLICT (id) DO NOTHING
        `, a.ID, a.Category, a.Name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting asset %s: %v\n", a.ID, err)
			errs++
			continue
		}
		if tag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}
	fmt.Printf("Assets seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		len(seed.Assets), inserted, skipped, errs)

	inserted, skipped, errs = 0, 0, 0
	for _, t := range seed.Teams {
		tag, err := pool.Exec(ctx, `
            INSERT INTO teams (id, league_id, name)
            VALUES ($1, $2, $3)
            ON CONFLICT (id) DO NOTHING
        `, t.ID, t.LeagueID, t.Name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting team %s: %v\n", t.ID, err)
			errs++
			continue
		}
		if tag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}
	fmt.Printf("Teams seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		len(seed.Teams), inserted, skipped, errs)
}
