package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/trendforge/fantasymarket/clients"
	"github.com/trendforge/fantasymarket/clients/market_api_client"
	"github.com/trendforge/fantasymarket/internal/dbconfig"
	"github.com/trendforge/fantasymarket/internal/models"
	"github.com/trendforge/fantasymarket/internal/storage/postgres"
)

func main() {
	period := flag.String("period", time.Now().UTC().Format("2006-01-02"), "scoring day to ingest (YYYY-MM-DD)")
	source := flag.String("source", string(clients.GetHighestPrioritySource()), "external source to ingest from")
	flag.Parse()

	_ = godotenv.Load()

	if !clients.ValidateExternalSource(clients.ExternalSource(*source)) {
		fmt.Fprintf(os.Stderr, "unknown source %q\n", *source)
		os.Exit(1)
	}
	if clients.ExternalSource(*source) != clients.ExternalSourceMarketAPI {
		fmt.Fprintf(os.Stderr, "source %q has no ingest implementation yet\n", *source)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := postgres.Open(ctx, dbconfig.NewConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	client := market_api_client.NewMarketApiClient(
		os.Getenv("MARKET_API_URL"),
		os.Getenv("MARKET_API_KEY"),
	)

	snaps, err := client.GetSnapshots(ctx, *period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch snapshots: %v\n", err)
		os.Exit(1)
	}

	store := postgres.NewTrendStore(db)
	var upserted, errs int
	for _, s := range snaps {
		cat, err := models.ParseAssetCategory(s.Category)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping entity %s: %v\n", s.EntityID, err)
			errs++
			continue
		}
		snap := models.TrendSnapshot{
			EntityID:       s.EntityID,
			Category:       cat,
			OrderCount:     s.OrderCount,
			Day1Volume:     s.Day1Volume,
			Day7Volume:     s.Day7Volume,
			Day14Volume:    s.Day14Volume,
			Day30Volume:    s.Day30Volume,
			CurrentRank:    s.CurrentRank,
			PreviousRank:   s.PreviousRank,
			StreakDays:     s.StreakDays,
			MarketSharePct: s.MarketSharePct,
			DailyVolumes:   s.DailyVolumes,
		}
		if err := store.UpsertSnapshot(ctx, *period, snap); err != nil {
			fmt.Fprintf(os.Stderr, "upsert entity %s: %v\n", s.EntityID, err)
			errs++
			continue
		}
		upserted++
	}

	fmt.Printf("Trend ingest complete for %s: %d fetched, %d upserted, %d errors\n",
		*period, len(snaps), upserted, errs)
}
