package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/trendforge/fantasymarket/internal/dbconfig"
	"github.com/trendforge/fantasymarket/internal/draft"
	"github.com/trendforge/fantasymarket/internal/draft/timekeeper"
	"github.com/trendforge/fantasymarket/internal/gateway"
	"github.com/trendforge/fantasymarket/internal/models"
	"github.com/trendforge/fantasymarket/internal/notify"
	"github.com/trendforge/fantasymarket/internal/outbox"
	"github.com/trendforge/fantasymarket/internal/scoring"
	"github.com/trendforge/fantasymarket/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := run(*configPath); err != nil {
		log.Fatal().Err(err).Msg("service failed")
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbCfg := dbconfig.NewConfigFromEnv()
	db, err := postgres.Open(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}

	states := postgres.NewDraftStateStore(db)
	picks := postgres.NewPickStore(db)
	rosters := postgres.NewRosterStore(db)
	teams := postgres.NewTeamStore(db)
	assets := postgres.NewAssetPool(db)
	lineups := postgres.NewLineupPopulator(db)
	scores := postgres.NewScoreStore(db)

	// events flow through the durable outbox in parallel with the
	// in-process broadcaster feeding connected websockets
	broadcaster := notify.NewBroadcaster()
	outboxStore := outbox.NewStore(db)
	notifier := notify.Fanout{broadcaster, outbox.NewNotifier(outboxStore)}

	natsNotifier, err := notify.NewNATSNotifier(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
	if err != nil {
		return err
	}
	defer natsNotifier.Close()

	relay, err := outbox.NewRelay(outboxStore, natsNotifier, outbox.DefaultRelayConfig(dbCfg.DSN()))
	if err != nil {
		return err
	}
	go func() {
		if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("outbox relay stopped")
		}
	}()

	clock := clockwork.NewRealClock()
	rules := models.DefaultRosterRules()

	supervisor := timekeeper.NewSupervisor(clock, notifier, timekeeper.Config{
		TickInterval:  cfg.tickInterval(),
		AutoPickGrace: cfg.autoPickGrace(),
	})
	defer supervisor.Shutdown()

	orch := draft.NewOrchestrator(draft.Deps{
		States:   states,
		Picks:    picks,
		Rosters:  rosters,
		Teams:    teams,
		Assets:   assets,
		Lineups:  lineups,
		Notifier: notifier,
		Timers:   supervisor,
		Strategy: draft.NewRandomStrategy(rosters, assets, rules),
		Rules:    rules,
		Clock:    clock,
	})
	supervisor.SetExpireFunc(orch.HandleExpiry)

	trends := postgres.NewTrendStore(db)
	aggregator := scoring.NewAggregator(
		scoring.NewEngine(scoring.DefaultConfig()),
		trends, rosters, teams, scores, rules,
		scoring.DefaultAggregatorConfig(), clock,
	)
	go runScoringLoop(ctx, aggregator, db, clock, cfg.Scoring.RunHourUTC)

	manager := gateway.NewManager(gateway.DefaultManagerConfig())
	go manager.Run(ctx, broadcaster)

	api := gateway.NewAPI(orch, picks, scores, manager)
	server := gateway.NewServer(cfg.Server.Addr, api, cfg.Server.AllowedOrigins)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
