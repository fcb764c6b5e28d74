package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinephile/cmd"
	"cinephile/internal/data/omdb"
	"cinephile/internal/data/repository"
	"cinephile/internal/wire"
	"cinephile/pkg/database"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	if config.OMDb.APIKey == "" {
		logger.Warn("OMDB_API_KEY is empty, movie lookups will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openRepository(ctx, config, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closeStore()

	go cmd.SessionJanitor(ctx, repos.Session, time.Hour, logger)

	provider := omdb.NewClient(config.OMDb, nil, logger)
	app := wire.Wiring(repos, provider, config, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		closeStore()
		os.Exit(1)
	}
}

// openRepository connects the backend chosen by DB_DRIVER
func openRepository(ctx context.Context, config *utils.Config, logger *zap.Logger) (*repository.Repository, func(), error) {
	switch config.Database.Driver {
	case utils.DriverPostgres:
		db, err := database.InitDB(config.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Postgres connected")
		return repository.NewRepository(db, logger), db.Close, nil

	case utils.DriverMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		return repository.NewMemoryRepository(logger), func() {}, nil

	default:
		client, db, err := database.InitMongo(ctx, config.Mongo)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = database.CloseMongo(client)
			return nil, nil, err
		}
		logger.Info("MongoDB connected", zap.String("database", config.Mongo.Database))
		closeFn := func() {
			if err := database.CloseMongo(client); err != nil {
				logger.Warn("MongoDB disconnect failed", zap.Error(err))
			}
		}
		return repository.NewMongoRepository(db, logger), closeFn, nil
	}
}
