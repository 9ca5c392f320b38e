package server

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Anthanoess/task-app/internal/config"
	"github.com/Anthanoess/task-app/internal/migrations"
	"github.com/Anthanoess/task-app/internal/repository"
	"github.com/Anthanoess/task-app/internal/repository/mongodb"
	"github.com/Anthanoess/task-app/internal/service"
)

// Backend groups the stores of one storage engine.
type Backend struct {
	Users   service.UserStore
	Sprints service.SprintStore
	Flags   service.FlagStore
	Tasks   service.TaskStore

	Ping     func(ctx context.Context) error
	closeFns []func(ctx context.Context) error
}

func (b *Backend) Close(ctx context.Context) error {
	var first error
	for _, fn := range b.closeFns {
		if err := fn(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func openPostgres(cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB handle: %w", err)
	}
	logger.Info("connected to database", slog.String("driver", config.DriverPostgres), slog.String("host", cfg.DBHost))

	if cfg.RunMigrations {
		if err := migrations.Up(sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		logger.Info("migrations applied")
	}

	return &Backend{
		Users:   repository.NewUserRepository(db),
		Sprints: repository.NewSprintRepository(db),
		Flags:   repository.NewFlagRepository(db),
		Tasks:   repository.NewTaskRepository(db),
		Ping:    sqlDB.PingContext,
		closeFns: []func(context.Context) error{
			func(context.Context) error { return sqlDB.Close() },
		},
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	client, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database", slog.String("driver", config.DriverMongo), slog.String("database", cfg.MongoDatabase))

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Backend{
		Users:   mongodb.NewUserStore(db),
		Sprints: mongodb.NewSprintStore(db),
		Flags:   mongodb.NewFlagStore(db),
		Tasks:   mongodb.NewTaskStore(db),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		closeFns: []func(context.Context) error{client.Disconnect},
	}, nil
}
