package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"devconnector/internal/config"
	"devconnector/internal/database"
	"devconnector/internal/database/migration"
	dbmongo "devconnector/internal/database/mongodb"
	dbpostgres "devconnector/internal/database/postgres"
	"devconnector/internal/domain/post"
	"devconnector/internal/domain/profile"
	"devconnector/internal/domain/user"
	"devconnector/internal/infrastructure/cache"
	"devconnector/internal/infrastructure/github"
	"devconnector/internal/infrastructure/persistence/memory"
	mongorepo "devconnector/internal/infrastructure/persistence/mongodb"
	pgrepo "devconnector/internal/infrastructure/persistence/postgres"
	"devconnector/internal/pkg/logger"
	"devconnector/internal/ws"
	"devconnector/migrations"
)

// Container holds the process-wide infrastructure and the selected stores.
type Container struct {
	Config config.Config
	Log    zerolog.Logger

	DB    database.DB
	Mongo *mongo.Client
	Cache *cache.Redis
	Hub   *ws.Hub

	Users    user.Repository
	Profiles profile.Repository
	Posts    post.Repository
	GitHub   *github.Client

	checks map[string]pinger
}

type pinger interface {
	Ping(ctx context.Context) error
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func NewContainer(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log, checks: map[string]pinger{}}

	if err := c.openStores(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	if cfg.Redis.Host != "" {
		c.Cache = cache.NewRedis(cfg.Redis, log)
		c.checks["redis"] = c.Cache
	}

	var ghCache github.Cache
	if c.Cache != nil {
		ghCache = c.Cache
	}
	c.GitHub = github.NewClient(cfg.GitHub, ghCache, log)

	c.Hub = ws.NewHub(log)
	go c.Hub.Run()

	return c, nil
}

func (c *Container) openStores(ctx context.Context) error {
	cfg := c.Config

	if cfg.Store.Aggregates == config.StoreMemory {
		c.Users = memory.NewUserRepository()
		c.Profiles = memory.NewProfileRepository()
		c.Posts = memory.NewPostRepository()
		c.Log.Warn().Msg("using in-memory stores, data is lost on exit")
		return nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, logger.Component(c.Log, "postgres"))
	if err != nil {
		return err
	}
	c.DB = db
	c.checks["postgres"] = db

	if cfg.Database.Migrate {
		runner := migration.Runner{Source: migrations.FS, Log: logger.Component(c.Log, "migration")}
		if err := runner.Run(ctx, db.SQLDB()); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	c.Users = pgrepo.NewUserRepository(db)

	switch cfg.Store.Aggregates {
	case config.StoreMongo:
		client, err := dbmongo.Connect(ctx, cfg.Mongo, logger.Component(c.Log, "mongodb"))
		if err != nil {
			return err
		}
		c.Mongo = client
		c.checks["mongodb"] = pingFunc(func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		})

		mdb := client.Database(cfg.Mongo.Database)
		profiles := mongorepo.NewProfileRepository(mdb)
		posts := mongorepo.NewPostRepository(mdb)

		idxCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := profiles.EnsureIndexes(idxCtx); err != nil {
			return fmt.Errorf("failed to create profile indexes: %w", err)
		}
		if err := posts.EnsureIndexes(idxCtx); err != nil {
			return fmt.Errorf("failed to create post indexes: %w", err)
		}

		c.Profiles = profiles
		c.Posts = posts
	default:
		c.Profiles = pgrepo.NewProfileRepository(db)
		c.Posts = pgrepo.NewPostRepository(db)
	}

	c.Log.Info().Str("aggregates", cfg.Store.Aggregates).Msg("stores ready")
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Hub != nil {
		c.Hub.Stop()
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Mongo.Disconnect(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
