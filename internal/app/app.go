// Package app builds the service graph from configuration.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/getyourdepa/depa-cms/internal/config"
	"github.com/getyourdepa/depa-cms/internal/handler"
	"github.com/getyourdepa/depa-cms/internal/middleware"
	"github.com/getyourdepa/depa-cms/internal/repository"
	"github.com/getyourdepa/depa-cms/internal/routes"
	"github.com/getyourdepa/depa-cms/internal/service"
	"github.com/getyourdepa/depa-cms/internal/store"
	fsstore "github.com/getyourdepa/depa-cms/internal/store/firestore"
	mongostore "github.com/getyourdepa/depa-cms/internal/store/mongo"
	"github.com/getyourdepa/depa-cms/internal/store/sqlstore"
	pkgcache "github.com/getyourdepa/depa-cms/pkg/cache"
	"github.com/getyourdepa/depa-cms/pkg/i18n"
	"github.com/getyourdepa/depa-cms/pkg/identity"
	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"
	pkgredis "github.com/getyourdepa/depa-cms/pkg/redis"
	pkgstorage "github.com/getyourdepa/depa-cms/pkg/storage"
	"github.com/getyourdepa/depa-cms/pkg/webhook"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"
)

// App holds the wired dependencies of the API server.
type App struct {
	Config   *config.Config
	Store    store.Store
	Objects  pkgstorage.ObjectStore
	Verifier identity.Verifier
	Redis    *redis.Client
	Bundle   *i18n.Bundle
	Rebuild  *webhook.Hook

	Posts     service.PostService
	Listings  service.ListingService
	Zones     service.ZoneService
	Gallery   service.GalleryService
	ShortLink service.ShortLinkService
}

// New connects every backend selected by cfg. Redis is optional: a failed
// connection disables rate limiting and caching.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	// Documents and auth share one project; storage may live in another.
	var docsApp, storageApp *firebase.App
	var err error
	if cfg.Database.Driver == config.DriverFirestore || cfg.Auth.Provider == config.AuthFirebase {
		if docsApp, err = newFirebaseApp(ctx, cfg.Firebase.Documents, ""); err != nil {
			return nil, fmt.Errorf("firebase (documents): %w", err)
		}
	}
	if cfg.Storage.Driver == config.StorageGCS {
		if storageApp, err = newFirebaseApp(ctx, cfg.Firebase.Storage, cfg.Storage.Bucket); err != nil {
			return nil, fmt.Errorf("firebase (storage): %w", err)
		}
	}

	if a.Store, err = openStore(ctx, cfg, docsApp); err != nil {
		return nil, err
	}
	if a.Objects, err = openObjects(ctx, cfg, storageApp); err != nil {
		a.Close()
		return nil, err
	}
	if a.Verifier, err = newVerifier(ctx, cfg, docsApp); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		a.Redis, err = pkgredis.NewClient(ctx, pkgredis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}, 5*time.Second)
		if err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("Redis unavailable, continuing without rate limiting and cache")
			a.Redis = nil
		} else {
			pkglogger.GetLogger().Info().Str("addr", cfg.Redis.Host).Msg("Connected to Redis")
		}
	}

	a.Bundle = i18n.Default()
	if cfg.I18n.Dir != "" {
		if _, statErr := os.Stat(cfg.I18n.Dir); statErr == nil {
			if err := a.Bundle.LoadDir(cfg.I18n.Dir); err != nil {
				pkglogger.GetLogger().Warn().Err(err).Str("dir", cfg.I18n.Dir).Msg("i18n LoadDir failed")
			}
		}
	}

	// An empty URL yields a disabled hook.
	a.Rebuild = webhook.New(cfg.Rebuild.HookURL, cfg.Rebuild.Timeout)

	a.wireServices()
	return a, nil
}

func (a *App) wireServices() {
	covers := service.NewCoverImages(a.Objects)

	a.Posts = service.NewContentService(service.PostKind, repository.NewPostRepository(a.Store), covers, a.Rebuild)
	a.Listings = service.NewContentService(service.ListingKind, repository.NewListingRepository(a.Store), covers, a.Rebuild)
	a.Zones = service.NewContentService(service.ZoneKind, repository.NewZoneRepository(a.Store), covers, a.Rebuild)
	a.Gallery = service.NewGalleryService(a.Objects, covers)

	links := repository.NewCachedShortLinkRepository(
		repository.NewShortLinkRepository(a.Store),
		pkgcache.NewService(a.Redis),
	)
	a.ShortLink = service.NewShortLinkService(links, a.Config.ShortLink.BaseURL, []string{a.Config.ShortLink.Host()})
}

// Handlers builds the HTTP handlers.
func (a *App) Handlers() routes.Handlers {
	maxBytes := a.Config.Server.MaxUploadMB << 20
	return routes.Handlers{
		Posts:     handler.NewPostHandler(a.Posts, maxBytes),
		Listings:  handler.NewListingHandler(a.Listings, maxBytes),
		Zones:     handler.NewZoneHandler(a.Zones, maxBytes),
		Gallery:   handler.NewGalleryHandler(a.Gallery, maxBytes),
		ShortLink: handler.NewShortLinkHandler(a.ShortLink),
	}
}

// Gate builds the admin gate.
func (a *App) Gate() *middleware.Gate {
	return middleware.NewGate(a.Verifier, a.Config.Auth.AdminUID)
}

// Limits builds the rate limit settings. Admin routes are bucketed by
// subject, the public redirect by client IP.
func (a *App) Limits() routes.Limits {
	admin := middleware.DefaultRateLimitConfig()
	admin.Requests = a.Config.RateLimit.Requests
	admin.Window = a.Config.RateLimit.Window
	admin.KeyPrefix = "cms:ratelimit:admin:"
	admin.KeyFunc = middleware.SubjectKey

	public := middleware.DefaultRateLimitConfig()
	public.Requests = a.Config.RateLimit.Requests
	public.Window = a.Config.RateLimit.Window

	return routes.Limits{Redis: a.Redis, Admin: admin, Public: public}
}

// Close releases backend connections.
func (a *App) Close() {
	var errs []error
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if err := errors.Join(errs...); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("error closing backends")
	}
}

func newFirebaseApp(ctx context.Context, sa config.ServiceAccount, bucket string) (*firebase.App, error) {
	if !sa.Complete() {
		return nil, errors.New("service account credentials are incomplete")
	}
	creds, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   sa.ProjectID,
		"client_email": sa.ClientEmail,
		"private_key":  sa.Key(),
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
	if err != nil {
		return nil, err
	}
	return firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     sa.ProjectID,
		StorageBucket: bucket,
	}, option.WithCredentialsJSON(creds))
}

func openStore(ctx context.Context, cfg *config.Config, fb *firebase.App) (store.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverFirestore:
		client, err := fb.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("firestore client: %w", err)
		}
		pkglogger.GetLogger().Info().Str("project", cfg.Firebase.Documents.ProjectID).Msg("Connected to Firestore")
		return fsstore.New(client), nil
	case config.DriverMongo:
		s, err := mongostore.Connect(ctx, cfg.Database.MongoURI, cfg.Database.MongoDatabase)
		if err != nil {
			return nil, err
		}
		pkglogger.GetLogger().Info().Str("database", cfg.Database.MongoDatabase).Msg("Connected to MongoDB")
		return s, nil
	case config.DriverMySQL, config.DriverSQLite:
		s, err := sqlstore.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		pkglogger.GetLogger().Info().Str("driver", cfg.Database.Driver).Msg("Connected to SQL document store")
		return s, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

func openObjects(ctx context.Context, cfg *config.Config, fb *firebase.App) (pkgstorage.ObjectStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageGCS:
		client, err := fb.Storage(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage client: %w", err)
		}
		bucket, err := client.Bucket(cfg.Storage.Bucket)
		if err != nil {
			return nil, fmt.Errorf("storage bucket: %w", err)
		}
		return pkgstorage.NewGCSStore(bucket, cfg.Storage.Bucket), nil
	case config.StorageS3:
		s3 := cfg.Storage.S3
		return pkgstorage.NewS3Store(pkgstorage.S3Config{
			Endpoint:        s3.Endpoint,
			Region:          s3.Region,
			AccessKeyID:     s3.AccessKeyID,
			SecretAccessKey: s3.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          s3.CDNURL,
			BasePath:        s3.BasePath,
			ForcePathStyle:  s3.ForcePathStyle,
			SkipACL:         s3.SkipACL,
		})
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}

func newVerifier(ctx context.Context, cfg *config.Config, fb *firebase.App) (identity.Verifier, error) {
	switch cfg.Auth.Provider {
	case config.AuthFirebase:
		client, err := fb.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase auth client: %w", err)
		}
		return identity.NewFirebaseVerifier(client), nil
	case config.AuthJWKS:
		return identity.NewJWKSVerifier(identity.JWKSConfig{
			URL:      cfg.Auth.JWKS.URL,
			Issuer:   cfg.Auth.JWKS.Issuer,
			Audience: cfg.Auth.JWKS.Audience,
			Leeway:   cfg.Auth.JWKS.Leeway,
		})
	case config.AuthHMAC:
		return identity.NewHMACVerifier(cfg.Auth.HMACSecret, cfg.Auth.HMACIssuer), nil
	}
	return nil, fmt.Errorf("unsupported auth provider %q", cfg.Auth.Provider)
}
