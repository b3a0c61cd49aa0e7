package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/whatsons/members-api/config"
	"github.com/whatsons/members-api/controllers"
	"github.com/whatsons/members-api/logger"
	"github.com/whatsons/members-api/mailer"
	"github.com/whatsons/members-api/middleware"
	"github.com/whatsons/members-api/routes"
	"github.com/whatsons/members-api/storage"
	"github.com/whatsons/members-api/utils"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	log := logger.New()

	store := openStore(cfg, log)
	defer store.Close()

	// Drop stale sessions periodically.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := store.DeleteExpiredSessions(); err != nil {
				log.Warn().Err(err).Msg("session cleanup failed")
			}
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if !cfg.Server.TrustedProxies {
		if err := r.SetTrustedProxies(nil); err != nil {
			log.Fatal().Err(err).Msg("failed to configure trusted proxies")
		}
	}

	mail := mailer.NewLogMailer(log)
	uploader := utils.NewUploader(cfg.Upload)

	routes.Setup(r, cfg, store, routes.Controllers{
		Auth:         controllers.NewAuthController(store, cfg, log, mail),
		Events:       controllers.NewEventController(store, log),
		Participants: controllers.NewParticipantController(store, log),
		Admin:        controllers.NewAdminController(store, log),
		Settings:     controllers.NewSettingsController(store, log),
		Profile:      controllers.NewProfileController(store, log),
		Export:       controllers.NewExportController(store, cfg, log),
		Upload:       controllers.NewUploadController(uploader, cfg, log),
		Health:       controllers.NewHealthController(store),
	})

	log.Info().Str("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Msg("server listening")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// openStore connects the configured database backend. A failed connection
// degrades to the in-memory store for the rest of the process lifetime.
func openStore(cfg *config.Config, log zerolog.Logger) storage.Store {
	switch cfg.Database.Driver {
	case "postgres", "mysql":
		store, err := storage.OpenGorm(cfg.Database.Driver, cfg.Database.DSN())
		if err != nil {
			log.Warn().Err(err).Str("driver", cfg.Database.Driver).
				Msg("database connection failed, falling back to in-memory storage")
			return storage.NewMemStore()
		}
		log.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")
		return store
	default:
		log.Info().Msg("no database configured, using in-memory storage")
		return storage.NewMemStore()
	}
}
