// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/wordweaver-game/wordweaver/internal/auth"
	"github.com/wordweaver-game/wordweaver/internal/game"
	"github.com/wordweaver-game/wordweaver/internal/handlers"
	"github.com/wordweaver-game/wordweaver/internal/templates"
)

func main() {
	logger := logrus.New()
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx := context.Background()

	// Template store: Postgres when configured, otherwise in-memory
	// (templates are then lost on restart, which is fine for local play).
	var store templates.Store
	if connString := os.Getenv("DATABASE_URL"); connString != "" {
		pg, err := templates.ConnectPostgres(ctx, connString)
		if err != nil {
			logger.Fatalf("postgres connect failed: %v", err)
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			logger.Fatalf("postgres migrate failed: %v", err)
		}
		store = pg
		logger.Info("using postgres template store")
	} else {
		store = templates.NewMemoryStore()
		logger.Warn("DATABASE_URL not set, using in-memory template store")
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb, err := templates.ConnectRedis(ctx, addr)
		if err != nil {
			logger.Fatalf("redis connect failed: %v", err)
		}
		defer rdb.Close()
		store = templates.NewCachedStore(store, rdb)
		logger.Infof("template cache enabled via redis at %s", addr)
	}

	signer, err := auth.NewSigner()
	if err != nil {
		logger.Fatalf("auth init failed: %v", err)
	}

	passwordHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if passwordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH not set, admin login disabled")
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	srv := &handlers.Server{
		Logger:            logger,
		Registry:          game.NewRegistry(),
		Templates:         store,
		Signer:            signer,
		AdminPasswordHash: passwordHash,
		BaseURL:           baseURL,
	}

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     srv.Routes(),
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: websocket connections stay open indefinitely.
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", addr)
		errc <- httpServer.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		logger.Errorf("server exited: %v", err)
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}
}
