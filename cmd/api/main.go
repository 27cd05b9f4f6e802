package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tsirionantsoa/taskhub/config"
	"github.com/tsirionantsoa/taskhub/internal/bootstrap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, bootstrap.DBOptions{})
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer stores.Close()

	svc := bootstrap.NewServices(cfg, stores)

	if _, err := svc.Seeder.EnsureAdmin(ctx, cfg.Seed); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if cfg.Seed.File != "" {
		if _, err := svc.Seeder.ApplyFile(ctx, cfg.Seed.File); err != nil {
			log.Fatalf("seed file: %v", err)
		}
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Config:   cfg,
		Services: svc,
		DB:       stores.Pinger(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("%s listening on :%s (db=%s, cache=%t)", bootstrap.ServiceName, cfg.Server.Port, cfg.Database.Driver, cfg.Redis.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
