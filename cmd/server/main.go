package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devtrail/bootcamp-api/internal/config"
	"github.com/devtrail/bootcamp-api/internal/server"
	"github.com/devtrail/bootcamp-api/internal/store"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	db, err := store.NewMongoStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	var photos utils.PhotoStorage
	if cfg.StorageBackend == "r2" {
		photos = utils.NewR2Storage(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2Endpoint, cfg.R2BucketName)
	} else {
		photos = utils.NewFileStorage(cfg.UploadDir)
	}

	srv := server.NewServer(cfg, db, log, photos).NewHTTPServer()

	go func() {
		log.WithField("addr", cfg.BindAddr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	if err := db.Close(ctx); err != nil {
		log.Errorf("closing store: %v", err)
	}
}
