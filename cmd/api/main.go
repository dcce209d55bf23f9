package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"funnelscope/internal/api"
	"funnelscope/internal/config"
	"funnelscope/internal/container"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.Open(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer appContainer.Close()

	if n, err := appContainer.Storage.Cleanup(ctx, time.Now()); err != nil {
		appContainer.Logger.Warn("upload cleanup failed: %v", err)
	} else if n > 0 {
		appContainer.Logger.Info("removed %d stale uploads", n)
	}

	server := api.NewServer(api.Config{
		Port:           appConfig.Server.Port,
		ReadTimeout:    appConfig.Server.ReadTimeout,
		WriteTimeout:   appConfig.Server.WriteTimeout,
		MaxUploadBytes: appConfig.MaxUploadBytes(),
	}, appContainer.ImportService, appContainer.Storage, appContainer.Logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}
}
