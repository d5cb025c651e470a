package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"log/slog"

	"github.com/semwaqas/MongoDB-toolkit/integrations/schemaregistry"
	"github.com/semwaqas/MongoDB-toolkit/sampler"
	"github.com/semwaqas/MongoDB-toolkit/srv"
	"github.com/semwaqas/MongoDB-toolkit/toolkit"
)

func main() {
	_ = godotenv.Load()
	uri := getEnv("MONGO_URI", "")
	db := getEnv("MONGO_DB", "")
	addr := getEnv("TOOLKIT_ADDR", ":8080")
	level := getEnv("TOOLKIT_LOG", "info")
	sample := getEnv("TOOLKIT_SAMPLE", "100")
	registryURL := getEnv("REGISTRY_URL", "")
	registryKey := getEnv("REGISTRY_APIKEY", "")

	err := setupLogging(level)
	if err != nil {
		slog.Error("could not init logging", "err", err)
		return
	}

	if uri == "" {
		slog.Error("missing required config option MONGO_URI")
		return
	}
	if db == "" {
		slog.Error("missing required config option MONGO_DB")
		return
	}

	sampleSize, err := strconv.Atoi(sample)
	if err != nil || sampleSize <= 0 {
		slog.Error("TOOLKIT_SAMPLE must be a positive integer", "value", sample)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, err := sampler.NewSourceLive(ctx, uri, db)
	if err != nil {
		slog.Error("could not init document source", "err", err)
		return
	}
	defer source.Close(context.Background())

	tk, err := toolkit.New(source, slog.Default())
	if err != nil {
		slog.Error("could not init toolkit", "err", err)
		return
	}

	if registryURL != "" {
		client, err := schemaregistry.NewClient(registryKey, registryURL)
		if err != nil {
			slog.Error("could not init registry client", "err", err)
			return
		}
		go publishSnapshot(ctx, tk, client, db, sampleSize)
	}

	server := &http.Server{
		Addr:    addr,
		Handler: srv.New(tk, slog.Default(), sampleSize),
	}

	term := make(chan os.Signal, 1)
	signal.Notify(term, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("serving", "addr", addr, "db", db)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "err", err)
			cancel()
		}
	}()

	select {
	case <-term:
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "err", err)
	}
}

// publishSnapshot pushes one full database schema snapshot to the registry
// at startup.
func publishSnapshot(ctx context.Context, tk *toolkit.Toolkit, client *schemaregistry.Client, db string, sampleSize int) {
	schemas, diags, err := tk.DatabaseSchema(ctx, sampleSize)
	if err != nil {
		slog.Error("could not infer database schema for registry", "err", err)
		return
	}

	update := schemaregistry.SnapshotUpdate{
		Database:    db,
		RunID:       uuid.New(),
		Schemas:     schemas,
		Diagnostics: diags,
	}
	if err := client.Publish(ctx, update); err != nil {
		slog.Error("could not publish schema snapshot", "err", err)
		return
	}
	slog.Info("published schema snapshot", "db", db, "collections", len(schemas))
}

func setupLogging(level string) error {
	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(level))
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
	return err
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
