package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"deskcalc/internal/observability"
	"deskcalc/internal/server"
)

func main() {

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	// Logger
	err := observability.InitLogger()
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Log export
	logShutdown, err := observability.InitLogging(ctx)
	if err != nil {
		panic(err)
	}
	defer logShutdown(ctx)

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(ctx)

	// Metrics
	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(ctx)

	// Session store
	store, err := newSessionStore(ctx)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	// Router
	router := server.NewRouter(store)

	srv := &http.Server{
		Addr:    envOr("ADDR", ":8080"),
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	waitForShutdown(srv)
}

func waitForShutdown(srv *http.Server) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv.Shutdown(ctx)
}
