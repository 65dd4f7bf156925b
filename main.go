package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"moodiary/api"
)

func main() {
	args := ParseArgs()
	slog.SetDefault(newLogger(args.LogLevel, args.LogFormat))
	if missing := args.Validate(); len(missing) > 0 {
		slog.Error("Missing arguments", slog.String("arguments", strings.Join(missing, ", ")))
		os.Exit(1)
	}
	server, err := api.NewServer(args.ServerConfig)
	if err != nil {
		panic(err)
	}
	defer server.Close()

	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(slog.Default()))
	server.RegisterRoutes(router)

	apiServer := &http.Server{
		Addr:    args.ServerURL,
		Handler: router,
	}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", server.MetricsHandler())
	metricsServer := &http.Server{
		Addr:    args.MetricsURL,
		Handler: metricsMux,
	}
	listen(apiServer, "API server")
	listen(metricsServer, "Metrics server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range []*http.Server{apiServer, metricsServer} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Fail to shutdown server", slog.String("addr", srv.Addr), slog.Any("error", err))
		}
	}
}

func listen(srv *http.Server, name string) {
	go func() {
		slog.Info(name+" started", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error(name+" stopped unexpectedly", slog.Any("error", err))
			os.Exit(1)
		}
	}()
}
