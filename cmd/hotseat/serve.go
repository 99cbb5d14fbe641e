package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"ctchen222/hotseat/internal/api/controller"
	"ctchen222/hotseat/internal/api/repository"
	"ctchen222/hotseat/internal/api/service"
	"ctchen222/hotseat/internal/api/token"
	"ctchen222/hotseat/internal/db"
	"ctchen222/hotseat/internal/events"
	"ctchen222/hotseat/internal/hub"
	"ctchen222/hotseat/internal/server"
	"ctchen222/hotseat/internal/session"
	"ctchen222/hotseat/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the browser client, the websocket endpoint and the REST API until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			conf.HTTP.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdown, err := telemetry.InitOtel(ctx, conf.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Error("error shutting down telemetry", "error", err)
			}
		}()

		metrics, err := telemetry.NewMetrics(nil)
		if err != nil {
			return err
		}

		var publisher events.Publisher = events.NopPublisher{}
		if conf.Redis.Enabled {
			rdb, err := db.NewRedisClient(ctx, conf.Redis.Addr)
			if err != nil {
				return fmt.Errorf("failed to initialize redis: %w", err)
			}
			defer rdb.Close()
			publisher = events.NewRedisPublisher(rdb)
		}

		h := hub.NewHub(session.Options{
			Publisher:         publisher,
			Metrics:           metrics,
			HeartbeatInterval: conf.Session.HeartbeatInterval,
			InboxSize:         conf.Session.InboxSize,
		}, conf.Session.IdleTimeout)
		hubDone := make(chan struct{})
		go func() {
			h.Run(ctx)
			close(hubDone)
		}()

		handles := token.NewIssuer(conf.Handle.Secret, conf.Handle.TTL)
		gameService := service.NewGameService(repository.NewSessionRepository(h), handles)
		gameController := controller.NewGameController(gameService, handles)

		if conf.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := server.NewServer(h, gameController)

		httpServer := &http.Server{
			Addr:    conf.HTTP.Addr,
			Handler: srv.Engine(),
		}

		serverErrors := make(chan error, 1)
		go func() {
			slog.Info("http server started", "http.addr", conf.HTTP.Addr)
			serverErrors <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
		case <-ctx.Done():
			slog.Info("shutting down server")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.HTTP.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		stop()
		<-hubDone
		slog.Info("server exiting")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Override the configured listen address")
	rootCmd.AddCommand(serveCmd)
}
