package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gmkornilov/chessbot/internal/api"
	"github.com/gmkornilov/chessbot/internal/config"
	"github.com/gmkornilov/chessbot/internal/dao"
	"github.com/gmkornilov/chessbot/internal/ghclient"
	"github.com/gmkornilov/chessbot/internal/referee"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		panic(err)
	}
	log := cfg.Logger()
	gin.SetMode(gin.ReleaseMode)

	client, err := ghclient.NewClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("can't create github client")
	}
	gameRepo := dao.NewGameRepository(client)
	judge := referee.NewReferee(gameRepo, cfg)
	webhook := api.NewWebhookApi(judge, cfg.Github.WebhookSecret)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(webhook, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", server.Addr).Msg("listening for webhooks")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
