package main

import (
	"net/http"

	"comanda-client/internal/config"
	"comanda-client/internal/logger"
	"comanda-client/internal/stubserver"
)

func main() {
	cfg := config.LoadStub()
	log := logger.New("debug")

	store := stubserver.NewStore()
	if err := stubserver.Seed(store, cfg.BcryptCost); err != nil {
		log.Fatal().Err(err).Msg("failed to seed fixture data")
	}

	srv := stubserver.New(cfg, store, log)
	log.Info().Str("addr", cfg.Addr).Msg("stub backend listening")
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
