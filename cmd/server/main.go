package main

import (
	"net/http"

	"go.uber.org/zap"

	"yatube/internal/app"
	"yatube/internal/cache"
	"yatube/internal/db"
	httpx "yatube/internal/http"
	"yatube/internal/media"
	"yatube/internal/storage/postgres"
	"yatube/internal/util"
)

func main() {
	cfg := app.LoadConfig()
	util.InitLogger(cfg.LogLevel)
	defer func() { _ = util.Logger.Sync() }()

	d, err := db.Open(cfg.DatabaseURL)
	app.Must(err)
	app.Must(db.Migrate(d, "schema.sql"))

	m, err := media.New(cfg.MediaDir)
	app.Must(err)

	srv := httpx.NewServer(postgres.New(d), cfg, cache.New(64, cfg.CacheTTL), m)
	util.Logger.Info("listening", zap.String("addr", cfg.Addr))
	app.Must(http.ListenAndServe(cfg.Addr, srv))
}
