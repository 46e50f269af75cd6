package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/formforge/quickform/analytics"
	"github.com/formforge/quickform/app"
	"github.com/formforge/quickform/config"
	"github.com/formforge/quickform/database"
	"github.com/formforge/quickform/genai"
	"github.com/formforge/quickform/httpx"
	"github.com/formforge/quickform/log"
	"github.com/formforge/quickform/routes"
	"github.com/formforge/quickform/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	st := store.New(db)

	app := app.App{
		Store:        st,
		Analytics:    analytics.New(st),
		Generator:    genai.New(cfg),
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
