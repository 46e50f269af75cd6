package app

import (
	"github.com/formforge/quickform/analytics"
	"github.com/formforge/quickform/config"
	"github.com/formforge/quickform/genai"
	"github.com/formforge/quickform/store"
	"github.com/go-chi/oauth"
)

type App struct {
	Store     *store.Store
	Analytics *analytics.Aggregator
	Generator *genai.Client
	*oauth.BearerServer
	config.Config
}
