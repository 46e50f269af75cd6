package routes

import (
	"net/http"

	"github.com/formforge/quickform/app"
	"github.com/formforge/quickform/routes/middlewares"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/public/forms/{uuid}", PublicGetForm(app))
	api.Post("/public/forms/{uuid}/submissions", SubmitForm(app))

	api.Route("/forms", func(r chi.Router) {
		r.Use(middlewares.Owner(app.TokenSecret))

		r.Post("/", CreateForm(app))
		r.Post("/generate", GenerateForm(app))
		r.Get("/", ListForms(app))
		r.Get("/{uuid}", GetForm(app))
		r.Put("/{uuid}", UpdateForm(app))
		r.Post("/{uuid}/publish", PublishForm(app))
	})

	api.
		With(middlewares.Owner(app.TokenSecret)).
		Get("/analytics", GetAnalytics(app))

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}
