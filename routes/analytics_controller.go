package routes

import (
	"net/http"

	"github.com/formforge/quickform/app"
	"github.com/formforge/quickform/httpx"
	"github.com/formforge/quickform/routes/middlewares"
	"github.com/go-chi/render"
)

func GetAnalytics(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := app.Analytics.Compute(r.Context(), middlewares.OwnerID(r))
		if err != nil {
			httpx.LogInternalError(w, "db.compute_analytics", err)
			return
		}

		render.JSON(w, r, snapshot)
	}
}
