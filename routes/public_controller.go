package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/formforge/quickform/app"
	"github.com/formforge/quickform/httpx"
	"github.com/formforge/quickform/log"
	"github.com/formforge/quickform/schema"
	"github.com/formforge/quickform/store"
	"github.com/go-chi/render"
)

// PublicGetForm serves a published form to anybody holding its uuid.
// Unpublished forms answer 404 just like unknown ones.
func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formUUID, ok := formUUIDParam(w, r)
		if !ok {
			return
		}

		form, err := app.Store.FormByUUID(r.Context(), formUUID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && !form.Published) {
			httpx.LogNotFound(w, "get_public_form", formUUID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_public_form", err)
			return
		}

		sch, err := schema.ParseString(form.Content)
		if err != nil {
			httpx.LogInternalError(w, "get_public_form.parse_content", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"uuid": form.UUID,
			"form": sch,
		})
	}
}

func SubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formUUID, ok := formUUIDParam(w, r)
		if !ok {
			return
		}

		answers := map[string]any{}
		err := render.DecodeJSON(r.Body, &answers)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		form, err := app.Store.FormByUUID(r.Context(), formUUID)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "submit_form", formUUID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}
		if !form.Published {
			httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel, "submit_form.unpublished",
				"form is not published")
			return
		}

		sch, err := schema.ParseString(form.Content)
		if err != nil {
			httpx.LogInternalError(w, "submit_form.parse_content", err)
			return
		}

		if err = sch.ValidateAnswers(answers); err != nil {
			logSchemaError(w, r, "submit_form.validate", err)
			return
		}

		answersJSON, err := json.Marshal(answers)
		if err != nil {
			httpx.LogInternalError(w, "submit_form.serialize", err)
			return
		}

		sub, err := app.Store.CreateSubmission(r.Context(), form.ID, string(answersJSON), time.Now())
		if err != nil {
			httpx.LogInternalError(w, "db.insert_submission", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": sub.ID,
		})
	}
}
