package routes

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/formforge/quickform/app"
	"github.com/formforge/quickform/genai"
	"github.com/formforge/quickform/httpx"
	"github.com/formforge/quickform/log"
	"github.com/formforge/quickform/routes/middlewares"
	"github.com/formforge/quickform/schema"
	"github.com/formforge/quickform/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/gofrs/uuid"
)

// request bodies are form definitions, not uploads
const maxContentSize = 1 << 20

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxContentSize))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.read_body")
			return
		}

		sch, err := schema.Parse(body)
		if err != nil {
			logSchemaError(w, r, "form.create.validate", err)
			return
		}

		storeForm(app, w, r, sch, "form.create")
	}
}

type generatePayload struct {
	Description string `json:"description"`
}

func GenerateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := generatePayload{}
		err := render.DecodeJSON(r.Body, &payload)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if strings.TrimSpace(payload.Description) == "" {
			verr := &schema.ValidationError{Fields: map[string]string{"description": "is required"}}
			httpx.LogValidationError(w, r, "form.generate.validate", verr)
			return
		}

		content, err := app.Generator.GenerateForm(r.Context(), payload.Description)
		if err != nil {
			switch {
			case errors.Is(err, genai.ErrRateLimited):
				httpx.LogStatusMsg(w, http.StatusTooManyRequests, log.WarnLevel, "genai.generate",
					"too many requests, please wait a moment and try again")
			case errors.Is(err, genai.ErrNotConfigured):
				httpx.LogStatusMsg(w, http.StatusServiceUnavailable, log.WarnLevel, "genai.generate",
					"form generation is not available")
			default:
				log.Errorf("genai.generate: %s", err)
				httpx.LogStatusMsg(w, http.StatusBadGateway, log.DebugLevel, "genai.generate",
					"could not generate the form, please try again")
			}
			return
		}

		// the generated text is untrusted like any other input
		sch, err := schema.Parse([]byte(content))
		if err != nil {
			logSchemaError(w, r, "form.generate.parse", err)
			return
		}

		storeForm(app, w, r, sch, "form.generate")
	}
}

func storeForm(app app.App, w http.ResponseWriter, r *http.Request, sch schema.FormSchema, code string) {
	content, err := sch.Serialize()
	if err != nil {
		httpx.LogInternalError(w, code+".serialize", err)
		return
	}

	id, err := uuid.NewV4()
	if err != nil {
		httpx.LogInternalError(w, code+".uuid", err)
		return
	}

	form, err := app.Store.CreateForm(r.Context(), middlewares.OwnerID(r), id.String(), content)
	if err != nil {
		httpx.LogInternalError(w, code+".insert", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, form)
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := app.Store.ListForms(r.Context(), middlewares.OwnerID(r))
		if err != nil {
			httpx.LogInternalError(w, "db.get_forms", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"forms": forms,
		})
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formUUID, ok := formUUIDParam(w, r)
		if !ok {
			return
		}

		form, err := app.Store.OwnerFormByUUID(r.Context(), middlewares.OwnerID(r), formUUID)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "get_form", formUUID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		render.JSON(w, r, form)
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formUUID, ok := formUUIDParam(w, r)
		if !ok {
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxContentSize))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.read_body")
			return
		}

		sch, err := schema.Parse(body)
		if err != nil {
			logSchemaError(w, r, "form.update.validate", err)
			return
		}
		content, err := sch.Serialize()
		if err != nil {
			httpx.LogInternalError(w, "form.update.serialize", err)
			return
		}

		err = app.Store.UpdateFormContent(r.Context(), middlewares.OwnerID(r), formUUID, content)
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.LogNotFound(w, "update_form", formUUID)
		case errors.Is(err, store.ErrPublished):
			httpx.LogStatus(w, http.StatusConflict, log.DebugLevel, "form.update.published")
		case err != nil:
			httpx.LogInternalError(w, "db.update_form", err)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

func PublishForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formUUID, ok := formUUIDParam(w, r)
		if !ok {
			return
		}

		err := app.Store.Publish(r.Context(), middlewares.OwnerID(r), formUUID)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "publish_form", formUUID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.publish_form", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func formUUIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "uuid")
	id, err := uuid.FromString(raw)
	if err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.uuid")
		return "", false
	}
	return id.String(), true
}

func logSchemaError(w http.ResponseWriter, r *http.Request, code string, err error) {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		httpx.LogValidationError(w, r, code, verr)
		return
	}
	httpx.LogInternalError(w, code, err)
}
