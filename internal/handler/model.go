package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/model-catalog/internal/apperror"
	"github.com/sakif/model-catalog/internal/middleware"
	"github.com/sakif/model-catalog/internal/service"
)

// ModelHandler serves the models resource. The model is selected with the
// "id" query parameter rather than a path segment.
type ModelHandler struct {
	svc    *service.ModelService
	logger *slog.Logger
}

func NewModelHandler(svc *service.ModelService, logger *slog.Logger) *ModelHandler {
	return &ModelHandler{
		svc:    svc,
		logger: logger,
	}
}

// Routes returns the resource router, serving "/".
//
// PUT is advertised to browsers in the preflight reply but has no handler,
// so it gets the same 405 as any other unsupported method.
func (h *ModelHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.AllowAnyOrigin)
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Options("/", preflight("GET, POST, PUT, DELETE, OPTIONS", "Content-Type, X-User-Id"))
	r.Get("/", h.HandleGet)
	r.Post("/", h.HandleCreate)
	r.Delete("/", h.HandleDelete)
	return r
}

// HandleGet lists models, or returns one when ?id= is present.
//
// HTTP: GET /models       → [{id, photosCount, faceType, ...}] newest first, max 50
// HTTP: GET /models?id=N  → {id, photos, faceType, ...} or 404
func (h *ModelHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		summaries, err := h.svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summaries)
		return
	}

	id, err := parseID(raw)
	if err != nil {
		writeError(w, err)
		return
	}

	model, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

// HandleCreate stores a new model and replies 201 {"id": N}.
//
// HTTP: POST /models
// REQUEST BODY: {"photos": ["a.jpg"], "faceType": "oval", ...}
func (h *ModelHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CreateModelInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.logger.Warn("invalid model body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	model, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: model.ID})
}

// HandleDelete removes a model. Unknown ids still answer {"success": true}.
//
// HTTP: DELETE /models?id=N
func (h *ModelHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		writeError(w, apperror.ValidationFailed("id", "id is required"))
		return
	}

	id, err := parseID(raw)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
