package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/model-catalog/internal/catalog"
	"github.com/sakif/model-catalog/internal/middleware"
	"github.com/sakif/model-catalog/internal/service"
)

// FilterHandler serves the filter set resource.
//
//	OPTIONS  preflight
//	GET      current lists (all empty before the first PUT)
//	PUT      replace all lists
type FilterHandler struct {
	svc    *service.FilterService
	logger *slog.Logger
}

func NewFilterHandler(svc *service.FilterService, logger *slog.Logger) *FilterHandler {
	return &FilterHandler{
		svc:    svc,
		logger: logger,
	}
}

// Routes returns the resource router. Mount it at the resource path; the
// router itself serves "/".
func (h *FilterHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.AllowAnyOrigin)
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Options("/", preflight("GET, PUT, OPTIONS", "Content-Type"))
	r.Get("/", h.HandleGet)
	r.Put("/", h.HandlePut)
	return r
}

// HandleGet returns the current filter set.
//
// HTTP: GET /filters
func (h *FilterHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	set, err := h.svc.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// HandlePut replaces the filter set. Omitted or null lists become empty.
//
// HTTP: PUT /filters
// REQUEST BODY: {"faceTypes": ["oval", "round"], "eyeColors": [...], ...}
func (h *FilterHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	var set catalog.FilterSet
	if err := decodeJSON(w, r, &set); err != nil {
		h.logger.Warn("invalid filters body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	if err := h.svc.Update(r.Context(), &set); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
