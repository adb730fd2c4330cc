package invoke

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/model-catalog/internal/config"
	"github.com/sakif/model-catalog/internal/handler"
	"github.com/sakif/model-catalog/internal/middleware"
	"github.com/sakif/model-catalog/internal/service"
	"github.com/sakif/model-catalog/internal/store"
)

// Resource names a deployable function.
type Resource string

const (
	ResourceFilters Resource = "filters"
	ResourceModels  Resource = "models"
)

func ParseResource(name string) (Resource, error) {
	switch r := Resource(name); r {
	case ResourceFilters, ResourceModels:
		return r, nil
	default:
		return "", fmt.Errorf("unknown resource %q (want filters or models)", name)
	}
}

// Function serves one resource per invocation. Every Invoke opens the
// datastore, serves the event and closes the datastore again, so nothing is
// shared between invocations.
type Function struct {
	resource Resource
	config   *config.Config
	logger   *slog.Logger
	open     func(ctx context.Context, databaseURL string) (store.Store, error)
}

func NewFunction(resource Resource, cfg *config.Config, logger *slog.Logger) *Function {
	return &Function{
		resource: resource,
		config:   cfg,
		logger:   logger,
		open:     store.Open,
	}
}

// Invoke handles one event. Datastore failures become a 500 envelope; only
// a malformed event is returned as an error.
func (f *Function) Invoke(ctx context.Context, ev Event) (Response, error) {
	logger := f.logger.With(slog.String("resource", string(f.resource)))

	st, err := f.open(ctx, f.config.DatabaseURL)
	if err != nil {
		logger.Error("failed to open datastore", slog.String("error", err.Error()))
		return internalError(), nil
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close datastore", slog.String("error", err.Error()))
		}
	}()

	if f.config.AutoMigrate {
		if err := st.Migrate(ctx); err != nil {
			logger.Error("failed to migrate datastore", slog.String("error", err.Error()))
			return internalError(), nil
		}
	}

	// The resource router serves "/"; the event path only shows up in logs.
	logger.Debug("invocation received",
		slog.String("method", ev.HTTPMethod),
		slog.String("path", ev.Path),
	)
	ev.Path = "/"

	return Dispatch(ctx, f.handler(st, logger), ev)
}

func (f *Function) handler(st store.Store, logger *slog.Logger) http.Handler {
	var routes http.Handler
	switch f.resource {
	case ResourceFilters:
		svc := service.NewFilterService(st.Filters(), logger)
		routes = handler.NewFilterHandler(svc, logger).Routes()
	default:
		svc := service.NewModelService(st.Models(), service.ModelServiceConfig{
			ResetSequenceOnEmpty: f.config.ResetSequenceOnEmpty,
		}, logger)
		routes = handler.NewModelHandler(svc, logger).Routes()
	}

	return chimiddleware.RequestID(
		middleware.UserID(
			middleware.Logger(logger)(
				middleware.AllowAnyOrigin(
					chimiddleware.Recoverer(routes),
				),
			),
		),
	)
}

func internalError() Response {
	return Response{
		StatusCode: http.StatusInternalServerError,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: `{"error":"Internal server error"}`,
	}
}
