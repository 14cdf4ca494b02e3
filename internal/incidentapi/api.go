// Package incidentapi exposes the incident catalog over HTTP.
package incidentapi

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/forcewatch/server/internal/authmw"
	"github.com/forcewatch/server/internal/importer"
	"github.com/forcewatch/server/internal/incident"
)

// IncidentService defines the business operations incidentapi needs.
type IncidentService interface {
	List(ctx context.Context) ([]incident.IncidentView, error)
	Create(ctx context.Context, n *incident.NewIncident) (*incident.Incident, error)
	AddSource(ctx context.Context, incidentID int64, url string) (*incident.Source, error)
}

// ImportService controls bulk feed imports.
type ImportService interface {
	Start(ctx context.Context) (*importer.Run, error)
	Get(id string) (*importer.Run, bool)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger     log.Logger
	svc        IncidentService
	imports    ImportService
	validate   *validator.Validate
	writeToken string
}

// New creates a new API handler. writeToken guards the write endpoints; an
// empty token leaves them open (dev mode). imports may be nil when no feed
// is configured.
func New(logger log.Logger, svc IncidentService, imports ImportService, writeToken string) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("incident service is required"))
	}
	return &API{
		logger:     logger,
		svc:        svc,
		imports:    imports,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		writeToken: writeToken,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/incidents", a.handleListIncidents)

		r.Group(func(r chi.Router) {
			r.Use(authmw.BearerToken(a.writeToken))
			r.Post("/incidents", a.handleCreateIncident)
			r.Post("/sources", a.handleCreateSource)
			r.Post("/imports", a.handleStartImport)
			r.Get("/imports/{id}", a.handleGetImport)
		})
	})
}
