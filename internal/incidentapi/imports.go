package incidentapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func (a *API) handleStartImport(w http.ResponseWriter, r *http.Request) {
	if a.imports == nil {
		http.Error(w, `{"error":"imports not configured"}`, http.StatusServiceUnavailable)
		return
	}

	run, err := a.imports.Start(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to start import")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(run)
}

func (a *API) handleGetImport(w http.ResponseWriter, r *http.Request) {
	if a.imports == nil {
		http.Error(w, `{"error":"imports not configured"}`, http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("forcewatch.import.id", id))

	run, ok := a.imports.Get(id)
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	span.SetAttributes(attribute.String("forcewatch.import.status", string(run.Status)))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(run)
}
