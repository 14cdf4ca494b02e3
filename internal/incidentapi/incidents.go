package incidentapi

import (
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/forcewatch/server/internal/incident"
)

type createIncidentRequest struct {
	ID         string   `json:"id" validate:"required"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Lat        float64  `json:"lat"`
	Long       float64  `json:"long"`
	Title      string   `json:"title" validate:"required"`
	Desc       string   `json:"desc"`
	Date       string   `json:"date" validate:"required"`
	Links      []string `json:"links" validate:"dive,required,url"`
	Categories []string `json:"categories" validate:"dive,required"`
}

type createSourceRequest struct {
	IncidentID int64  `json:"incident_id" validate:"required,gt=0"`
	SrcURL     string `json:"src_url" validate:"required,url"`
}

func (a *API) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	views, err := a.svc.List(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list incidents")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.Int("forcewatch.incidents.count", len(views)))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(views)
}

func (a *API) handleCreateIncident(w http.ResponseWriter, r *http.Request) {
	var req createIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	if err := a.validate.Struct(&req); err != nil {
		a.logger.Info(r.Context(), "rejected incident submission", "reason", err.Error())
		http.Error(w, `{"error":"validation failed"}`, http.StatusBadRequest)
		return
	}

	in, err := a.svc.Create(r.Context(), &incident.NewIncident{
		Slug:       req.ID,
		City:       req.City,
		State:      req.State,
		Lat:        req.Lat,
		Long:       req.Long,
		Title:      req.Title,
		Desc:       req.Desc,
		Date:       req.Date,
		Links:      req.Links,
		Categories: req.Categories,
	})
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to create incident", "slug", req.ID)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(in)
}

func (a *API) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var req createSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	if err := a.validate.Struct(&req); err != nil {
		http.Error(w, `{"error":"validation failed"}`, http.StatusBadRequest)
		return
	}

	src, err := a.svc.AddSource(r.Context(), req.IncidentID, req.SrcURL)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to create source", "incident_id", req.IncidentID)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(src)
}
