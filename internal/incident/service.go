package incident

import (
	"context"
	"fmt"
	"time"

	"github.com/linnemanlabs/go-core/log"
)

// NewIncident is a validated incident submission: the incident's own fields
// plus raw citation URLs (classified on insert) and type-of-force labels
// (resolved or created, then linked).
type NewIncident struct {
	Slug       string
	City       string
	State      string
	Lat        float64
	Long       float64
	Title      string
	Desc       string
	Date       string
	Links      []string
	Categories []string
}

// Service is the business boundary for incident operations.
type Service struct {
	store   Store
	logger  log.Logger
	metrics *Metrics
}

// NewService creates a new incident service. A nil logger falls back to Nop,
// nil metrics to an unregistered set.
func NewService(store Store, logger log.Logger, metrics *Metrics) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Service{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// List fetches the four flat collections and aggregates them into nested
// incident views.
func (s *Service) List(ctx context.Context) ([]IncidentView, error) {
	incidents, err := s.store.Incidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch incidents: %w", err)
	}
	typesOfForce, err := s.store.TypesOfForce(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch types of force: %w", err)
	}
	tagLinks, err := s.store.TagLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tag links: %w", err)
	}
	sources, err := s.store.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch sources: %w", err)
	}

	start := time.Now()
	views, stats := aggregate(incidents, typesOfForce, tagLinks, sources)

	s.metrics.AggregateDuration.Observe(time.Since(start).Seconds())
	s.metrics.AggregateSize.Observe(float64(len(views)))
	s.metrics.SkippedTagLinks.Add(float64(stats.SkippedTagLinks))
	s.metrics.SkippedSources.Add(float64(stats.SkippedSources))

	if stats.SkippedTagLinks > 0 || stats.SkippedSources > 0 {
		s.logger.Warn(ctx, "aggregation skipped dangling rows",
			"skipped_tag_links", stats.SkippedTagLinks,
			"skipped_sources", stats.SkippedSources,
		)
	}
	return views, nil
}

// Create inserts an incident with its classified citations and tag links.
// Returns the stored incident with its assigned identity.
func (s *Service) Create(ctx context.Context, n *NewIncident) (*Incident, error) {
	in := &Incident{
		Slug:  n.Slug,
		City:  n.City,
		State: n.State,
		Lat:   n.Lat,
		Long:  n.Long,
		Title: n.Title,
		Desc:  n.Desc,
		Date:  n.Date,
	}

	id, err := s.store.InsertIncident(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("insert incident: %w", err)
	}
	in.IncidentID = id

	for _, url := range n.Links {
		if _, err := s.addSource(ctx, id, url); err != nil {
			return nil, err
		}
	}

	if len(n.Categories) > 0 {
		if err := s.linkCategories(ctx, id, n.Categories); err != nil {
			return nil, err
		}
	}

	s.metrics.IncidentsCreated.Inc()
	s.logger.Info(ctx, "incident created",
		"incident_id", id,
		"slug", in.Slug,
		"sources", len(n.Links),
		"categories", len(n.Categories),
	)
	return in, nil
}

// AddSource classifies a single citation and attaches it to an incident.
func (s *Service) AddSource(ctx context.Context, incidentID int64, url string) (*Source, error) {
	return s.addSource(ctx, incidentID, url)
}

func (s *Service) addSource(ctx context.Context, incidentID int64, url string) (*Source, error) {
	src := Classify(url)
	src.IncidentID = incidentID

	id, err := s.store.InsertSource(ctx, &src)
	if err != nil {
		return nil, fmt.Errorf("insert source: %w", err)
	}
	src.SrcID = id

	s.metrics.SourcesClassified.WithLabelValues(string(src.SrcType)).Inc()
	return &src, nil
}

// linkCategories resolves each label against the stored type-of-force
// definitions, creating missing ones, and links them to the incident.
func (s *Service) linkCategories(ctx context.Context, incidentID int64, labels []string) error {
	defined, err := s.store.TypesOfForce(ctx)
	if err != nil {
		return fmt.Errorf("fetch types of force: %w", err)
	}
	idByLabel := make(map[string]int64, len(defined))
	for _, tf := range defined {
		idByLabel[tf.Label] = tf.TypeOfForceID
	}

	for _, label := range labels {
		tfID, ok := idByLabel[label]
		if !ok {
			id, err := s.store.InsertTypeOfForce(ctx, &TypeOfForce{Label: label})
			if err != nil {
				return fmt.Errorf("insert type of force %q: %w", label, err)
			}
			tfID = id
			idByLabel[label] = id
		}
		if err := s.store.InsertTagLink(ctx, &TagLink{TypeOfForceID: tfID, IncidentID: incidentID}); err != nil {
			return fmt.Errorf("insert tag link: %w", err)
		}
	}
	return nil
}
