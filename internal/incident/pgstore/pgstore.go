// Package pgstore provides a PostgreSQL implementation of incident.Store.
package pgstore

import (
	"context"
	_ "embed"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forcewatch/server/internal/incident"
)

var tracer = otel.Tracer("github.com/forcewatch/server/internal/incident/pgstore")

//go:embed schema.sql
var schema string

// Store persists the incident catalog in PostgreSQL. Fetch-all queries order
// by serial primary key, so supplied order equals insertion order.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema and returns a ready Store. The pool stays owned by
// the caller.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Incidents returns all incident rows in insertion order.
func (s *Store) Incidents(ctx context.Context) ([]incident.Incident, error) {
	ctx, span := startSpan(ctx, "pgstore.Incidents", "SELECT")
	defer span.End()

	rows, err := s.pool.Query(ctx, `
		SELECT incident_id, slug, city, state, lat, long, title, description, date
		FROM incidents ORDER BY incident_id`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query incidents: %w", err))
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (incident.Incident, error) {
		var in incident.Incident
		err := row.Scan(&in.IncidentID, &in.Slug, &in.City, &in.State, &in.Lat, &in.Long, &in.Title, &in.Desc, &in.Date)
		return in, err
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("scan incidents: %w", err))
	}
	return out, nil
}

// TypesOfForce returns all tag definitions in insertion order.
func (s *Store) TypesOfForce(ctx context.Context) ([]incident.TypeOfForce, error) {
	ctx, span := startSpan(ctx, "pgstore.TypesOfForce", "SELECT")
	defer span.End()

	rows, err := s.pool.Query(ctx, `
		SELECT type_of_force_id, type_of_force
		FROM types_of_force ORDER BY type_of_force_id`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query types of force: %w", err))
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (incident.TypeOfForce, error) {
		var tf incident.TypeOfForce
		err := row.Scan(&tf.TypeOfForceID, &tf.Label)
		return tf, err
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("scan types of force: %w", err))
	}
	return out, nil
}

// TagLinks returns all link rows in insertion order.
func (s *Store) TagLinks(ctx context.Context) ([]incident.TagLink, error) {
	ctx, span := startSpan(ctx, "pgstore.TagLinks", "SELECT")
	defer span.End()

	rows, err := s.pool.Query(ctx, `
		SELECT type_of_force_id, incident_id
		FROM tag_links ORDER BY link_id`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query tag links: %w", err))
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (incident.TagLink, error) {
		var link incident.TagLink
		err := row.Scan(&link.TypeOfForceID, &link.IncidentID)
		return link, err
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("scan tag links: %w", err))
	}
	return out, nil
}

// Sources returns all source rows in insertion order.
func (s *Store) Sources(ctx context.Context) ([]incident.Source, error) {
	ctx, span := startSpan(ctx, "pgstore.Sources", "SELECT")
	defer span.End()

	rows, err := s.pool.Query(ctx, `
		SELECT src_id, incident_id, src_url, src_type
		FROM sources ORDER BY src_id`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query sources: %w", err))
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (incident.Source, error) {
		var src incident.Source
		err := row.Scan(&src.SrcID, &src.IncidentID, &src.SrcURL, &src.SrcType)
		return src, err
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("scan sources: %w", err))
	}
	return out, nil
}

// InsertIncident inserts an incident row and returns its assigned ID.
func (s *Store) InsertIncident(ctx context.Context, in *incident.Incident) (int64, error) {
	ctx, span := startSpan(ctx, "pgstore.InsertIncident", "INSERT")
	defer span.End()

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO incidents (slug, city, state, lat, long, title, description, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING incident_id`,
		in.Slug, in.City, in.State, in.Lat, in.Long, in.Title, in.Desc, in.Date,
	).Scan(&id)
	if err != nil {
		return 0, fail(span, fmt.Errorf("insert incident: %w", err))
	}
	return id, nil
}

// InsertSource inserts a source row and returns its assigned ID.
func (s *Store) InsertSource(ctx context.Context, src *incident.Source) (int64, error) {
	ctx, span := startSpan(ctx, "pgstore.InsertSource", "INSERT")
	defer span.End()

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sources (incident_id, src_url, src_type)
		VALUES ($1, $2, $3)
		RETURNING src_id`,
		src.IncidentID, src.SrcURL, src.SrcType,
	).Scan(&id)
	if err != nil {
		return 0, fail(span, fmt.Errorf("insert source: %w", err))
	}
	return id, nil
}

// InsertTypeOfForce inserts a tag definition and returns its assigned ID.
func (s *Store) InsertTypeOfForce(ctx context.Context, tf *incident.TypeOfForce) (int64, error) {
	ctx, span := startSpan(ctx, "pgstore.InsertTypeOfForce", "INSERT")
	defer span.End()

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO types_of_force (type_of_force)
		VALUES ($1)
		RETURNING type_of_force_id`,
		tf.Label,
	).Scan(&id)
	if err != nil {
		return 0, fail(span, fmt.Errorf("insert type of force: %w", err))
	}
	return id, nil
}

// InsertTagLink inserts a link row.
func (s *Store) InsertTagLink(ctx context.Context, link *incident.TagLink) error {
	ctx, span := startSpan(ctx, "pgstore.InsertTagLink", "INSERT")
	defer span.End()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO tag_links (type_of_force_id, incident_id)
		VALUES ($1, $2)`,
		link.TypeOfForceID, link.IncidentID,
	)
	if err != nil {
		return fail(span, fmt.Errorf("insert tag link: %w", err))
	}
	return nil
}

func startSpan(ctx context.Context, name, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", op),
	))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
