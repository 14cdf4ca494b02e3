package incident

import "context"

// Store is the persistence interface for the incident catalog. Fetch methods
// return every row of one table in insertion order; insert methods assign and
// return the row identity. The aggregator never touches the store directly,
// it only sees the fetched collections.
type Store interface {
	Incidents(ctx context.Context) ([]Incident, error)
	TypesOfForce(ctx context.Context) ([]TypeOfForce, error)
	TagLinks(ctx context.Context) ([]TagLink, error)
	Sources(ctx context.Context) ([]Source, error)

	InsertIncident(ctx context.Context, in *Incident) (int64, error)
	InsertSource(ctx context.Context, src *Source) (int64, error)
	InsertTypeOfForce(ctx context.Context, tf *TypeOfForce) (int64, error)
	InsertTagLink(ctx context.Context, link *TagLink) error
}
