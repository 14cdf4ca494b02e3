// Package memstore provides an in-memory implementation of incident.Store.
package memstore

import (
	"context"
	"sync"

	"github.com/forcewatch/server/internal/incident"
)

// Store holds incident catalog rows in memory. Suitable for dev/testing.
// Fetch methods return rows in insertion order, matching the serial-key
// ordering of the postgres store.
type Store struct {
	mu            sync.RWMutex
	incidents     []incident.Incident
	typesOfForce  []incident.TypeOfForce
	tagLinks      []incident.TagLink
	sources       []incident.Source
	nextIncident  int64
	nextSource    int64
	nextForceType int64
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		nextIncident:  1,
		nextSource:    1,
		nextForceType: 1,
	}
}

// Incidents returns a copy of all incident rows in insertion order.
func (s *Store) Incidents(_ context.Context) ([]incident.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]incident.Incident(nil), s.incidents...), nil
}

// TypesOfForce returns a copy of all type-of-force rows in insertion order.
func (s *Store) TypesOfForce(_ context.Context) ([]incident.TypeOfForce, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]incident.TypeOfForce(nil), s.typesOfForce...), nil
}

// TagLinks returns a copy of all tag-link rows in insertion order.
func (s *Store) TagLinks(_ context.Context) ([]incident.TagLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]incident.TagLink(nil), s.tagLinks...), nil
}

// Sources returns a copy of all source rows in insertion order.
func (s *Store) Sources(_ context.Context) ([]incident.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]incident.Source(nil), s.sources...), nil
}

// InsertIncident stores a copy of the incident and returns its assigned ID.
func (s *Store) InsertIncident(_ context.Context, in *incident.Incident) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *in
	cp.IncidentID = s.nextIncident
	s.nextIncident++
	s.incidents = append(s.incidents, cp)
	return cp.IncidentID, nil
}

// InsertSource stores a copy of the source and returns its assigned ID.
func (s *Store) InsertSource(_ context.Context, src *incident.Source) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *src
	cp.SrcID = s.nextSource
	s.nextSource++
	s.sources = append(s.sources, cp)
	return cp.SrcID, nil
}

// InsertTypeOfForce stores a copy of the definition and returns its assigned ID.
func (s *Store) InsertTypeOfForce(_ context.Context, tf *incident.TypeOfForce) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tf
	cp.TypeOfForceID = s.nextForceType
	s.nextForceType++
	s.typesOfForce = append(s.typesOfForce, cp)
	return cp.TypeOfForceID, nil
}

// InsertTagLink stores a copy of the link row.
func (s *Store) InsertTagLink(_ context.Context, link *incident.TagLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tagLinks = append(s.tagLinks, *link)
	return nil
}
