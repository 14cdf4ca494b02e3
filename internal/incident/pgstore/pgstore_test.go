package pgstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forcewatch/server/internal/incident"
	"github.com/forcewatch/server/internal/incident/pgstore"
)

func openStore(t *testing.T) *pgstore.Store {
	t.Helper()
	dsn := os.Getenv("FORCEWATCH_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("FORCEWATCH_TEST_DATABASE_URL not set, skipping integration test")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(pool.Close)

	s, err := pgstore.New(ctx, pool)
	if err != nil {
		t.Fatalf("pgstore.New: %v", err)
	}
	return s
}

func TestInsertAndFetch(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	incID, err := s.InsertIncident(ctx, &incident.Incident{
		Slug:  "wa-olympia-1",
		City:  "Olympia",
		State: "WA",
		Lat:   47.0379,
		Long:  -122.9007,
		Title: "Protester struck",
		Desc:  "Officer strikes protester with baton",
		Date:  "2020-06-01",
	})
	if err != nil {
		t.Fatalf("InsertIncident: %v", err)
	}
	if incID == 0 {
		t.Fatal("InsertIncident returned zero ID")
	}

	tfID, err := s.InsertTypeOfForce(ctx, &incident.TypeOfForce{Label: "baton"})
	if err != nil {
		t.Fatalf("InsertTypeOfForce: %v", err)
	}
	if err := s.InsertTagLink(ctx, &incident.TagLink{TypeOfForceID: tfID, IncidentID: incID}); err != nil {
		t.Fatalf("InsertTagLink: %v", err)
	}
	srcID, err := s.InsertSource(ctx, &incident.Source{
		IncidentID: incID,
		SrcURL:     "https://twitter.com/x/status/1",
		SrcType:    incident.SourcePost,
	})
	if err != nil {
		t.Fatalf("InsertSource: %v", err)
	}

	incidents, err := s.Incidents(ctx)
	if err != nil {
		t.Fatalf("Incidents: %v", err)
	}
	var got *incident.Incident
	for i := range incidents {
		if incidents[i].IncidentID == incID {
			got = &incidents[i]
		}
	}
	if got == nil {
		t.Fatalf("inserted incident %d not returned by Incidents", incID)
	}
	if got.Slug != "wa-olympia-1" || got.City != "Olympia" || got.Date != "2020-06-01" {
		t.Errorf("incident fields mismatch: %+v", got)
	}

	sources, err := s.Sources(ctx)
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	found := false
	for _, src := range sources {
		if src.SrcID == srcID {
			found = true
			if src.IncidentID != incID || src.SrcType != incident.SourcePost {
				t.Errorf("source fields mismatch: %+v", src)
			}
		}
	}
	if !found {
		t.Fatalf("inserted source %d not returned by Sources", srcID)
	}

	links, err := s.TagLinks(ctx)
	if err != nil {
		t.Fatalf("TagLinks: %v", err)
	}
	found = false
	for _, link := range links {
		if link.TypeOfForceID == tfID && link.IncidentID == incID {
			found = true
		}
	}
	if !found {
		t.Fatal("inserted tag link not returned by TagLinks")
	}
}

func TestFetchOrderIsInsertionOrder(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id1, err := s.InsertIncident(ctx, &incident.Incident{Slug: "order-a"})
	if err != nil {
		t.Fatalf("InsertIncident: %v", err)
	}
	id2, err := s.InsertIncident(ctx, &incident.Incident{Slug: "order-b"})
	if err != nil {
		t.Fatalf("InsertIncident: %v", err)
	}

	incidents, err := s.Incidents(ctx)
	if err != nil {
		t.Fatalf("Incidents: %v", err)
	}
	pos := func(id int64) int {
		for i := range incidents {
			if incidents[i].IncidentID == id {
				return i
			}
		}
		return -1
	}
	p1, p2 := pos(id1), pos(id2)
	if p1 < 0 || p2 < 0 {
		t.Fatalf("inserted incidents not returned: %d, %d", p1, p2)
	}
	if p1 >= p2 {
		t.Errorf("insertion order not preserved: %d at %d, %d at %d", id1, p1, id2, p2)
	}
}
