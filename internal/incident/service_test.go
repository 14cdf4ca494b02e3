package incident

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// fakeStore is an inline Store for service tests. Not safe for concurrent
// use; tests drive it from one goroutine.
type fakeStore struct {
	incidents    []Incident
	typesOfForce []TypeOfForce
	tagLinks     []TagLink
	sources      []Source

	failFetch  error
	failInsert error
}

func (f *fakeStore) Incidents(context.Context) ([]Incident, error) {
	return f.incidents, f.failFetch
}

func (f *fakeStore) TypesOfForce(context.Context) ([]TypeOfForce, error) {
	return f.typesOfForce, f.failFetch
}

func (f *fakeStore) TagLinks(context.Context) ([]TagLink, error) {
	return f.tagLinks, f.failFetch
}

func (f *fakeStore) Sources(context.Context) ([]Source, error) {
	return f.sources, f.failFetch
}

func (f *fakeStore) InsertIncident(_ context.Context, in *Incident) (int64, error) {
	if f.failInsert != nil {
		return 0, f.failInsert
	}
	cp := *in
	cp.IncidentID = int64(len(f.incidents) + 1)
	f.incidents = append(f.incidents, cp)
	return cp.IncidentID, nil
}

func (f *fakeStore) InsertSource(_ context.Context, src *Source) (int64, error) {
	if f.failInsert != nil {
		return 0, f.failInsert
	}
	cp := *src
	cp.SrcID = int64(len(f.sources) + 1)
	f.sources = append(f.sources, cp)
	return cp.SrcID, nil
}

func (f *fakeStore) InsertTypeOfForce(_ context.Context, tf *TypeOfForce) (int64, error) {
	if f.failInsert != nil {
		return 0, f.failInsert
	}
	cp := *tf
	cp.TypeOfForceID = int64(len(f.typesOfForce) + 1)
	f.typesOfForce = append(f.typesOfForce, cp)
	return cp.TypeOfForceID, nil
}

func (f *fakeStore) InsertTagLink(_ context.Context, link *TagLink) error {
	if f.failInsert != nil {
		return f.failInsert
	}
	f.tagLinks = append(f.tagLinks, *link)
	return nil
}

func TestService_CreateClassifiesCitations(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	svc := NewService(store, nil, nil)
	ctx := context.Background()

	in, err := svc.Create(ctx, &NewIncident{
		Slug:  "wa-olympia-1",
		City:  "Olympia",
		State: "WA",
		Title: "Protester struck",
		Date:  "2020-06-01",
		Links: []string{
			"https://twitter.com/x/status/1",
			"https://www.youtube.com/watch?v=abc",
			"https://example.com/story",
		},
		Categories: []string{"tear_gas", "baton"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if in.IncidentID == 0 {
		t.Fatal("Create returned zero IncidentID")
	}

	wantTypes := []SourceType{SourcePost, SourceVideo, SourceArticle}
	if len(store.sources) != len(wantTypes) {
		t.Fatalf("len(sources) = %d, want %d", len(store.sources), len(wantTypes))
	}
	for i, want := range wantTypes {
		if store.sources[i].SrcType != want {
			t.Errorf("sources[%d].SrcType = %q, want %q", i, store.sources[i].SrcType, want)
		}
		if store.sources[i].IncidentID != in.IncidentID {
			t.Errorf("sources[%d].IncidentID = %d, want %d", i, store.sources[i].IncidentID, in.IncidentID)
		}
	}

	if len(store.typesOfForce) != 2 {
		t.Fatalf("len(typesOfForce) = %d, want 2", len(store.typesOfForce))
	}
	if len(store.tagLinks) != 2 {
		t.Fatalf("len(tagLinks) = %d, want 2", len(store.tagLinks))
	}
}

func TestService_CreateReusesExistingDefinitions(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		typesOfForce: []TypeOfForce{{TypeOfForceID: 1, Label: "tear_gas"}},
	}
	svc := NewService(store, nil, nil)

	if _, err := svc.Create(context.Background(), &NewIncident{
		Slug:       "or-portland-4",
		Categories: []string{"tear_gas", "tear_gas"},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(store.typesOfForce) != 1 {
		t.Errorf("len(typesOfForce) = %d, want 1 (existing label reused)", len(store.typesOfForce))
	}
	if len(store.tagLinks) != 2 {
		t.Errorf("len(tagLinks) = %d, want 2", len(store.tagLinks))
	}
	for i, link := range store.tagLinks {
		if link.TypeOfForceID != 1 {
			t.Errorf("tagLinks[%d].TypeOfForceID = %d, want 1", i, link.TypeOfForceID)
		}
	}
}

func TestService_AddSource(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	svc := NewService(store, nil, nil)

	src, err := svc.AddSource(context.Background(), 7, "https://i.ibb.co/abc/photo.jpg")
	if err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if src.SrcType != SourceImage {
		t.Errorf("SrcType = %q, want %q", src.SrcType, SourceImage)
	}
	if src.IncidentID != 7 {
		t.Errorf("IncidentID = %d, want 7", src.IncidentID)
	}
	if src.SrcID == 0 {
		t.Error("SrcID not assigned")
	}
}

func TestService_List(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		incidents:    []Incident{{IncidentID: 1, Slug: "wa-olympia-1"}},
		typesOfForce: []TypeOfForce{{TypeOfForceID: 1, Label: "tear_gas"}},
		tagLinks: []TagLink{
			{TypeOfForceID: 1, IncidentID: 1},
			{TypeOfForceID: 99, IncidentID: 1}, // dangling, skipped silently
		},
		sources: []Source{{SrcID: 1, IncidentID: 1, SrcURL: "https://twitter.com/x", SrcType: SourcePost}},
	}
	svc := NewService(store, nil, nil)

	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("len(views) = %d, want 1", len(views))
	}
	if !reflect.DeepEqual(views[0].Categories, []string{"tear_gas"}) {
		t.Errorf("Categories = %v, want [tear_gas]", views[0].Categories)
	}
	if len(views[0].Src) != 1 || views[0].Src[0].SrcID != 1 {
		t.Errorf("Src = %v, want [src 1]", views[0].Src)
	}
}

func TestService_ListFetchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	svc := NewService(&fakeStore{failFetch: boom}, nil, nil)

	if _, err := svc.List(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("List error = %v, want wrapped %v", err, boom)
	}
}

func TestService_CreateInsertError(t *testing.T) {
	t.Parallel()

	boom := errors.New("constraint violation")
	svc := NewService(&fakeStore{failInsert: boom}, nil, nil)

	if _, err := svc.Create(context.Background(), &NewIncident{Slug: "x"}); !errors.Is(err, boom) {
		t.Fatalf("Create error = %v, want wrapped %v", err, boom)
	}
}
