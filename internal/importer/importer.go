// Package importer pulls incident reports from a third-party JSON feed and
// forwards them through the incident write path, classification included.
// Runs are asynchronous and tracked in memory by ULID.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/forcewatch/server/internal/incident"
)

const (
	httpTimeout = 30 * time.Second

	// maxFeedBytes caps the feed body read. The public feeds are a few MB;
	// 64MB leaves generous headroom without trusting the peer.
	maxFeedBytes = 64 << 20
)

// Status tracks where an import run is in its lifecycle.
type Status string

const (
	// StatusPending means created, not yet started.
	StatusPending Status = "pending"

	// StatusRunning means the feed is being fetched and inserted.
	StatusRunning Status = "running"

	// StatusComplete means finished; individual entries may still have failed.
	StatusComplete Status = "complete"

	// StatusFailed means the run aborted before processing entries.
	StatusFailed Status = "failed"
)

// Run is the record of one bulk import.
type Run struct {
	ID          string    `json:"id"`
	Status      Status    `json:"status"`
	FeedURL     string    `json:"feed_url"`
	Imported    int       `json:"imported"`
	Failed      int       `json:"failed"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// IncidentCreator is the slice of the incident service the importer needs.
type IncidentCreator interface {
	Create(ctx context.Context, n *incident.NewIncident) (*incident.Incident, error)
}

// Notifier is called with the finished run. Implementations must tolerate
// being called from the import goroutine.
type Notifier interface {
	Send(ctx context.Context, run *Run) error
}

// feedEntry is one incident report as published by the feed.
type feedEntry struct {
	ID    string   `json:"id"`
	City  string   `json:"city"`
	State string   `json:"state"`
	Lat   float64  `json:"lat"`
	Long  float64  `json:"long"`
	Title string   `json:"name"`
	Desc  string   `json:"description"`
	Date  string   `json:"date"`
	Links []string `json:"links"`
	Tags  []string `json:"tags"`
}

type feedResponse struct {
	Data []feedEntry `json:"data"`
}

// Importer fetches the feed and drives the incident write path.
type Importer struct {
	feedURL  string
	svc      IncidentCreator
	logger   log.Logger
	notifier Notifier
	client   *http.Client

	mu   sync.Mutex
	runs map[string]*Run
}

// New creates an Importer for the given feed URL. A nil logger falls back to
// Nop; notifier may be nil.
func New(feedURL string, svc IncidentCreator, logger log.Logger, notifier Notifier) *Importer {
	if logger == nil {
		logger = log.Nop()
	}
	return &Importer{
		feedURL:  feedURL,
		svc:      svc,
		logger:   logger,
		notifier: notifier,
		client:   &http.Client{Timeout: httpTimeout},
		runs:     make(map[string]*Run),
	}
}

// Start registers a new run and kicks off the import asynchronously.
func (im *Importer) Start(ctx context.Context) (*Run, error) {
	if im.feedURL == "" {
		return nil, fmt.Errorf("no import feed configured")
	}

	run := &Run{
		ID:        ulid.Make().String(),
		Status:    StatusPending,
		FeedURL:   im.feedURL,
		StartedAt: time.Now(),
	}
	im.putRun(run)

	go im.run(context.WithoutCancel(ctx), run.ID)

	cp := *run
	return &cp, nil
}

// Get retrieves a run by ID. Returns a copy.
func (im *Importer) Get(id string) (*Run, bool) {
	im.mu.Lock()
	defer im.mu.Unlock()
	run, ok := im.runs[id]
	if !ok {
		return nil, false
	}
	cp := *run
	return &cp, true
}

func (im *Importer) putRun(run *Run) {
	im.mu.Lock()
	defer im.mu.Unlock()
	cp := *run
	im.runs[run.ID] = &cp
}

func (im *Importer) run(ctx context.Context, id string) {
	L := im.logger.With("import_id", id)

	run, ok := im.Get(id)
	if !ok {
		L.Error(ctx, nil, "import run vanished before start")
		return
	}

	run.Status = StatusRunning
	im.putRun(run)

	entries, err := im.fetchFeed(ctx)
	if err != nil {
		run.Status = StatusFailed
		run.Error = err.Error()
		run.CompletedAt = time.Now()
		im.putRun(run)
		L.Error(ctx, err, "import feed fetch failed", "feed_url", im.feedURL)
		im.notify(ctx, run)
		return
	}

	for _, e := range entries {
		if _, err := im.svc.Create(ctx, &incident.NewIncident{
			Slug:       e.ID,
			City:       e.City,
			State:      e.State,
			Lat:        e.Lat,
			Long:       e.Long,
			Title:      e.Title,
			Desc:       e.Desc,
			Date:       e.Date,
			Links:      e.Links,
			Categories: e.Tags,
		}); err != nil {
			run.Failed++
			L.Error(ctx, err, "import entry failed", "slug", e.ID)
			continue
		}
		run.Imported++
	}

	run.Status = StatusComplete
	run.CompletedAt = time.Now()
	im.putRun(run)

	L.Info(ctx, "import complete",
		"imported", run.Imported,
		"failed", run.Failed,
		"duration", run.CompletedAt.Sub(run.StartedAt).Seconds(),
	)
	im.notify(ctx, run)
}

func (im *Importer) fetchFeed(ctx context.Context) ([]feedEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, im.feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := im.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed returned %d: %s", resp.StatusCode, string(body))
	}

	var feed feedResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedBytes)).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return feed.Data, nil
}

func (im *Importer) notify(ctx context.Context, run *Run) {
	if im.notifier == nil {
		return
	}
	if err := im.notifier.Send(ctx, run); err != nil {
		im.logger.Error(ctx, err, "import notification failed", "import_id", run.ID)
	}
}
