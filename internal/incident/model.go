package incident

// SourceType is the semantic category of a citation, derived from its URL.
type SourceType string

const (
	// SourceVideo is footage hosts (youtube, peertube, drive, ...).
	SourceVideo SourceType = "video"

	// SourcePost is social media posts (twitter, instagram, reddit, ...).
	SourcePost SourceType = "post"

	// SourceCourtDocument is legal filings and court records.
	SourceCourtDocument SourceType = "court_document"

	// SourceImage is image hosts.
	SourceImage SourceType = "image"

	// SourcePoliceReport is official police department releases.
	SourcePoliceReport SourceType = "police_report"

	// SourceArticle is the default for anything unrecognized.
	SourceArticle SourceType = "article"
)

// Incident is a single reported incident as stored, without its joined
// categories and sources. IncidentID is assigned by the store on insert.
type Incident struct {
	IncidentID int64   `json:"incident_id"`
	Slug       string  `json:"id"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	Lat        float64 `json:"lat"`
	Long       float64 `json:"long"`
	Title      string  `json:"title"`
	Desc       string  `json:"desc"`
	Date       string  `json:"date"`
}

// Source is a single classified citation attached to an incident.
type Source struct {
	SrcID      int64      `json:"src_id"`
	IncidentID int64      `json:"incident_id"`
	SrcURL     string     `json:"src_url"`
	SrcType    SourceType `json:"src_type"`
}

// TypeOfForce is a tag definition: a label describing a category of force.
type TypeOfForce struct {
	TypeOfForceID int64  `json:"type_of_force_id"`
	Label         string `json:"type_of_force"`
}

// TagLink joins an incident to a type of force. Many-to-many, no identity
// beyond the pair.
type TagLink struct {
	TypeOfForceID int64 `json:"type_of_force_id"`
	IncidentID    int64 `json:"incident_id"`
}

// IncidentView is the denormalized, client-facing shape: the incident's own
// fields plus its joined tag labels and classified citations. It exists only
// as aggregator output and is never persisted.
type IncidentView struct {
	Incident
	Categories []string `json:"categories"`
	Src        []Source `json:"src"`
}
