package incident

// aggregateStats counts rows the join silently skipped. Dangling references
// are not an error (referential integrity is the store's problem) but they
// are worth a metric.
type aggregateStats struct {
	SkippedTagLinks int
	SkippedSources  int
}

// Aggregate joins four flat collections into one IncidentView per incident,
// preserving the supplied incident order. Categories follow tag-link scan
// order, sources follow the supplied source order. Tag links whose type of
// force is undefined, and links or sources referencing an unknown incident,
// contribute nothing. Inputs are never mutated; the nested sequences on every
// view are non-nil even when empty.
func Aggregate(incidents []Incident, typesOfForce []TypeOfForce, tagLinks []TagLink, sources []Source) []IncidentView {
	views, _ := aggregate(incidents, typesOfForce, tagLinks, sources)
	return views
}

func aggregate(incidents []Incident, typesOfForce []TypeOfForce, tagLinks []TagLink, sources []Source) ([]IncidentView, aggregateStats) {
	var stats aggregateStats

	labelByID := make(map[int64]string, len(typesOfForce))
	for _, tf := range typesOfForce {
		labelByID[tf.TypeOfForceID] = tf.Label
	}

	known := make(map[int64]bool, len(incidents))
	for _, in := range incidents {
		known[in.IncidentID] = true
	}

	categories := make(map[int64][]string)
	for _, link := range tagLinks {
		label, ok := labelByID[link.TypeOfForceID]
		if !ok || !known[link.IncidentID] {
			stats.SkippedTagLinks++
			continue
		}
		categories[link.IncidentID] = append(categories[link.IncidentID], label)
	}

	srcByIncident := make(map[int64][]Source)
	for _, src := range sources {
		if !known[src.IncidentID] {
			stats.SkippedSources++
			continue
		}
		srcByIncident[src.IncidentID] = append(srcByIncident[src.IncidentID], src)
	}

	views := make([]IncidentView, 0, len(incidents))
	for _, in := range incidents {
		v := IncidentView{
			Incident:   in,
			Categories: categories[in.IncidentID],
			Src:        srcByIncident[in.IncidentID],
		}
		if v.Categories == nil {
			v.Categories = []string{}
		}
		if v.Src == nil {
			v.Src = []Source{}
		}
		views = append(views, v)
	}
	return views, stats
}
