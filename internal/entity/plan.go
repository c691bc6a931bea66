package entity

// Download is one pending fetch from a reconciliation plan.
type Download struct {
	Name     string // Display name, for progress output
	Filename string // Target file name inside the mods directory
	URL      string // Resolved download location
}

// Plan is the derived diff between the descriptor set and the mods
// directory. It is computed fresh on every run and never persisted.
type Plan struct {
	Skipped   int         // Needed files that are already present
	Downloads []*Download // Needed files that are absent and resolvable
	Deletions []string    // Present jars that are neither needed nor protected
}

func (p *Plan) Empty() bool {
	return len(p.Downloads) == 0 && len(p.Deletions) == 0
}
