package graph

// Reaction is an entry of a post's reactions edge.
type Reaction struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// LIKE, LOVE, WOW, HAHA, SAD, ANGRY, THANKFUL, PRIDE or CARE.
	Type string `json:"type"`
}

// ReactionsPage is one page of a post's reactions edge.
type ReactionsPage struct {
	Data   []Reaction `json:"data"`
	Paging Paging     `json:"paging"`
}

// Check implements classify.Checker.
func (p *ReactionsPage) Check() error {
	if p.Data == nil {
		return missing("data")
	}
	return nil
}

// Counts tallies reactions on this page by type.
func (p *ReactionsPage) Counts() map[string]int {
	counts := make(map[string]int)
	for _, r := range p.Data {
		counts[r.Type]++
	}
	return counts
}
