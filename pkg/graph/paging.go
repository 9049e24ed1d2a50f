package graph

// Cursor marks the ends of a page of results. Cursors are opaque and may be
// invalidated when the items they point at are removed.
type Cursor struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Paging describes how to continue a list. When Next is empty this is the
// last page. A page may be empty and still carry a Next link.
type Paging struct {
	Cursors Cursor `json:"cursors"`
	// Next is a complete request URL, access token included.
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}

// HasNext reports whether another page exists.
func (p Paging) HasNext() bool { return p.Next != "" }
