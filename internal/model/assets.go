package model

// StateColor associates a state name with its display color.
type StateColor struct {
	State string
	Color string
}

// ColorTable is the loaded color lookup. It is never mutated after load.
type ColorTable []StateColor

// Lookup returns the color of the first entry whose state matches exactly.
func (t ColorTable) Lookup(state string) (string, bool) {
	for _, c := range t {
		if c.State == state {
			return c.Color, true
		}
	}
	return "", false
}

// PublicationEntry places one state on the grid of one publication.
// Row and Col are 1-based.
type PublicationEntry struct {
	Code        string `json:"code"`
	State       string `json:"state"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Publication string `json:"publication"`
}

// Link is one row of the link table. Only the publication column drives rendering;
// the remaining columns are kept verbatim.
type Link struct {
	Publication string            `json:"publication"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// FilterPublication returns the entries that belong to publication, in input order.
func FilterPublication(entries []PublicationEntry, publication string) []PublicationEntry {
	out := make([]PublicationEntry, 0, len(entries))
	for _, e := range entries {
		if e.Publication == publication {
			out = append(out, e)
		}
	}
	return out
}
