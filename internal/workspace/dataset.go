package workspace

import "time"

// Dataset records a table file attached to a workspace and the shape it had
// when it was added.
type Dataset struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Rows        int       `json:"rows"`
	Cols        int       `json:"cols"`
	AddedAt     time.Time `json:"added_at"`
}

// Settings override global loading and cleaning defaults for one workspace.
// Empty fields inherit.
type Settings struct {
	Delimiter     string   `json:"delimiter,omitempty"`
	MissingTokens []string `json:"missing_tokens,omitempty"`
	FillValue     string   `json:"fill_value,omitempty"`
}
