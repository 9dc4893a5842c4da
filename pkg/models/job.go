package models

// Job represents a normalized job record as served to list-view consumers.
// Enrichment-gated fields (Summary, Skills, Highlights, StructuredData) are
// only populated when the enrichment status reports SUCCESS; pointer and nil
// slice values distinguish "not yet enriched" from "enriched but empty".
type Job struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Company          string         `json:"company"`
	Location         string         `json:"location"`
	Level            *string        `json:"level,omitempty"`
	PostedAt         string         `json:"postedAt"`
	Tags             []string       `json:"tags"`
	URL              string         `json:"url"`
	Enrichments      map[string]any `json:"enrichments,omitempty"`
	EnrichmentStatus map[string]any `json:"enrichmentStatus,omitempty"`
	Summary          *string        `json:"summary,omitempty"`
	Skills           []string       `json:"skills"`
	Highlights       []string       `json:"highlights"`
	StructuredData   *string        `json:"structuredData,omitempty"`
	DetailMatch      bool           `json:"detailMatch"`
	Content          string         `json:"content,omitempty"`
}

// JobDetail represents a normalized job detail record. Content is always
// present (possibly empty) and carries the raw HTML description.
type JobDetail struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Company          string         `json:"company"`
	Location         string         `json:"location"`
	PostedAt         string         `json:"postedAt"`
	Content          string         `json:"content"`
	Enrichments      map[string]any `json:"enrichments,omitempty"`
	EnrichmentStatus map[string]any `json:"enrichmentStatus,omitempty"`
	Summary          *string        `json:"summary,omitempty"`
	Skills           []string       `json:"skills"`
	Highlights       []string       `json:"highlights"`
	StructuredData   *string        `json:"structuredData,omitempty"`
}

// JobsResponse is the page envelope returned by the jobs list endpoint.
// Total falls back to len(Items) when the upstream value is missing or not a
// parseable non-negative number.
type JobsResponse struct {
	Items      []Job   `json:"items"`
	Total      int     `json:"total"`
	NextCursor *string `json:"nextCursor"`
	HasMore    bool    `json:"hasMore"`
	Size       int     `json:"size"`
}

// JobsQuery holds the query parameters for an upstream jobs list request.
// Empty string fields are omitted from the outgoing query.
type JobsQuery struct {
	Q            string
	Location     string
	Company      string
	Level        string
	Remote       string
	SalaryMin    string
	DatePosted   string
	SearchDetail bool
	Size         int
	Cursor       string
}
