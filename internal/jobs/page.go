package jobs

import (
	"context"
	"time"

	"vibe-jobs-gateway/pkg/models"
)

// FetchFunc fetches one page of normalized jobs from the upstream backend.
type FetchFunc func(ctx context.Context, query models.JobsQuery) (*models.JobsResponse, error)

// PageRequest describes one date-filtered page load.
type PageRequest struct {
	// Query carries the base search parameters. Query.Size is overwritten by
	// the over-fetch computation; Query.DatePosted drives the cutoff.
	Query    models.JobsQuery
	PageSize int
	Cursor   string
	Now      func() time.Time
}

// Page is the assembled result of one load step.
type Page struct {
	Items      []models.Job
	NextCursor string
	HasMore    bool
	Total      int
	Size       int
}

// LoadPage performs exactly one backend fetch and assembles a page that
// honors the client-side "posted within N days" filter on top of a
// date-unaware cursor API. When the filter is active and pagination can
// continue, the cursor of the last returned item is synthesized locally so
// the next call resumes right after it; the server's own cursor is the
// fallback (and the only cursor when no filter is active). There is
// deliberately no refill loop: a sparse cutoff yields a short page rather
// than unbounded request fan-out, and every call site shares this same
// single-fetch cap.
func LoadPage(ctx context.Context, fetch FetchFunc, req PageRequest) (*Page, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	now := req.Now
	if now == nil {
		now = time.Now
	}

	cutoff, hasCutoff := ComputeDateCutoff(req.Query.DatePosted, now())
	query := req.Query
	query.Size = pageSize
	if hasCutoff {
		query.Size = pageSize * DateFilterSizeMultiplier
	}
	query.Cursor = req.Cursor

	resp, err := fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	filtered := resp.Items
	if hasCutoff {
		filtered = FilterJobsByDate(resp.Items, cutoff)
	}
	page := filtered
	if len(page) > pageSize {
		page = page[:pageSize]
	}

	// Under an active date filter the cursor of the last returned item is
	// preferred whenever pagination can continue, so the next call resumes
	// right after what the caller actually saw instead of after the raw page.
	next := ""
	more := len(filtered) > len(page) || resp.NextCursor != nil
	if hasCutoff && more && len(page) > 0 {
		last := page[len(page)-1]
		if encoded, ok := EncodeCursorValue(last.PostedAt, last.ID); ok {
			next = encoded
		} else if resp.NextCursor != nil {
			next = *resp.NextCursor
		}
	} else if resp.NextCursor != nil {
		next = *resp.NextCursor
	}

	return &Page{
		Items:      page,
		NextCursor: next,
		HasMore:    next != "",
		Total:      resp.Total,
		Size:       pageSize,
	}, nil
}
