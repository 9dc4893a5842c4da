package jobs

import (
	"context"
	"strings"
	"sync"
	"time"

	"vibe-jobs-gateway/pkg/models"
)

// ListFilters are the user-facing list filters, keyed by filter name
// (company, level, remote, salaryMin, datePosted).
type ListFilters map[string]string

// ListLoaderOptions configures a ListLoader for one browsing session.
type ListLoaderOptions struct {
	Query    string
	Location string
	Filters  ListFilters
	PageSize int
	// OnReset is invoked with the fresh page after every successful reset,
	// so the embedding UI can re-select a default job.
	OnReset func([]models.Job)
	// Now is the clock used for date-cutoff computation; defaults to time.Now.
	Now func() time.Time
}

// ListLoader accumulates date-filtered job pages across repeated "load more"
// calls within one browsing session. It owns the merged job list, the next
// cursor and the loading/error state; the fetch function and clock are
// injected so tests control network and time. A new query means a new loader.
type ListLoader struct {
	fetch    FetchFunc
	query    string
	location string
	filters  ListFilters
	pageSize int
	onReset  func([]models.Job)
	now      func() time.Time

	mu             sync.Mutex
	jobs           []models.Job
	nextCursor     string
	hasMore        bool
	loading        bool
	initialLoading bool
	err            error
	// generation invalidates in-flight fetches: a reset bumps it, and any
	// older fetch that resolves afterwards is discarded without touching
	// state, so a stale response can never corrupt the cursor chain.
	generation uint64
}

// NewListLoader creates a loader bound to one query/filter combination.
func NewListLoader(fetch FetchFunc, opts ListLoaderOptions) *ListLoader {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ListLoader{
		fetch:    fetch,
		query:    strings.TrimSpace(opts.Query),
		location: strings.TrimSpace(opts.Location),
		filters:  opts.Filters,
		pageSize: pageSize,
		onReset:  opts.OnReset,
		now:      now,
		hasMore:  true,
	}
}

// Refresh discards the accumulated list and loads the first page. Any fetch
// still in flight from before the refresh is invalidated.
func (l *ListLoader) Refresh(ctx context.Context) error {
	return l.load(ctx, "", true)
}

// LoadMore appends the next page. It is a no-op while a load is in flight or
// when no cursor is available, so callers may invoke it freely from scroll
// handlers without queueing duplicate fetches.
func (l *ListLoader) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.loading || l.nextCursor == "" {
		l.mu.Unlock()
		return nil
	}
	cursor := l.nextCursor
	l.mu.Unlock()
	return l.load(ctx, cursor, false)
}

func (l *ListLoader) load(ctx context.Context, cursor string, reset bool) error {
	l.mu.Lock()
	if reset {
		l.generation++
	}
	gen := l.generation
	l.loading = true
	if reset {
		l.initialLoading = true
	}
	l.err = nil
	req := PageRequest{
		Query:    l.buildQuery(),
		PageSize: l.pageSize,
		Cursor:   cursor,
		Now:      l.now,
	}
	l.mu.Unlock()

	page, err := LoadPage(ctx, l.fetch, req)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		// Superseded by a newer reset; the newer load owns all state.
		return nil
	}
	l.loading = false
	if reset {
		l.initialLoading = false
	}
	if err != nil {
		l.err = err
		if reset {
			l.jobs = nil
		}
		l.nextCursor = ""
		l.hasMore = false
		return err
	}

	if reset {
		l.jobs = append([]models.Job(nil), page.Items...)
	} else {
		l.jobs = append(l.jobs, page.Items...)
	}
	l.nextCursor = page.NextCursor
	l.hasMore = page.HasMore
	if reset && l.onReset != nil {
		l.onReset(append([]models.Job(nil), page.Items...))
	}
	return nil
}

func (l *ListLoader) buildQuery() models.JobsQuery {
	query := models.JobsQuery{
		Location: l.location,
	}
	if l.query != "" {
		query.Q = l.query
		query.SearchDetail = true
	}
	for key, value := range l.filters {
		if value == "" {
			continue
		}
		switch key {
		case "company":
			query.Company = value
		case "level":
			query.Level = value
		case "remote":
			query.Remote = value
		case "salaryMin":
			query.SalaryMin = value
		case "datePosted":
			query.DatePosted = value
		}
	}
	return query
}

// Jobs returns a copy of the accumulated job list.
func (l *ListLoader) Jobs() []models.Job {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Job(nil), l.jobs...)
}

// SetJobs replaces the accumulated list, for callers that mutate a selected
// job in place (e.g. after merging a fetched detail).
func (l *ListLoader) SetJobs(jobs []models.Job) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jobs = append([]models.Job(nil), jobs...)
}

// NextCursor returns the cursor the next LoadMore would use, or "" when
// pagination is exhausted.
func (l *ListLoader) NextCursor() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nextCursor
}

// HasMore reports whether another page is believed to be available.
func (l *ListLoader) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

// IsLoading reports whether any load is in flight.
func (l *ListLoader) IsLoading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// IsInitialLoading reports whether a reset load is in flight.
func (l *ListLoader) IsInitialLoading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initialLoading
}

// Err returns the error from the most recent load, if any.
func (l *ListLoader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
