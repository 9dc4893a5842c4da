package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibe-jobs-gateway/pkg/models"
)

var loaderNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return loaderNow }

func jobPostedDaysAgo(id string, days int) models.Job {
	return models.Job{
		ID:       id,
		Title:    "job " + id,
		PostedAt: loaderNow.AddDate(0, 0, -days).Format(time.RFC3339),
	}
}

func cursorOf(t *testing.T, job models.Job) string {
	t.Helper()
	cursor, ok := EncodeCursorValue(job.PostedAt, job.ID)
	require.True(t, ok)
	return cursor
}

// recordingFetch captures queries and replays canned responses in order.
type recordingFetch struct {
	mu        sync.Mutex
	queries   []models.JobsQuery
	responses []*models.JobsResponse
	errs      []error
}

func (f *recordingFetch) fetch(_ context.Context, query models.JobsQuery) (*models.JobsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := len(f.queries)
	f.queries = append(f.queries, query)
	if call < len(f.errs) && f.errs[call] != nil {
		return nil, f.errs[call]
	}
	if call < len(f.responses) {
		return f.responses[call], nil
	}
	return &models.JobsResponse{Items: []models.Job{}}, nil
}

func serverCursor(s string) *string { return &s }

func TestLoadPage_NoDateFilterUsesServerCursor(t *testing.T) {
	fetcher := &recordingFetch{
		responses: []*models.JobsResponse{{
			Items:      []models.Job{jobPostedDaysAgo("1", 1), jobPostedDaysAgo("2", 2)},
			Total:      20,
			NextCursor: serverCursor("srv-cursor"),
			HasMore:    true,
		}},
	}

	page, err := LoadPage(context.Background(), fetcher.fetch, PageRequest{
		Query:    models.JobsQuery{Q: "golang"},
		PageSize: 2,
		Now:      fixedClock,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.queries[0].Size, "no over-fetch without a date filter")
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "srv-cursor", page.NextCursor)
	assert.True(t, page.HasMore)
	assert.Equal(t, 20, page.Total)
}

func TestLoadPage_DateFilterOverFetchesAndSynthesizesCursor(t *testing.T) {
	items := []models.Job{
		jobPostedDaysAgo("1", 1),
		jobPostedDaysAgo("2", 5), // outside the 3-day window
		jobPostedDaysAgo("3", 2),
		jobPostedDaysAgo("4", 2),
	}
	fetcher := &recordingFetch{
		responses: []*models.JobsResponse{{
			Items:      items,
			NextCursor: serverCursor("srv-cursor"),
			HasMore:    true,
		}},
	}

	page, err := LoadPage(context.Background(), fetcher.fetch, PageRequest{
		Query:    models.JobsQuery{DatePosted: "3"},
		PageSize: 2,
		Now:      fixedClock,
	})
	require.NoError(t, err)

	assert.Equal(t, 2*DateFilterSizeMultiplier, fetcher.queries[0].Size)
	require.Len(t, page.Items, 2)
	assert.Equal(t, []string{"1", "3"}, []string{page.Items[0].ID, page.Items[1].ID})
	// One filtered item remains beyond the page, so the cursor points at the
	// last returned item rather than the server's cursor.
	assert.Equal(t, cursorOf(t, page.Items[1]), page.NextCursor)
	assert.True(t, page.HasMore)
}

func TestLoadPage_DateFilterPrefersLocalCursorOverServer(t *testing.T) {
	// No local overflow, but the server can paginate further. The synthesized
	// cursor still wins so the next fetch resumes after the last kept item,
	// not after the raw page that included filtered-out entries.
	items := []models.Job{
		jobPostedDaysAgo("1", 1),
		jobPostedDaysAgo("2", 9), // filtered out
	}
	fetcher := &recordingFetch{
		responses: []*models.JobsResponse{{
			Items:      items,
			NextCursor: serverCursor("srv-cursor"),
		}},
	}

	page, err := LoadPage(context.Background(), fetcher.fetch, PageRequest{
		Query:    models.JobsQuery{DatePosted: "3"},
		PageSize: 2,
		Now:      fixedClock,
	})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, cursorOf(t, page.Items[0]), page.NextCursor)
	assert.True(t, page.HasMore)
}

func TestLoadPage_DateFilterFallsBackToServerCursor(t *testing.T) {
	// Local cursor synthesis needs a numeric id; "abc" forces the fallback.
	overflow := []models.Job{
		jobPostedDaysAgo("1", 1),
		jobPostedDaysAgo("abc", 1),
		jobPostedDaysAgo("3", 2),
	}
	fetcher := &recordingFetch{
		responses: []*models.JobsResponse{{
			Items:      overflow,
			NextCursor: serverCursor("srv-cursor"),
		}},
	}

	page, err := LoadPage(context.Background(), fetcher.fetch, PageRequest{
		Query:    models.JobsQuery{DatePosted: "3"},
		PageSize: 2,
		Now:      fixedClock,
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-cursor", page.NextCursor)
}

func TestLoadPage_ShortPageWithoutServerCursorEndsPagination(t *testing.T) {
	fetcher := &recordingFetch{
		responses: []*models.JobsResponse{{
			Items: []models.Job{jobPostedDaysAgo("1", 1), jobPostedDaysAgo("2", 9)},
		}},
	}

	page, err := LoadPage(context.Background(), fetcher.fetch, PageRequest{
		Query:    models.JobsQuery{DatePosted: "3"},
		PageSize: 5,
		Now:      fixedClock,
	})
	require.NoError(t, err)

	// Short page is allowed; no refill fetch is attempted.
	assert.Len(t, page.Items, 1)
	assert.Empty(t, page.NextCursor)
	assert.False(t, page.HasMore)
	fetcher.mu.Lock()
	assert.Len(t, fetcher.queries, 1)
	fetcher.mu.Unlock()
}

func TestListLoader_RefreshThenLoadMore(t *testing.T) {
	firstPage := []models.Job{jobPostedDaysAgo("1", 1), jobPostedDaysAgo("2", 1), jobPostedDaysAgo("3", 2)}
	secondPage := []models.Job{jobPostedDaysAgo("4", 2)}
	fetcher := &recordingFetch{
		responses: []*models.JobsResponse{
			{Items: firstPage, NextCursor: serverCursor("ignored")},
			{Items: secondPage},
		},
	}

	var resetPages [][]models.Job
	loader := NewListLoader(fetcher.fetch, ListLoaderOptions{
		Query:    "  golang  ",
		Location: "Shanghai",
		Filters:  ListFilters{"datePosted": "3", "level": "senior"},
		PageSize: 2,
		Now:      fixedClock,
		OnReset:  func(jobs []models.Job) { resetPages = append(resetPages, jobs) },
	})

	require.NoError(t, loader.Refresh(context.Background()))
	assert.Len(t, loader.Jobs(), 2)
	assert.True(t, loader.HasMore())
	require.Len(t, resetPages, 1)
	assert.Len(t, resetPages[0], 2)

	query := fetcher.queries[0]
	assert.Equal(t, "golang", query.Q)
	assert.True(t, query.SearchDetail)
	assert.Equal(t, "Shanghai", query.Location)
	assert.Equal(t, "senior", query.Level)
	assert.Equal(t, "3", query.DatePosted)
	assert.Empty(t, query.Cursor)

	expectedCursor := loader.NextCursor()
	require.NoError(t, loader.LoadMore(context.Background()))
	assert.Equal(t, expectedCursor, fetcher.queries[1].Cursor, "cursors must be applied in fetch order")

	jobs := loader.Jobs()
	require.Len(t, jobs, 3)
	assert.Equal(t, "4", jobs[2].ID)
	assert.False(t, loader.HasMore())
	assert.Nil(t, loader.Err())
}

func TestListLoader_LoadMoreWithoutCursorIsNoop(t *testing.T) {
	fetcher := &recordingFetch{
		responses: []*models.JobsResponse{{Items: []models.Job{jobPostedDaysAgo("1", 1)}}},
	}
	loader := NewListLoader(fetcher.fetch, ListLoaderOptions{PageSize: 2, Now: fixedClock})

	require.NoError(t, loader.Refresh(context.Background()))
	require.NoError(t, loader.LoadMore(context.Background()))

	fetcher.mu.Lock()
	assert.Len(t, fetcher.queries, 1, "exhausted pagination must not refetch")
	fetcher.mu.Unlock()
}

func TestListLoader_ResetErrorClearsJobs(t *testing.T) {
	bang := errors.New("backend down")
	fetcher := &recordingFetch{
		responses: []*models.JobsResponse{
			{Items: []models.Job{jobPostedDaysAgo("1", 1)}, NextCursor: serverCursor("next")},
			nil,
		},
		errs: []error{nil, bang},
	}
	loader := NewListLoader(fetcher.fetch, ListLoaderOptions{PageSize: 2, Now: fixedClock})

	require.NoError(t, loader.Refresh(context.Background()))
	require.Len(t, loader.Jobs(), 1)

	err := loader.Refresh(context.Background())
	require.ErrorIs(t, err, bang)
	assert.Empty(t, loader.Jobs())
	assert.False(t, loader.HasMore())
	assert.ErrorIs(t, loader.Err(), bang)
}

func TestListLoader_AppendErrorKeepsJobs(t *testing.T) {
	bang := errors.New("backend down")
	fetcher := &recordingFetch{
		responses: []*models.JobsResponse{
			{Items: []models.Job{jobPostedDaysAgo("1", 1)}, NextCursor: serverCursor("next")},
			nil,
		},
		errs: []error{nil, bang},
	}
	loader := NewListLoader(fetcher.fetch, ListLoaderOptions{PageSize: 2, Now: fixedClock})

	require.NoError(t, loader.Refresh(context.Background()))
	err := loader.LoadMore(context.Background())
	require.ErrorIs(t, err, bang)

	assert.Len(t, loader.Jobs(), 1, "append failures must not clear loaded jobs")
	assert.False(t, loader.HasMore())
}

func TestListLoader_ReentrantLoadMoreSuppressed(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex

	fetch := func(_ context.Context, _ models.JobsQuery) (*models.JobsResponse, error) {
		mu.Lock()
		calls++
		second := calls == 2
		mu.Unlock()
		if second {
			close(started)
			<-release
		}
		return &models.JobsResponse{
			Items:      []models.Job{jobPostedDaysAgo("1", 1)},
			NextCursor: serverCursor("next"),
		}, nil
	}

	loader := NewListLoader(fetch, ListLoaderOptions{PageSize: 2, Now: fixedClock})
	require.NoError(t, loader.Refresh(context.Background()))

	done := make(chan error, 1)
	go func() { done <- loader.LoadMore(context.Background()) }()
	<-started

	// A second LoadMore while the first is in flight must be ignored.
	require.NoError(t, loader.LoadMore(context.Background()))
	close(release)
	require.NoError(t, <-done)

	mu.Lock()
	assert.Equal(t, 2, calls, "refresh + one load-more; the reentrant call is dropped")
	mu.Unlock()
}

func TestListLoader_StaleFetchDiscardedAfterReset(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	calls := 0
	var mu sync.Mutex

	fetch := func(_ context.Context, _ models.JobsQuery) (*models.JobsResponse, error) {
		mu.Lock()
		calls++
		call := calls
		mu.Unlock()
		if call == 1 {
			close(firstStarted)
			<-releaseFirst
			return &models.JobsResponse{Items: []models.Job{jobPostedDaysAgo("stale", 1)}}, nil
		}
		return &models.JobsResponse{Items: []models.Job{jobPostedDaysAgo("fresh", 1)}}, nil
	}

	loader := NewListLoader(fetch, ListLoaderOptions{PageSize: 2, Now: fixedClock})

	done := make(chan error, 1)
	go func() { done <- loader.Refresh(context.Background()) }()
	<-firstStarted

	// A newer reset supersedes the in-flight one.
	require.NoError(t, loader.Refresh(context.Background()))
	close(releaseFirst)
	require.NoError(t, <-done)

	jobs := loader.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "fresh", jobs[0].ID, "a stale response must not overwrite newer state")
}
