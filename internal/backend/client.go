package backend

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"vibe-jobs-gateway/internal/config"
	"vibe-jobs-gateway/internal/jobs"
	"vibe-jobs-gateway/internal/logging"
	"vibe-jobs-gateway/pkg/models"
)

// Boundary errors surfaced to callers; the caller decides UI treatment.
var (
	ErrFetchJobs      = errors.New("Failed to fetch jobs")
	ErrFetchJobDetail = errors.New("Failed to fetch job detail")
)

// Client talks to the upstream job backend and normalizes its responses.
// Raw payloads are never trusted past this boundary: every item runs through
// the enrichment normalizer before leaving the client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient creates a backend client from config. The HTTP client can be
// swapped via SetHTTPClient for tests.
func NewClient(cfg *config.Config, logger logging.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.Backend.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Backend.Timeout},
		logger:     logger,
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// FetchJobs requests one page from the upstream list endpoint and returns the
// normalized page envelope.
func (c *Client) FetchJobs(ctx context.Context, query models.JobsQuery) (*models.JobsResponse, error) {
	endpoint := c.baseURL + "/jobs?" + buildQueryValues(query).Encode()

	payload, err := c.getJSON(ctx, endpoint)
	if err != nil {
		c.logger.Warn("Jobs list fetch failed", map[string]any{"error": err.Error()})
		return nil, ErrFetchJobs
	}

	envelope := toRecord(payload)
	items := normalizeItems(fieldOf(envelope, "items"))

	var nextCursor *string
	if s, ok := fieldOf(envelope, "nextCursor").(string); ok {
		nextCursor = &s
	}

	return &models.JobsResponse{
		Items:      items,
		Total:      parseTotal(fieldOf(envelope, "total"), len(items)),
		NextCursor: nextCursor,
		HasMore:    fieldOf(envelope, "hasMore") == true,
		Size:       parseSize(fieldOf(envelope, "size"), len(items)),
	}, nil
}

// FetchJobDetail requests a single job's detail payload and normalizes it,
// using the requested id as a fallback identifier.
func (c *Client) FetchJobDetail(ctx context.Context, id string) (*models.JobDetail, error) {
	endpoint := c.baseURL + "/jobs/" + url.PathEscape(id) + "/detail"

	payload, err := c.getJSON(ctx, endpoint)
	if err != nil {
		c.logger.Warn("Job detail fetch failed", map[string]any{"job_id": id, "error": err.Error()})
		return nil, ErrFetchJobDetail
	}

	detail := jobs.NormalizeJobDetailFromAPI(payload, id)
	return &detail, nil
}

// Ping checks upstream reachability with a minimal list request. Used by the
// readiness probe only.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.getJSON(ctx, c.baseURL+"/jobs?size=1")
	return err
}

func (c *Client) getJSON(ctx context.Context, endpoint string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New("unexpected status " + resp.Status)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func buildQueryValues(query models.JobsQuery) url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set("q", query.Q)
	set("location", query.Location)
	set("company", query.Company)
	set("level", query.Level)
	set("remote", query.Remote)
	set("salaryMin", query.SalaryMin)
	set("datePosted", query.DatePosted)
	set("cursor", query.Cursor)
	if query.SearchDetail {
		values.Set("searchDetail", "true")
	}
	if query.Size > 0 {
		values.Set("size", strconv.Itoa(query.Size))
	}
	return values
}

func normalizeItems(raw any) []models.Job {
	list, ok := raw.([]any)
	if !ok {
		return []models.Job{}
	}
	items := make([]models.Job, 0, len(list))
	for _, entry := range list {
		items = append(items, jobs.NormalizeJobFromAPI(entry))
	}
	return items
}

// parseTotal normalizes the upstream total, which may arrive as a number, a
// numeric string, or not at all. Unparseable or negative values fall back to
// the item count.
func parseTotal(raw any, fallback int) int {
	switch v := raw.(type) {
	case float64:
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0 {
			return int(v)
		}
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil && parsed >= 0 {
				return int(parsed)
			}
		}
	}
	return fallback
}

func parseSize(raw any, fallback int) int {
	if v, ok := raw.(float64); ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return int(v)
	}
	return fallback
}

func toRecord(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func fieldOf(record map[string]any, key string) any {
	if record == nil {
		return nil
	}
	return record[key]
}
