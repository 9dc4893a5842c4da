package jobs

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"vibe-jobs-gateway/pkg/models"
)

// NormalizeJobFromAPI converts a raw upstream list item into a canonical Job.
// The raw payload is untrusted: enrichment fields may live at the top level
// or nested under "enrichments", every field may be missing or mistyped, and
// one bad record must never break a list render, so all coercions fail to
// safe defaults instead of returning errors.
func NormalizeJobFromAPI(raw any) models.Job {
	item := toRecord(raw)
	enrichments, status := extractEnrichment(item)
	ready := isEnrichmentReady(status)

	var summary *string
	if ready {
		if s, ok := toStringValue(field(enrichments, "summary")); ok {
			summary = &s
		} else if s, ok := toStringValue(field(item, "summary")); ok {
			summary = &s
		}
	}

	var skills, highlights []string
	if ready {
		skills = toStringArray(field(enrichments, "skills"))
		if len(skills) == 0 {
			skills = toStringArray(field(item, "skills"))
		}
		highlights = toStringArray(field(enrichments, "highlights"))
		if len(highlights) == 0 {
			highlights = toStringArray(field(item, "highlights"))
		}
	}

	var structured *string
	if ready {
		structured = toJSONString(structuredSource(item, enrichments))
	}

	var level *string
	if s, ok := toStringValue(field(item, "level")); ok {
		level = &s
	}

	return models.Job{
		ID:               coerceIdentifier(field(item, "id"), ""),
		Title:            stringOrEmpty(field(item, "title")),
		Company:          stringOrEmpty(field(item, "company")),
		Location:         stringOrEmpty(field(item, "location")),
		Level:            level,
		PostedAt:         stringOrEmpty(field(item, "postedAt")),
		Tags:             toStringArray(field(item, "tags")),
		URL:              stringOrEmpty(field(item, "url")),
		Enrichments:      enrichments,
		EnrichmentStatus: status,
		Summary:          summary,
		Skills:           skills,
		Highlights:       highlights,
		StructuredData:   structured,
		DetailMatch:      truthy(field(item, "detailMatch")),
	}
}

// NormalizeJobDetailFromAPI converts a raw upstream detail payload into a
// canonical JobDetail. fallbackID is used when the payload carries no id of
// its own, so the record stays addressable by the id it was fetched under.
func NormalizeJobDetailFromAPI(raw any, fallbackID string) models.JobDetail {
	detail := toRecord(raw)
	enrichments, status := extractEnrichment(detail)
	ready := isEnrichmentReady(status)

	var summary *string
	if ready {
		if s, ok := toStringValue(field(enrichments, "summary")); ok {
			summary = &s
		} else if s, ok := toStringValue(field(detail, "summary")); ok {
			summary = &s
		}
	}

	var skills, highlights []string
	if ready {
		skills = toStringArray(field(enrichments, "skills"))
		if len(skills) == 0 {
			skills = toStringArray(field(detail, "skills"))
		}
		highlights = toStringArray(field(enrichments, "highlights"))
		if len(highlights) == 0 {
			highlights = toStringArray(field(detail, "highlights"))
		}
	}

	var structured *string
	if ready {
		structured = toJSONString(structuredSource(detail, enrichments))
	}

	content := ""
	if s, ok := field(detail, "content").(string); ok {
		content = s
	}

	return models.JobDetail{
		ID:               coerceIdentifier(field(detail, "id"), fallbackID),
		Title:            stringOrEmpty(field(detail, "title")),
		Company:          stringOrEmpty(field(detail, "company")),
		Location:         stringOrEmpty(field(detail, "location")),
		PostedAt:         stringOrEmpty(field(detail, "postedAt")),
		Content:          content,
		Enrichments:      enrichments,
		EnrichmentStatus: status,
		Summary:          summary,
		Skills:           skills,
		Highlights:       highlights,
		StructuredData:   structured,
	}
}

// extractEnrichment pulls the enrichment bag and its status from a raw
// record. A well-formed top-level enrichmentStatus always wins over a status
// nested inside the enrichments bag.
func extractEnrichment(item map[string]any) (enrichments, status map[string]any) {
	enrichments = toRecord(field(item, "enrichments"))
	status = toRecord(field(item, "enrichmentStatus"))
	if status == nil {
		status = toRecord(field(enrichments, "status"))
	}
	return enrichments, status
}

// isEnrichmentReady gates enrichment-derived fields on an explicit SUCCESS
// state. Anything else, including an absent status, means the enrichment is
// still pending or failed and its fields must be treated as unavailable.
func isEnrichmentReady(status map[string]any) bool {
	if status == nil {
		return false
	}
	state, ok := toStringValue(status["state"])
	if !ok {
		return false
	}
	return strings.ToUpper(state) == "SUCCESS"
}

// structuredSource selects the raw structured-data value: the enrichments
// bag's "structured_data" key when present (even if null), else the
// top-level "structuredData".
func structuredSource(item, enrichments map[string]any) any {
	if enrichments != nil {
		if v, ok := enrichments["structured_data"]; ok {
			return v
		}
	}
	return field(item, "structuredData")
}

// toRecord returns the value as a plain object, or nil for anything else
// (arrays included).
func toRecord(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func field(record map[string]any, key string) any {
	if record == nil {
		return nil
	}
	return record[key]
}

// toStringValue coerces strings (trimmed, non-empty), numbers and booleans to
// a string. Everything else reports ok=false.
func toStringValue(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		trimmed := strings.TrimSpace(val)
		return trimmed, trimmed != ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	}
	return "", false
}

func stringOrEmpty(v any) string {
	s, ok := toStringValue(v)
	if !ok {
		return ""
	}
	return s
}

// toStringArray coerces a raw value into a list of trimmed, non-empty,
// de-duplicated strings, preserving first-occurrence order. Non-array input
// yields an empty list.
func toStringArray(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	result := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		s, ok := toStringValue(item)
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		result = append(result, s)
	}
	return result
}

// toJSONString renders a raw value as a JSON string. Strings pass through
// trimmed, nil yields nil, and marshal failures yield nil rather than an
// error so the type boundary stays a plain string for consumers that persist
// or diff the value.
func toJSONString(v any) *string {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return nil
		}
		return &trimmed
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// coerceIdentifier stringifies an id value without trimming, falling back
// when the payload carries none.
func coerceIdentifier(v any, fallback string) string {
	switch val := v.(type) {
	case nil:
		return fallback
	case string:
		if val == "" {
			return fallback
		}
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// truthy mirrors loose boolean coercion for flag fields arriving from
// dynamically typed upstream payloads.
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case nil:
		return false
	default:
		return true
	}
}
