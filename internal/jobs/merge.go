package jobs

import "vibe-jobs-gateway/pkg/models"

// MergeJobWithDetail overlays a fetched detail onto the list-cached job the
// user selected. Detail fields win, except that a detail with no enrichment
// payload must not wipe enrichment data the list already had: the list job's
// summary, skills, highlights and structured data survive when the detail's
// are absent or empty.
func MergeJobWithDetail(selected *models.Job, detail *models.JobDetail) *models.Job {
	if selected == nil {
		return nil
	}
	if detail == nil {
		return selected
	}

	merged := *selected
	merged.ID = detail.ID
	merged.Title = detail.Title
	merged.Company = detail.Company
	merged.Location = detail.Location
	merged.PostedAt = detail.PostedAt
	merged.Content = detail.Content
	merged.Enrichments = detail.Enrichments
	merged.EnrichmentStatus = detail.EnrichmentStatus

	merged.Summary = detail.Summary
	if merged.Summary == nil {
		merged.Summary = selected.Summary
	}
	merged.StructuredData = detail.StructuredData
	if merged.StructuredData == nil {
		merged.StructuredData = selected.StructuredData
	}
	if len(detail.Skills) > 0 {
		merged.Skills = detail.Skills
	}
	if len(detail.Highlights) > 0 {
		merged.Highlights = detail.Highlights
	}
	return &merged
}
