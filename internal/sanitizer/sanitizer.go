package sanitizer

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vibe-jobs-gateway/pkg/utils"
)

// Tags whose entire subtree is removed.
var blockTags = []string{"script", "style", "iframe", "object", "embed"}

// Void/metadata tags removed outright.
var voidTags = []string{"link", "meta"}

var (
	inlineHandlerPattern = regexp.MustCompile(`(?i)\son[a-z]+=("[^"]*"|'[^']*'|[^\s>]+)`)
	jsURLQuotedPattern   = regexp.MustCompile(`(?i)(href|src)=("|')\s*javascript:[^"']*("|')`)
	jsURLBarePattern     = regexp.MustCompile(`(?i)(href|src)=\s*javascript:[^\s>]+`)
)

// SanitizeJobContent strips dangerous markup from raw job-description HTML so
// it can be injected into a document. Upstream content is often doubly
// encoded, so common entities are decoded before cleaning. The function is
// idempotent, never returns an error, and degrades to a best-effort regex
// strip on markup goquery cannot parse; it must never block rendering.
func SanitizeJobContent(raw string) string {
	if raw == "" {
		return ""
	}
	decoded := decodeEntities(raw)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(decoded))
	if err != nil {
		return stripDangerousMarkup(decoded)
	}

	for _, tag := range blockTags {
		doc.Find(tag).Remove()
	}
	for _, tag := range voidTags {
		doc.Find(tag).Remove()
	}

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		for _, attr := range s.Nodes[0].Attr {
			if strings.HasPrefix(strings.ToLower(attr.Key), "on") {
				s.RemoveAttr(attr.Key)
			}
		}
		for _, name := range []string{"href", "src"} {
			if value, ok := s.Attr(name); ok {
				if strings.HasPrefix(strings.ToLower(strings.TrimSpace(value)), "javascript:") {
					s.SetAttr(name, "#")
				}
			}
		}
		if target, ok := s.Attr("target"); ok && strings.EqualFold(strings.TrimSpace(target), "_blank") {
			rel, _ := s.Attr("rel")
			s.SetAttr("rel", hardenRel(rel))
		}
	})

	cleaned, err := doc.Find("body").Html()
	if err != nil {
		return stripDangerousMarkup(decoded)
	}
	return cleaned
}

// decodeEntities decodes HTML entities one level, mapping non-breaking
// spaces to plain spaces.
func decodeEntities(input string) string {
	decoded := html.UnescapeString(input)
	return strings.ReplaceAll(decoded, "\u00a0", " ")
}

// hardenRel ensures a rel attribute carries both noopener and noreferrer,
// appending without duplicating tokens already present.
func hardenRel(rel string) string {
	tokens := strings.Fields(rel)
	for _, required := range []string{"noopener", "noreferrer"} {
		if !utils.Contains(tokens, required) {
			tokens = append(tokens, required)
		}
	}
	return strings.Join(tokens, " ")
}

// stripDangerousMarkup is the fallback path for unparseable fragments:
// regex removal of dangerous elements, inline handlers and javascript: URLs.
func stripDangerousMarkup(input string) string {
	output := input
	for _, tag := range blockTags {
		pattern := regexp.MustCompile(`(?is)<` + tag + `[^>]*>.*?</` + tag + `>`)
		output = pattern.ReplaceAllString(output, "")
	}
	for _, tag := range voidTags {
		pattern := regexp.MustCompile(`(?i)<` + tag + `[^>]*?>`)
		output = pattern.ReplaceAllString(output, "")
	}
	output = inlineHandlerPattern.ReplaceAllString(output, "")
	output = jsURLQuotedPattern.ReplaceAllString(output, `$1="#"`)
	output = jsURLBarePattern.ReplaceAllString(output, `$1="#"`)
	return output
}
