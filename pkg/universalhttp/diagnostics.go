package universalhttp

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxSnippetBytes  = 512
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
)

type pageSummary struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippetBytes {
		return s[:maxSnippetBytes] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// summarizeHTML extracts the title of an HTML page, typically a proxy or
// gateway error page returned where JSON was expected.
func summarizeHTML(header http.Header, body []byte) (pageSummary, bool) {
	if !looksLikeHTML(header, body) {
		return pageSummary{}, false
	}
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageSummary{}, false
	}

	meta := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	ps := pageSummary{
		Title: firstNonEmpty(
			strings.TrimSpace(doc.Find("title").First().Text()),
			strings.TrimSpace(doc.Find("h1").First().Text()),
		),
		Description: meta(`meta[name="description"]`),
	}
	if ps.Title == "" && ps.Description == "" {
		return pageSummary{}, false
	}
	return ps, true
}

func looksLikeHTML(header http.Header, body []byte) bool {
	if strings.Contains(strings.ToLower(header.Get("Content-Type")), "text/html") {
		return true
	}
	head := bytes.TrimSpace(body)
	if len(head) > 32 {
		head = head[:32]
	}
	head = bytes.ToLower(head)
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// responseFields is the structured payload logged for a received response.
func responseFields(method, url string, status *int, header http.Header, body []byte, full bool) map[string]any {
	fields := map[string]any{
		"method": method,
		"url":    url,
	}
	if status != nil {
		fields["status_code"] = *status
	}
	if full {
		fields["body"] = string(body)
	} else {
		fields["body_snippet"] = bodySnippet(body)
	}
	if page, ok := summarizeHTML(header, body); ok {
		fields["html_page"] = page
	}
	return fields
}
