package web

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/bryanwahyu/satyacheck/internal/application/language"
)

// nonContentSelectors lists elements stripped before any text is read.
const nonContentSelectors = "script, style, noscript, template, nav, footer, header, aside, iframe, form, " +
	".ads, .advertisement, .ad, .comments, #comments, .comment-section"

// contentSelectors is the main-content cascade, most specific first.
var contentSelectors = []string{
	"article",
	".article",
	".post",
	".content",
	"main",
	"#content",
	"#main",
	".main-content",
	"[role=main]",
}

const paragraphSelectors = "p, h1, h2, h3, h4, h5, h6"

// Extraction is what the extractor pulls out of one document.
type Extraction struct {
	Title    string
	Text     string
	Metadata map[string]string
	Language string
}

// Extractor turns markup into normalised text. MinContentLength is the
// rune count a selector candidate must exceed; MaxBodyText is the body-text
// ceiling above which only paragraphs and headings are kept.
type Extractor struct {
	MinContentLength int
	MaxBodyText      int
}

func (e Extractor) Extract(body []byte) (Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Extraction{}, fmt.Errorf("parse html: %w", err)
	}

	// metadata and language come from the head, read before stripping
	out := Extraction{
		Title:    extractTitle(doc),
		Metadata: extractMetadata(doc),
		Language: extractLanguage(doc),
	}

	doc.Find(nonContentSelectors).Remove()
	out.Text = e.mainText(doc)
	return out, nil
}

func (e Extractor) mainText(doc *goquery.Document) string {
	for _, sel := range contentSelectors {
		candidate := doc.Find(sel).First()
		if candidate.Length() == 0 {
			continue
		}
		if text := normalizedText(candidate); utf8.RuneCountInString(text) > e.MinContentLength {
			return text
		}
	}

	text := normalizedText(doc.Find("body").First())
	if e.MaxBodyText <= 0 || utf8.RuneCountInString(text) <= e.MaxBodyText {
		return text
	}

	var parts []string
	doc.Find(paragraphSelectors).Each(func(_ int, s *goquery.Selection) {
		if t := normalizedText(s); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return text
	}
	return strings.Join(parts, "\n\n")
}

// normalizedText joins every text node under sel and collapses whitespace, so
// adjacent block elements never run together.
func normalizedText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// extractTitle prefers <title>, then og:title.
func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		return strings.TrimSpace(og)
	}
	return ""
}

// extractMetadata keeps og:* and twitter:* tags under their own prefix plus
// description and keywords. The first occurrence of a key wins.
func extractMetadata(doc *goquery.Document) map[string]string {
	meta := make(map[string]string)
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		content = strings.TrimSpace(content)
		prop := strings.ToLower(strings.TrimSpace(s.AttrOr("property", "")))
		name := strings.ToLower(strings.TrimSpace(s.AttrOr("name", "")))

		var key string
		switch {
		case strings.HasPrefix(prop, "og:"):
			key = prop
		case strings.HasPrefix(name, "twitter:"):
			key = name
		case strings.HasPrefix(prop, "twitter:"):
			key = prop
		case name == "description" || name == "keywords":
			key = name
		default:
			return
		}
		if _, seen := meta[key]; !seen {
			meta[key] = content
		}
	})
	return meta
}

// extractLanguage prefers <html lang> (primary subtag), then the first value
// of a content-language http-equiv meta tag, else en.
func extractLanguage(doc *goquery.Document) string {
	if lang, ok := doc.Find("html").First().Attr("lang"); ok && strings.TrimSpace(lang) != "" {
		return language.Normalize(lang)
	}

	var found string
	doc.Find("meta[http-equiv]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(s.AttrOr("http-equiv", "")), "content-language") {
			return true
		}
		first, _, _ := strings.Cut(s.AttrOr("content", ""), ",")
		found = strings.TrimSpace(first)
		return found == ""
	})
	if found != "" {
		return found
	}
	return language.Default
}
