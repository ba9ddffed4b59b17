package web

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testExtractor = Extractor{MinContentLength: 200, MaxBodyText: 10000}

func articlePage(lang string) string {
	body := strings.Repeat("Officials confirmed the bridge reopened on Monday after repairs. ", 5)
	return `<!doctype html><html lang="` + lang + `"><head>
<title>Bridge reopens</title>
<meta property="og:title" content="Bridge reopens (OG)">
<meta property="og:site_name" content="Daily">
<meta name="twitter:card" content="summary">
<meta name="description" content="A bridge story">
<meta name="keywords" content="bridge,city">
<meta name="author" content="ignored">
<script>var tracking = "SCRIPT TEXT";</script>
</head><body>
<nav>NAV LINKS Home About</nav>
<header>SITE HEADER</header>
<article><h1>Bridge reopens</h1><p>` + body + `</p><div class="ads">BUY NOW</div></article>
<aside>SIDEBAR</aside>
<div class="comments">COMMENT WIDGET</div>
<footer>FOOTER COPYRIGHT</footer>
</body></html>`
}

func TestExtractArticleOnly(t *testing.T) {
	ext, err := testExtractor.Extract([]byte(articlePage("en-GB")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ext.Text, "Bridge reopens Officials confirmed"))
	for _, chrome := range []string{"NAV LINKS", "SITE HEADER", "FOOTER", "SIDEBAR", "COMMENT WIDGET", "BUY NOW", "SCRIPT TEXT"} {
		assert.NotContains(t, ext.Text, chrome)
	}
	assert.Equal(t, "Bridge reopens", ext.Title)
	assert.Equal(t, "en", ext.Language)
}

func TestExtractMetadata(t *testing.T) {
	ext, err := testExtractor.Extract([]byte(articlePage("en")))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"og:title":     "Bridge reopens (OG)",
		"og:site_name": "Daily",
		"twitter:card": "summary",
		"description":  "A bridge story",
		"keywords":     "bridge,city",
	}, ext.Metadata)
}

func TestExtractShortArticleFallsThroughCascade(t *testing.T) {
	long := strings.Repeat("Main body sentence with enough words. ", 10)
	page := `<html><body><article>too short</article><main>` + long + `</main></body></html>`
	ext, err := testExtractor.Extract([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(long), ext.Text)
}

func TestExtractFallsBackToBody(t *testing.T) {
	page := `<html><body><div>Just a short page.</div><p>Second line.</p></body></html>`
	ext, err := testExtractor.Extract([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, "Just a short page. Second line.", ext.Text)
}

func TestExtractOversizedBodyKeepsParagraphs(t *testing.T) {
	junk := strings.Repeat("<span>menu item</span> ", 400)
	page := `<html><body>` + junk + `<h2>Heading</h2><p>First para.</p><p>Second para.</p></body></html>`
	e := Extractor{MinContentLength: 200, MaxBodyText: 1000}
	ext, err := e.Extract([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, "Heading\n\nFirst para.\n\nSecond para.", ext.Text)
}

func TestExtractLanguage(t *testing.T) {
	cases := map[string]string{
		`<html lang="hi-IN"><body>x</body></html>`:                                                      "hi",
		`<html><head><meta http-equiv="Content-Language" content="fr, en"></head><body>x</body></html>`: "fr",
		`<html><body>x</body></html>`:                                                                   "en",
	}
	for page, want := range cases {
		ext, err := testExtractor.Extract([]byte(page))
		require.NoError(t, err)
		assert.Equal(t, want, ext.Language)
	}
}
