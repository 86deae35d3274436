package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const samplePage = `<!doctype html>
<html>
<head>
	<title>Fallback Title</title>
	<meta property="og:title" content="Night Drive &amp; Friends">
	<meta content="Tour dates &quot;2026&quot;" property="og:description">
	<meta name="description" content="plain description">
	<meta property="og:image" content="https://cdn.example.com/cover.jpg">
	<link rel="icon" href="/favicon.png">
</head>
<body><title>not this</title></body>
</html>`

func TestRegexExtractor(t *testing.T) {
	meta := RegexExtractor{}.Extract(samplePage)

	assert.Equal(t, "Night Drive & Friends", meta.Title)
	assert.Equal(t, `Tour dates "2026"`, meta.Description)
	assert.Equal(t, "https://cdn.example.com/cover.jpg", meta.Image)
	assert.Equal(t, "/favicon.png", meta.Favicon)
}

func TestRegexExtractor_Fallbacks(t *testing.T) {
	meta := RegexExtractor{}.Extract(`<head>
		<TITLE> It&#39;s a title </TITLE>
		<meta name="description" content="desc">
		<link href="/s.ico" rel="shortcut icon">
	</head>`)

	assert.Equal(t, "It's a title", meta.Title)
	assert.Equal(t, "desc", meta.Description)
	assert.Equal(t, "/s.ico", meta.Favicon)
	assert.Empty(t, meta.Image)
}

func TestRegexExtractor_QuoteStyles(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   Meta
	}{
		{
			name: "apostrophes inside double quotes",
			markup: `<meta property="og:title" content="Drake's New Album">
				<meta name="description" content="It's out now">
				<link rel="icon" href="/it's.ico">`,
			want: Meta{Title: "Drake's New Album", Description: "It's out now", Favicon: "/it's.ico"},
		},
		{
			name: "double quotes inside single quotes",
			markup: `<meta content='The "Lost" Tapes' property='og:title'>
				<meta content='Say "hi"' name='description'>
				<link href='/fav.png' rel='icon'>`,
			want: Meta{Title: `The "Lost" Tapes`, Description: `Say "hi"`, Favicon: "/fav.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RegexExtractor{}.Extract(tt.markup))
			assert.Equal(t, tt.want, HTMLExtractor{}.Extract(tt.markup))
		})
	}
}

func TestRegexExtractor_Empty(t *testing.T) {
	assert.Equal(t, Meta{}, RegexExtractor{}.Extract("<html></html>"))
}

func TestHTMLExtractor(t *testing.T) {
	meta := HTMLExtractor{}.Extract(samplePage)

	assert.Equal(t, "Night Drive & Friends", meta.Title)
	assert.Equal(t, `Tour dates "2026"`, meta.Description)
	assert.Equal(t, "https://cdn.example.com/cover.jpg", meta.Image)
	assert.Equal(t, "/favicon.png", meta.Favicon)
}

func TestHTMLExtractor_TitleTag(t *testing.T) {
	meta := HTMLExtractor{}.Extract(`<html><head><title>Only Title</title><meta name="Description" content="d"></head></html>`)

	assert.Equal(t, "Only Title", meta.Title)
	assert.Equal(t, "d", meta.Description)
}

func TestNewExtractor(t *testing.T) {
	assert.IsType(t, HTMLExtractor{}, NewExtractor("html"))
	assert.IsType(t, RegexExtractor{}, NewExtractor("regex"))
	assert.IsType(t, RegexExtractor{}, NewExtractor(""))
}
