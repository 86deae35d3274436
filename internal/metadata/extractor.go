package metadata

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Meta holds whatever an extractor could find in a document. Empty strings
// mean "not found".
type Meta struct {
	Title       string
	Description string
	Image       string
	Favicon     string
}

// MetaExtractor pulls link-preview fields out of raw markup.
type MetaExtractor interface {
	Extract(markup string) Meta
}

// NewExtractor picks a strategy by name; anything other than "html" gets the
// regex extractor.
func NewExtractor(name string) MetaExtractor {
	if name == "html" {
		return HTMLExtractor{}
	}
	return RegexExtractor{}
}

// quotedValue captures an attribute value in either quote style. A value in
// double quotes may contain apostrophes and vice versa.
const quotedValue = `(?:"([^"]*)"|'([^']*)')`

// attrPatterns matches tag elements carrying selector and captures the
// target attribute, in either attribute order.
func attrPatterns(tag, selector, target string) []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(?is)<` + tag + `[^>]+` + selector + `[^>]+` + target + `=` + quotedValue),
		regexp.MustCompile(`(?is)<` + tag + `[^>]+` + target + `=` + quotedValue + `[^>]+` + selector),
	}
}

var (
	ogTitleRe  = attrPatterns("meta", `property=["']og:title["']`, "content")
	titleTagRe = regexp.MustCompile(`(?is)<title[^>]*>([^<]*)</title>`)

	ogDescriptionRe = attrPatterns("meta", `property=["']og:description["']`, "content")
	descriptionRe   = attrPatterns("meta", `name=["']description["']`, "content")
	ogImageRe       = attrPatterns("meta", `property=["']og:image["']`, "content")
	iconRe          = attrPatterns("link", `rel=["'](?:shortcut )?icon["']`, "href")

	entityReplacer = strings.NewReplacer("&amp;", "&", "&quot;", `"`, "&#39;", "'")
)

// RegexExtractor matches the handful of tags link previews need without
// building a DOM.
type RegexExtractor struct{}

func (RegexExtractor) Extract(markup string) Meta {
	title := firstMatch(markup, ogTitleRe...)
	if title == "" {
		title = firstMatch(markup, titleTagRe)
	}

	description := firstMatch(markup, ogDescriptionRe...)
	if description == "" {
		description = firstMatch(markup, descriptionRe...)
	}

	return Meta{
		Title:       title,
		Description: description,
		Image:       firstMatch(markup, ogImageRe...),
		Favicon:     firstMatch(markup, iconRe...),
	}
}

func firstMatch(markup string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(markup)
		if m == nil {
			continue
		}
		for _, group := range m[1:] {
			if v := unescape(group); v != "" {
				return v
			}
		}
	}
	return ""
}

func unescape(s string) string {
	return strings.TrimSpace(entityReplacer.Replace(s))
}

// HTMLExtractor walks the token stream with x/net/html, which copes with
// attribute order and entity forms the regexes miss.
type HTMLExtractor struct{}

func (HTMLExtractor) Extract(markup string) Meta {
	var (
		meta      Meta
		ogTitle   string
		titleText string
		ogDesc    string
		nameDesc  string
		inTitle   bool
		done      bool
		tokenizer = html.NewTokenizer(strings.NewReader(markup))
	)

	for !done {
		switch tokenizer.Next() {
		case html.ErrorToken:
			done = true
		case html.TextToken:
			if inTitle && titleText == "" {
				titleText = strings.TrimSpace(string(tokenizer.Text()))
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "title":
				inTitle = false
			case "head":
				done = true
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			attrs := map[string]string{}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = tokenizer.TagAttr()
				attrs[strings.ToLower(string(key))] = strings.TrimSpace(string(val))
			}

			switch string(name) {
			case "title":
				inTitle = true
			case "meta":
				content := attrs["content"]
				switch {
				case attrs["property"] == "og:title" && ogTitle == "":
					ogTitle = content
				case attrs["property"] == "og:description" && ogDesc == "":
					ogDesc = content
				case attrs["property"] == "og:image" && meta.Image == "":
					meta.Image = content
				case strings.EqualFold(attrs["name"], "description") && nameDesc == "":
					nameDesc = content
				}
			case "link":
				rel := strings.ToLower(attrs["rel"])
				if (rel == "icon" || rel == "shortcut icon") && meta.Favicon == "" {
					meta.Favicon = attrs["href"]
				}
			}
		}
	}

	meta.Title = ogTitle
	if meta.Title == "" {
		meta.Title = titleText
	}
	meta.Description = ogDesc
	if meta.Description == "" {
		meta.Description = nameDesc
	}
	return meta
}
