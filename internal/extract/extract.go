// Package extract turns fetched HTML pages into clean text suitable for
// classification. It pairs go-readability main-content extraction with an
// HTML-to-Markdown conversion pass so that navigation chrome and markup noise
// never reach the normalizer.
package extract

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// MainText extracts the main article content from an HTML page and returns it
// as clean Markdown text. baseURL gives readability context for resolving
// relative links; nil is accepted.
func MainText(content io.Reader, baseURL *url.URL) (string, error) {
	if baseURL == nil {
		baseURL = &url.URL{}
	}

	article, err := readability.FromReader(content, baseURL)
	if err != nil {
		return "", fmt.Errorf("extracting main content: %w", err)
	}

	return htmlToText(article.Content)
}

// SelectorText extracts the content matching a CSS selector and returns it as
// clean text. Used when a caller knows exactly which page region to classify.
func SelectorText(content io.Reader, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("no elements found matching selector %q", selector)
	}

	var parts []string
	selection.Each(func(i int, s *goquery.Selection) {
		html, err := s.Html()
		if err == nil {
			tag := goquery.NodeName(s)
			parts = append(parts, fmt.Sprintf("<%s>%s</%s>", tag, html, tag))
		}
	})
	if len(parts) == 0 {
		return "", fmt.Errorf("failed to extract HTML from selection")
	}

	return htmlToText(strings.Join(parts, "\n"))
}

// htmlToText converts an HTML fragment to trimmed Markdown text.
func htmlToText(htmlString string) (string, error) {
	converter := md.NewConverter("", true, nil)

	converter.Use(md.Plugin(func(c *md.Converter) []md.Rule {
		return []md.Rule{
			{
				Filter: []string{"*"},
				Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
					cleaned := strings.TrimSpace(content)
					result := strings.ReplaceAll(cleaned, "\n\n\n", "\n\n")
					return &result
				},
			},
		}
	}))

	text, err := converter.ConvertString(htmlString)
	if err != nil {
		return "", fmt.Errorf("converting HTML: %w", err)
	}

	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "\n\n\n", "\n\n")
	return cleaned, nil
}
