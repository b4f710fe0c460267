package crawler

import (
	"bytes"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	profileLinkRe = regexp.MustCompile(`/(?:en/)?persons/[\w-]+`)
	yearRe        = regexp.MustCompile(`(19|20)\d{2}`)
	authorSplitRe = regexp.MustCompile(`[,&;]`)
	keywordsRe    = regexp.MustCompile(`(?i)keywords`)
)

// publicationSummary is the listing-page view of a publication: enough to
// enqueue the detail page, not yet a full document.
type publicationSummary struct {
	Title      string
	Authors    []string
	Year       string
	URL        string
	ProfileURL string
}

// publicationDetail holds the fields only present on the detail page.
type publicationDetail struct {
	Abstract string
	Keywords []string
}

func parseHTML(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// profileLinks extracts author profile URLs from a listing page. Only
// same-host links matching the persons path survive; the result is sorted
// and deduplicated for deterministic traversal order.
func profileLinks(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !profileLinkRe.MatchString(href) {
			return
		}
		resolved, err := resolveURL(base, href)
		if err != nil {
			return
		}
		if resolved.Host != base.Host {
			return
		}
		seen[resolved.String()] = struct{}{}
	})

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}

// authorName extracts the profile owner's display name.
func authorName(doc *goquery.Document) string {
	name := strings.TrimSpace(doc.Find(".header h1, .header h2, h1").First().Text())
	if name == "" {
		return "Unknown Author"
	}
	return name
}

// publicationSummaries extracts listing entries from a profile (or
// paginated listing) page. The profile owner is the fallback author when
// the container carries no author line.
func publicationSummaries(doc *goquery.Document, base *url.URL, profileURL, owner string) []publicationSummary {
	var summaries []publicationSummary

	containers := doc.Find(".list-results .result-container, .list-results .result-item, .rendering_researchoutput, article.publication")
	containers.Each(func(_ int, container *goquery.Selection) {
		title := strings.TrimSpace(container.Find(".title, .title a").First().Text())
		if title == "" {
			return
		}

		pubURL := profileURL
		if href, ok := container.Find("a.link, .title a").First().Attr("href"); ok {
			if resolved, err := resolveURL(base, href); err == nil {
				pubURL = resolved.String()
			}
		}

		year := ""
		if dateText := container.Find(".date, .year").First().Text(); dateText != "" {
			year = yearRe.FindString(dateText)
		}

		authors := []string{owner}
		if authorsText := strings.TrimSpace(container.Find(".authors").First().Text()); authorsText != "" {
			authors = splitAuthors(authorsText)
		}

		summaries = append(summaries, publicationSummary{
			Title:      title,
			Authors:    authors,
			Year:       year,
			URL:        pubURL,
			ProfileURL: profileURL,
		})
	})

	return summaries
}

// nextPageLink returns the resolved pagination link, or "" when the
// listing has no further pages.
func nextPageLink(doc *goquery.Document, base *url.URL) string {
	href, ok := doc.Find(".nextLink").First().Attr("href")
	if !ok || href == "" {
		return ""
	}
	resolved, err := resolveURL(base, href)
	if err != nil {
		return ""
	}
	return resolved.String()
}

// publicationDetails extracts the abstract and keyword set from a
// publication detail page. Abstract candidates that look like portal
// chrome are discarded.
func publicationDetails(doc *goquery.Document) publicationDetail {
	var detail publicationDetail

	abstract := strings.TrimSpace(doc.Find(
		".rendering_researchoutput_abstractportal .textblock, .abstract .textblock, .rendering_researchoutput .textblock",
	).First().Text())
	if abstract != "" && !isBoilerplate(abstract) {
		detail.Abstract = abstract
	}

	seen := make(map[string]struct{})
	doc.Find("h2, h3").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !keywordsRe.MatchString(heading.Text()) {
			return true
		}
		list := heading.NextAllFiltered("ul").First()
		if list.Length() == 0 {
			list = heading.Parent().Find("ul").First()
		}
		list.Find("li").Each(func(_ int, li *goquery.Selection) {
			appendKeyword(&detail.Keywords, seen, li.Text())
		})
		return false
	})

	doc.Find(".fingerprint-tag").Each(func(_ int, tag *goquery.Selection) {
		appendKeyword(&detail.Keywords, seen, tag.Text())
	})

	return detail
}

func appendKeyword(keywords *[]string, seen map[string]struct{}, raw string) {
	kw := strings.TrimSpace(raw)
	if kw == "" {
		return
	}
	if _, dup := seen[strings.ToLower(kw)]; dup {
		return
	}
	seen[strings.ToLower(kw)] = struct{}{}
	*keywords = append(*keywords, kw)
}

func splitAuthors(text string) []string {
	var authors []string
	for _, part := range authorSplitRe.Split(text, -1) {
		if name := strings.TrimSpace(part); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

func resolveURL(base *url.URL, href string) (*url.URL, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(ref), nil
}
