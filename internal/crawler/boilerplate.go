package crawler

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

// chromeStopwords contains stemmed words that commonly appear in portal
// chrome rather than publication prose: cookie banners, navigation bars,
// login prompts and footer boilerplate.
var chromeStopwords = map[string]struct{}{
	// --- navigation & account ---
	"about":   {},
	"account": {},
	"brows":   {},
	"contact": {},
	"help":    {},
	"home":    {},
	"login":   {},
	"logout":  {},
	"menu":    {},
	"navig":   {},
	"profil":  {},
	"search":  {},
	"signin":  {},
	"skip":    {},

	// --- cookie & legal banners ---
	"accept":    {},
	"agre":      {},
	"consent":   {},
	"cooki":     {},
	"copyright": {},
	"disclaim":  {},
	"gdpr":      {},
	"polici":    {},
	"privaci":   {},
	"reserv":    {},
	"right":     {},
	"term":      {},

	// --- portal footer & sharing ---
	"access": {},
	"cite":   {},
	"export": {},
	"feed":   {},
	"follow": {},
	"link":   {},
	"share":  {},
	"social": {},
	"tweet":  {},
	"web":    {},
}

// boilerplateThreshold is the chrome-stopword ratio above which scraped
// text is rejected as non-prose.
const boilerplateThreshold = 0.4

var boilerplateTokenRe = regexp.MustCompile(`\b[a-zA-Z]+\b`)

// isBoilerplate reports whether scraped text looks like portal chrome
// rather than publication prose. It stems each token and measures the
// ratio of chrome stopwords to total tokens.
func isBoilerplate(text string) bool {
	tokens := boilerplateTokenRe.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return true
	}

	chromeCount := 0
	for _, token := range tokens {
		stemmed, err := snowball.Stem(token, "english", true)
		if err != nil {
			stemmed = token
		}
		if _, ok := chromeStopwords[stemmed]; ok {
			chromeCount++
		}
	}

	return float64(chromeCount)/float64(len(tokens)) > boilerplateThreshold
}
