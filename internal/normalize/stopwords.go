package normalize

// stopwords is the fixed stop-word set: standard English function words plus
// a handful of domain words that carry no signal in publication text.
var stopwords = map[string]struct{}{
	// articles, conjunctions, prepositions
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "nor": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "from": {}, "by": {},
	"for": {}, "with": {}, "about": {}, "against": {}, "between": {},
	"into": {}, "through": {}, "during": {}, "before": {}, "after": {},
	"above": {}, "below": {}, "up": {}, "down": {}, "out": {}, "off": {},
	"over": {}, "under": {}, "again": {}, "further": {}, "then": {},
	"once": {}, "here": {}, "there": {}, "when": {}, "where": {}, "why": {},
	"how": {}, "as": {}, "until": {}, "while": {}, "so": {}, "than": {},
	"too": {}, "very": {},

	// pronouns
	"i": {}, "me": {}, "my": {}, "myself": {}, "we": {}, "our": {},
	"ours": {}, "ourselves": {}, "you": {}, "your": {}, "yours": {},
	"yourself": {}, "he": {}, "him": {}, "his": {}, "himself": {},
	"she": {}, "her": {}, "hers": {}, "herself": {}, "it": {}, "its": {},
	"itself": {}, "they": {}, "them": {}, "their": {}, "theirs": {},
	"themselves": {}, "what": {}, "which": {}, "who": {}, "whom": {},
	"this": {}, "that": {}, "these": {}, "those": {},

	// verbs and auxiliaries
	"am": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"been": {}, "being": {}, "have": {}, "has": {}, "had": {}, "having": {},
	"do": {}, "does": {}, "did": {}, "doing": {}, "would": {}, "should": {},
	"could": {}, "ought": {}, "can": {}, "cannot": {}, "will": {},
	"shall": {}, "may": {}, "might": {}, "must": {},

	// quantifiers, misc
	"all": {}, "any": {}, "both": {}, "each": {}, "few": {}, "more": {},
	"most": {}, "other": {}, "some": {}, "such": {}, "no": {}, "not": {},
	"only": {}, "own": {}, "same": {}, "if": {}, "because": {}, "also": {},

	// domain words that dominate news/publication text without discriminating
	"said": {}, "says": {}, "according": {}, "report": {}, "reports": {},
	"news": {}, "article": {}, "monday": {}, "tuesday": {}, "wednesday": {},
	"thursday": {}, "friday": {}, "saturday": {}, "sunday": {},
}
