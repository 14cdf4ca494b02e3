package incident

import "strings"

// sourceTypeByHost maps a shortened host token to a source type. Matching is
// exact and case-sensitive; downstream consumers depend on these values, so
// the table must not be reordered into overlapping prefix rules.
var sourceTypeByHost = map[string]SourceType{
	"youtube":  SourceVideo,
	"whyy":     SourceVideo,
	"youtu":    SourceVideo,
	"clips":    SourceVideo,
	"tuckbot":  SourceVideo,
	"peertube": SourceVideo,
	"drive":    SourceVideo,
	"m":        SourceVideo,
	"getway":   SourceVideo,

	"instagram": SourcePost,
	"twitter":   SourcePost,
	"reddit":    SourcePost,
	"papost":    SourcePost,
	"mobile":    SourcePost,
	"nyc":       SourcePost,
	"v":         SourcePost,

	"nlg-la":    SourceCourtDocument,
	"ewscripps": SourceCourtDocument,

	"i":      SourceImage,
	"ibb":    SourceImage,
	"photos": SourceImage,

	"doverpolice": SourcePoliceReport,
	"dsp":         SourcePoliceReport,
}

// Classify maps a citation URL to a classified Source. It is a total
// function: every input, including the empty string, resolves to a type
// (article when nothing matches). The URL itself is returned unmodified.
// Safe for concurrent use.
func Classify(url string) Source {
	return Source{SrcURL: url, SrcType: classifyURL(url)}
}

func classifyURL(url string) SourceType {
	tok := hostToken(url)
	if t, ok := sourceTypeByHost[tok]; ok {
		return t
	}
	return SourceArticle
}

// hostToken progressively shortens the URL's host into a lookup key:
// the text after "https://www." (or "https://"), cut at the first ".com";
// hosts still longer than 11 runes are cut at the first ".org", and longer
// than 10 at the first ".". Short hosts (i.ibb, v) survive the length gates
// untouched until the final cut.
func hostToken(url string) string {
	tok, ok := strings.CutPrefix(url, "https://www.")
	if !ok {
		tok, ok = strings.CutPrefix(url, "https://")
		if !ok {
			return ""
		}
	}
	tok, _, _ = strings.Cut(tok, ".com")
	if len(tok) > 11 {
		tok, _, _ = strings.Cut(tok, ".org")
	}
	if len(tok) > 10 {
		tok, _, _ = strings.Cut(tok, ".")
	}
	return tok
}
