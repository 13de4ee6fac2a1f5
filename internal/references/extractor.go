// Package references extracts legal citations, structural references,
// and clause-type signals from chunk text.
//
// Detection is table-driven: ordered lists of (pattern, label) pairs
// iterated in fixed priority order. Extending coverage means adding a
// table row, not another literal check.
package references

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.ReferenceExtractor = (*Extractor)(nil)

// citationPatterns are the citation families, coarsest first. Case
// citations are matched before statutes so a case name containing a
// section symbol is not claimed by the statute family.
var citationPatterns = []struct {
	family string
	re     *regexp.Regexp
}{
	// Party v. Party, Vol Reporter Page (Court Year)
	{"case", regexp.MustCompile(
		`[A-Z][\w.'&-]*(?:\s+[A-Z][\w.'&-]*)*\s+v\.?\s+[A-Z][\w.'&-]*(?:\s+[A-Z][\w.'&-]*)*,\s+\d+\s+[A-Z][\w.]*(?:\s+[A-Z\d][\w.]*)*\s+\d+\s*\([^()]*\d{4}\)`)},
	// 42 U.S.C. § 1983
	{"usc", regexp.MustCompile(
		`\d+\s+U\.?\s?S\.?\s?C\.?(?:A\.)?\s*§§?\s*\d+[\w.()-]*`)},
	// 29 C.F.R. § 1910.120
	{"cfr", regexp.MustCompile(
		`\d+\s+C\.?\s?F\.?\s?R\.?\s*§?\s*\d+(?:\.\d+)*`)},
	// 88 Fed. Reg. 12345
	{"fedreg", regexp.MustCompile(
		`\d+\s+Fed\.\s*Reg\.\s*[\d,]+`)},
	// Num Title § Num (state codes: "6 Del. C. § 18-101")
	{"statute", regexp.MustCompile(
		`\d+\s+[A-Z][A-Za-z.]*(?:\s+[A-Z][A-Za-z.]*)*\s+§\s*\d[\w.()-]*`)},
}

// Structural reference families. Section references accept both the
// section symbol and the spelled-out form; pages support ranges.
var (
	sectionRefPattern   = regexp.MustCompile(`(?:§§?|[Ss]ections?)\s*(\d+[\w.()-]*)`)
	paragraphRefPattern = regexp.MustCompile(`(?:¶¶?|[Pp]aragraphs?)\s*(\d+(?:\.\d+)*)`)
	pageRefPattern      = regexp.MustCompile(`(?:pp?\.|[Pp]ages?)\s*(\d+(?:\s*[-–]\s*\d+)?)`)
)

// clausePatterns maps clause signals to categories, iterated in order.
// The first match wins: clause typing is single-valued per chunk.
var clausePatterns = []struct {
	clauseType string
	re         *regexp.Regexp
}{
	{"indemnification", regexp.MustCompile(`(?i)\b(?:indemnif\w+|hold(?:s|ing)?\s+\w*\s*harmless)\b`)},
	{"termination", regexp.MustCompile(`(?i)\bterminat(?:ion|e[sd]?|ing)\b|\bexpir(?:ation|e[sd]?|ing)\b`)},
	{"confidentiality", regexp.MustCompile(`(?i)\bconfidential(?:ity)?\b|\bnon-?disclosure\b`)},
	{"warranty", regexp.MustCompile(`(?i)\bwarrant(?:y|ies|s)\b|\brepresentations?\s+and\s+warranties\b`)},
	{"non-compete", regexp.MustCompile(`(?i)\bnon-?compet(?:e|ition)\b|\brestrictive\s+covenant\b`)},
	{"governing-law", regexp.MustCompile(`(?i)\bgoverning\s+law\b|\bgoverned\s+by\s+the\s+laws?\b|\bchoice\s+of\s+law\b`)},
	{"force-majeure", regexp.MustCompile(`(?i)\bforce\s+majeure\b|\bact(?:s)?\s+of\s+god\b`)},
	{"limitation-of-liability", regexp.MustCompile(`(?i)\blimitation\s+of\s+liability\b|\bliability\s+(?:is\s+|shall\s+be\s+)?limited\b`)},
	{"assignment", regexp.MustCompile(`(?i)\bassign(?:ment|able)\b|\bshall\s+not\s+assign\b`)},
	{"severability", regexp.MustCompile(`(?i)\bseverab(?:le|ility)\b`)},
	{"arbitration", regexp.MustCompile(`(?i)\barbitrat\w+\b|\bdispute\s+resolution\b`)},
	{"notice", regexp.MustCompile(`(?i)\bnotices?\s+(?:shall|must|may)\s+be\b`)},
}

// Extractor finds citations, structural references, and clause types.
// It is stateless and safe for concurrent use.
type Extractor struct{}

// New creates a new reference extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract scans text for all reference families. It never fails;
// no matches yields empty collections.
func (e *Extractor) Extract(text string) domain.References {
	refs := domain.References{
		Citations:  extractCitations(text),
		Sections:   extractGroup(sectionRefPattern, text),
		Paragraphs: extractGroup(paragraphRefPattern, text),
		Pages:      extractGroup(pageRefPattern, text),
		ClauseType: MatchClauseType(text),
	}
	return refs
}

// MatchClauseType returns the first matching clause category for the
// text, or the empty string. Exposed for the chunker's structural-unit
// detection.
func MatchClauseType(text string) string {
	for _, cp := range clausePatterns {
		if cp.re.MatchString(text) {
			return cp.clauseType
		}
	}
	return ""
}

// extractCitations runs the citation families in order and collects
// matches de-duplicated in first-seen order.
func extractCitations(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, cp := range citationPatterns {
		for _, m := range cp.re.FindAllString(text, -1) {
			m = strings.TrimSpace(m)
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// extractGroup collects the first capture group of every match,
// de-duplicated, insertion order preserved.
func extractGroup(re *regexp.Regexp, text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		val := strings.TrimSpace(m[1])
		if val == "" || seen[val] {
			continue
		}
		seen[val] = true
		out = append(out, val)
	}
	return out
}
