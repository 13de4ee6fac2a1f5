package chunker

import "regexp"

// structuralPatterns match legal section and article headers, iterated
// in priority order. Each pattern captures (number, title) on the
// header line.
var structuralPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"section", regexp.MustCompile(`(?m)^\s*(?:SECTION|Section|Sec\.)\s+(\d+(?:\.\d+)*[A-Za-z]?)[.:]?\s*(.*)$`)},
	{"article", regexp.MustCompile(`(?m)^\s*(?:ARTICLE|Article|Art\.)\s+([IVXLCDM]+|\d+(?:\.\d+)*)[.:]?\s*(.*)$`)},
	{"symbol", regexp.MustCompile(`(?m)^\s*§\s*(\d+(?:\.\d+)*[A-Za-z]?)[.:]?\s*(.*)$`)},
}

// sectionMatch holds the first structural pattern hit within a chunk.
type sectionMatch struct {
	number string
	title  string
	// line is the full matched header line, used for the heading flag.
	line string
}

// matchSection returns the first structural-pattern match in text, or
// nil when no pattern matches.
func matchSection(text string) *sectionMatch {
	best := -1
	var found *sectionMatch
	for _, sp := range structuralPatterns {
		loc := sp.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if best == -1 || loc[0] < best {
			best = loc[0]
			found = &sectionMatch{
				number: text[loc[2]:loc[3]],
				title:  text[loc[4]:loc[5]],
				line:   text[loc[0]:loc[1]],
			}
		}
	}
	return found
}
