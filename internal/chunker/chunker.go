// Package chunker provides structure-aware text chunking for legal
// documents.
//
// Splitting is recursive over an ordered list of separators, coarsest
// first. Section headers and self-contained clauses are emitted as
// their own chunks so retrieved excerpts stay citable.
package chunker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
	"github.com/custodia-labs/lexica-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexica-cli/internal/references"
)

// Ensure Splitter implements the interface.
var _ driven.Chunker = (*Splitter)(nil)

// DefaultMaxSize is the default chunk size ceiling in characters.
const DefaultMaxSize = 1000

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// oversizeFactor is how far an atomic structural unit may exceed the
// ceiling before it is split anyway: 20%.
const oversizeFactor = 1.2

// separators is the split order, coarsest to finest: paragraph breaks,
// line breaks, sentence enders, clause separators, word boundary, and
// finally raw characters.
var separators = []string{"\n\n", "\n", ". ", "; ", ", ", " ", ""}

// Splitter splits document text into bounded, overlapping chunks.
type Splitter struct {
	maxSize int
	overlap int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithMaxSize sets the chunk size ceiling in characters.
func WithMaxSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.maxSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		maxSize: DefaultMaxSize,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.maxSize {
		s.overlap = s.maxSize / 4
	}

	return s
}

// Split chunks a document's text. Empty or whitespace-only text yields
// no chunks. Ordering is stable and equals document order; Index is
// assigned sequentially from 0.
func (s *Splitter) Split(text, documentID, documentName string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pieces := s.splitRecursive(text, 0)
	texts := s.pack(pieces)

	chunks := make([]domain.Chunk, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		c := domain.Chunk{
			ID:          uuid.New().String(),
			Index:       len(chunks),
			Text:        t,
			SourceDocID: documentID,
			SourceName:  documentName,
		}
		annotate(&c)
		chunks = append(chunks, c)
	}
	return chunks
}

// splitRecursive breaks text into pieces no larger than maxSize,
// descending through the separator list. A structural unit up to 20%
// over the ceiling is kept whole; everything else recurses into the
// next-finer separator. Pieces retain their trailing separator so
// concatenating them reconstructs the input exactly.
func (s *Splitter) splitRecursive(text string, level int) []string {
	if len(text) <= s.maxSize {
		return []string{text}
	}
	if isStructuralUnit(text) && float64(len(text)) <= float64(s.maxSize)*oversizeFactor {
		return []string{text}
	}
	if level >= len(separators) {
		// Defensive; the last separator always splits.
		return []string{text}
	}

	sep := separators[level]
	if sep == "" {
		// Character-level fallback.
		var out []string
		for len(text) > s.maxSize {
			out = append(out, text[:s.maxSize])
			text = text[s.maxSize:]
		}
		if text != "" {
			out = append(out, text)
		}
		return out
	}

	var out []string
	for _, piece := range strings.SplitAfter(text, sep) {
		if piece == "" {
			continue
		}
		if len(piece) > s.maxSize {
			out = append(out, s.splitRecursive(piece, level+1)...)
		} else {
			out = append(out, piece)
		}
	}
	return out
}

// pack assembles pieces into chunk texts. A running buffer is flushed
// when the next piece would push it past maxSize; structural units are
// flushed around so they stand alone. After each flush the next buffer
// is seeded with overlap text from the flushed chunk.
func (s *Splitter) pack(pieces []string) []string {
	var chunks []string
	var buf string
	seedLen := 0 // leading bytes of buf that are carried-over overlap

	flush := func() {
		if len(buf) > seedLen {
			chunks = append(chunks, buf)
			seed := s.overlapSeed(buf)
			buf = seed
			seedLen = len(seed)
		}
	}

	for _, piece := range pieces {
		if s.isStandaloneUnit(piece) {
			flush()
			chunks = append(chunks, piece)
			seed := s.overlapSeed(piece)
			buf = seed
			seedLen = len(seed)
			continue
		}

		if len(buf) > seedLen && len(buf)+len(piece) > s.maxSize {
			flush()
		}
		// Trim the seed from the front when seed plus an oversized
		// piece would breach the ceiling on its own.
		if len(buf) == seedLen && len(buf)+len(piece) > s.maxSize {
			keep := s.maxSize - len(piece)
			if keep < 0 {
				keep = 0
			}
			buf = buf[len(buf)-keep:]
			seedLen = len(buf)
		}
		buf += piece
	}
	flush()
	return chunks
}

// isStandaloneUnit reports whether a piece should be emitted as its
// own chunk: it looks like a legal structural unit and is at most 20%
// over the ceiling.
func (s *Splitter) isStandaloneUnit(piece string) bool {
	if float64(len(piece)) > float64(s.maxSize)*oversizeFactor {
		return false
	}
	return isStructuralUnit(piece)
}

// isStructuralUnit reports whether text opens with a section/article
// header or matches a known clause-type pattern.
func isStructuralUnit(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if m := matchSection(trimmed); m != nil && strings.HasPrefix(trimmed, strings.TrimSpace(m.line)) {
		return true
	}
	return references.MatchClauseType(trimmed) != ""
}

// sentenceEnders mark clean cut points for the overlap seed.
var sentenceEnders = []string{". ", ".\n", "! ", "? "}

// overlapSeed returns the text carried into the next chunk: the last
// overlap bytes of the flushed chunk, preferring to start just after a
// sentence ender when one falls in the front half of the window so the
// seed does not open mid-phrase.
func (s *Splitter) overlapSeed(chunk string) string {
	if s.overlap <= 0 || len(chunk) == 0 {
		return ""
	}
	if len(chunk) <= s.overlap {
		return chunk
	}

	tail := chunk[len(chunk)-s.overlap:]
	cut := -1
	for _, end := range sentenceEnders {
		// Only the front half of the window is searched, so the seed
		// always keeps at least overlap/2 characters of duplication.
		idx := strings.Index(tail[:s.overlap/2], end)
		if idx >= 0 && (cut == -1 || idx+len(end) < cut) {
			cut = idx + len(end)
		}
	}
	if cut > 0 {
		return tail[cut:]
	}
	return tail
}

// annotate attaches structural metadata: the first section match gives
// the title and number, and a chunk dominated by its header line is
// flagged as a heading.
func annotate(c *domain.Chunk) {
	m := matchSection(c.Text)
	if m == nil {
		return
	}
	c.SectionNumber = m.number
	c.SectionTitle = strings.TrimSpace(m.title)

	trimmed := strings.TrimSpace(c.Text)
	line := strings.TrimSpace(m.line)
	if len(trimmed) > 0 && float64(len(line)) > float64(len(trimmed))/2 {
		c.IsHeading = true
	}
}
