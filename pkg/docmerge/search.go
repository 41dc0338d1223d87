package docmerge

import (
	"regexp"
	"sort"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// SearchOptions controls SearchText and ReplaceText matching.
type SearchOptions struct {
	// Regex treats the pattern as a regular expression instead of a
	// literal string.
	Regex bool
	// CaseSensitive matches case exactly; the default is insensitive.
	CaseSensitive bool
}

// Location identifies the paragraph a match was found in.
type Location struct {
	// InTable reports whether the paragraph lives inside a table cell.
	InTable bool
	// Paragraph is the index of the paragraph within its block
	// sequence (the body, or a cell's block list).
	Paragraph int
	// Table, Row and Cell locate the containing cell when InTable is
	// true; they are -1 otherwise.
	Table int
	Row   int
	Cell  int
}

// SearchMatch is one occurrence of the pattern, with surrounding text
// for display.
type SearchMatch struct {
	Text     string
	Start    int
	End      int
	Location Location
	Before   string
	After    string
}

const contextChars = 50

// SearchText finds all occurrences of pattern in the document's
// paragraphs, top-level and inside table cells.
func SearchText(doc *Document, pattern string, opts SearchOptions) ([]SearchMatch, error) {
	re, err := compileSearch(pattern, opts)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.Body == nil {
		return nil, nil
	}

	var matches []SearchMatch
	paraIdx := 0
	tableIdx := 0
	for _, block := range doc.Body.Elements {
		switch el := block.(type) {
		case *Paragraph:
			matches = append(matches, searchParagraph(el, re, Location{
				Paragraph: paraIdx, Table: -1, Row: -1, Cell: -1,
			})...)
			paraIdx++
		case *Table:
			matches = append(matches, searchTable(el, re, tableIdx)...)
			tableIdx++
		}
	}
	return matches, nil
}

func searchTable(t *Table, re *regexp.Regexp, tableIdx int) []SearchMatch {
	var matches []SearchMatch
	for ri := range t.Rows {
		for ci := range t.Rows[ri].Cells {
			paraIdx := 0
			for _, block := range t.Rows[ri].Cells[ci].Blocks {
				para, ok := block.(*Paragraph)
				if !ok {
					continue
				}
				matches = append(matches, searchParagraph(para, re, Location{
					InTable:   true,
					Paragraph: paraIdx,
					Table:     tableIdx,
					Row:       ri,
					Cell:      ci,
				})...)
				paraIdx++
			}
		}
	}
	return matches
}

func searchParagraph(p *Paragraph, re *regexp.Regexp, loc Location) []SearchMatch {
	text := p.GetText()
	var matches []SearchMatch
	for _, idx := range re.FindAllStringIndex(text, -1) {
		start, end := idx[0], idx[1]
		matches = append(matches, SearchMatch{
			Text:     text[start:end],
			Start:    start,
			End:      end,
			Location: loc,
			Before:   text[max(0, start-contextChars):start],
			After:    text[end:min(len(text), end+contextChars)],
		})
	}
	return matches
}

// SimilarMatch is one paragraph scored against a similarity query.
type SimilarMatch struct {
	Text     string
	Score    float64
	Location Location
}

// FindSimilarText scores every paragraph against query using normalized
// Levenshtein similarity, case-insensitively, and returns those at or
// above threshold, best first. Scores range over [0, 1]; 1 is an exact
// match. A maxResults of zero or less leaves the result uncapped.
func FindSimilarText(doc *Document, query string, threshold float64, maxResults int) []SimilarMatch {
	if doc == nil || doc.Body == nil || query == "" {
		return nil
	}

	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false

	var matches []SimilarMatch
	paraIdx := 0
	tableIdx := 0
	for _, block := range doc.Body.Elements {
		switch el := block.(type) {
		case *Paragraph:
			if m, ok := scoreParagraph(el, query, threshold, lev, Location{
				Paragraph: paraIdx, Table: -1, Row: -1, Cell: -1,
			}); ok {
				matches = append(matches, m)
			}
			paraIdx++
		case *Table:
			matches = append(matches, scoreTable(el, query, threshold, lev, tableIdx)...)
			tableIdx++
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if maxResults > 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

func scoreTable(t *Table, query string, threshold float64, metric strutil.StringMetric, tableIdx int) []SimilarMatch {
	var matches []SimilarMatch
	for ri := range t.Rows {
		for ci := range t.Rows[ri].Cells {
			paraIdx := 0
			for _, block := range t.Rows[ri].Cells[ci].Blocks {
				para, ok := block.(*Paragraph)
				if !ok {
					continue
				}
				if m, ok := scoreParagraph(para, query, threshold, metric, Location{
					InTable:   true,
					Paragraph: paraIdx,
					Table:     tableIdx,
					Row:       ri,
					Cell:      ci,
				}); ok {
					matches = append(matches, m)
				}
				paraIdx++
			}
		}
	}
	return matches
}

func scoreParagraph(p *Paragraph, query string, threshold float64, metric strutil.StringMetric, loc Location) (SimilarMatch, bool) {
	text := p.GetText()
	if text == "" {
		return SimilarMatch{}, false
	}
	score := strutil.Similarity(text, query, metric)
	if score < threshold {
		return SimilarMatch{}, false
	}
	return SimilarMatch{Text: text, Score: score, Location: loc}, true
}

// ReplaceText replaces every occurrence of pattern in the document and
// returns the number of replacements. Touched paragraphs are rebuilt as
// a single run carrying the first run's formatting, like field merging.
func ReplaceText(doc *Document, pattern, replacement string, opts SearchOptions) (int, error) {
	re, err := compileSearch(pattern, opts)
	if err != nil {
		return 0, err
	}
	if doc == nil || doc.Body == nil {
		return 0, nil
	}
	return replaceBlocks(doc.Body.Elements, re, replacement, opts.Regex), nil
}

func replaceBlocks(blocks []BodyElement, re *regexp.Regexp, replacement string, regex bool) int {
	count := 0
	for _, block := range blocks {
		switch el := block.(type) {
		case *Paragraph:
			count += replaceParagraph(el, re, replacement, regex)
		case *Table:
			for ri := range el.Rows {
				for ci := range el.Rows[ri].Cells {
					count += replaceBlocks(el.Rows[ri].Cells[ci].Blocks, re, replacement, regex)
				}
			}
		}
	}
	return count
}

func replaceParagraph(p *Paragraph, re *regexp.Regexp, replacement string, regex bool) int {
	text := p.GetText()
	hits := re.FindAllStringIndex(text, -1)
	if len(hits) == 0 {
		return 0
	}

	// $ references only mean something when the caller wrote a regex.
	var newText string
	if regex {
		newText = re.ReplaceAllString(text, replacement)
	} else {
		newText = re.ReplaceAllLiteralString(text, replacement)
	}

	var props *RunProperties
	if len(p.Runs) > 0 {
		props = p.Runs[0].Properties
	}
	p.Runs = []Run{{
		Properties: props,
		Text:       &Text{Space: "preserve", Content: newText},
	}}
	return len(hits)
}

func compileSearch(pattern string, opts SearchOptions) (*regexp.Regexp, error) {
	if !opts.Regex {
		pattern = regexp.QuoteMeta(pattern)
	}
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}
