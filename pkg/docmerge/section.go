package docmerge

import (
	"regexp"
	"strings"
	"sync"
)

// Repeating sections are delimited by marker paragraphs: a paragraph
// whose entire text, once trimmed, is open+"start_"+name+close or the
// matching end_ form. The convention is plain text equality, so a stray
// paragraph that happens to carry marker text collides with it; that is
// a documented limitation of the format, not something the engine tries
// to guard against.

type markerKind int

const (
	markerStart markerKind = iota
	markerEnd
)

var (
	markerPatterns  = make(map[Delimiters]*regexp.Regexp)
	markerPatternMu sync.RWMutex
)

func markerPattern(delims Delimiters) *regexp.Regexp {
	markerPatternMu.RLock()
	re, ok := markerPatterns[delims]
	markerPatternMu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(
		`^` + regexp.QuoteMeta(delims.Open) + `\s*(start|end)_(.+?)\s*` + regexp.QuoteMeta(delims.Close) + `$`,
	)

	markerPatternMu.Lock()
	markerPatterns[delims] = re
	markerPatternMu.Unlock()
	return re
}

// parseSectionMarker reports whether text is a section marker paragraph
// and, if so, which kind and for which section name.
func parseSectionMarker(text string, delims Delimiters) (markerKind, string, bool) {
	m := markerPattern(delims.orDefault()).FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, "", false
	}
	if m[1] == "start" {
		return markerStart, m[2], true
	}
	return markerEnd, m[2], true
}

// blockMarker is parseSectionMarker lifted to a block: only paragraphs
// can be markers.
func blockMarker(block BodyElement, delims Delimiters) (markerKind, string, bool) {
	para, ok := block.(*Paragraph)
	if !ok {
		return 0, "", false
	}
	return parseSectionMarker(para.GetText(), delims)
}

// FindSection locates the marker pair for the named section in blocks.
// It returns the indices of the start and end marker paragraphs, both
// inclusive; the repeatable content is the range between them.
//
// Marker pairs for other sections nested inside the content range are
// part of the content: after the start is found, every nested start_*
// raises a depth counter and every end_* of any name lowers it, so only
// the end marker at the starting depth terminates the section.
func FindSection(blocks []BodyElement, name string, delims Delimiters) (int, int, error) {
	delims = delims.orDefault()

	start := -1
	for i, block := range blocks {
		kind, markerName, ok := blockMarker(block, delims)
		if ok && kind == markerStart && markerName == name {
			start = i
			break
		}
	}
	if start == -1 {
		return 0, 0, &SectionNotFoundError{Name: name}
	}

	end, err := findSectionEnd(blocks, start, name, delims)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// findSectionEnd finds the end marker matching the start marker at
// index start, skipping balanced interior marker pairs.
func findSectionEnd(blocks []BodyElement, start int, name string, delims Delimiters) (int, error) {
	depth := 0
	for i := start + 1; i < len(blocks); i++ {
		kind, markerName, ok := blockMarker(blocks[i], delims)
		if !ok {
			continue
		}
		if kind == markerStart {
			depth++
			continue
		}
		if depth == 0 && markerName == name {
			return i, nil
		}
		depth--
	}
	return 0, &UnterminatedSectionError{Name: name, BlockIndex: start}
}

// expandSection produces the blocks that replace a section's marker
// range: one merged copy of content per item, in item order. The
// markers themselves are consumed. item keys shadow base keys during
// each copy's merge, and unresolved fields inside copies are always
// dropped.
func expandSection(content []BodyElement, items []Context, base Context, opts *Options) ([]BodyElement, error) {
	if len(items) == 0 {
		return nil, nil
	}

	var out []BodyElement
	for _, item := range items {
		clone := cloneBlocks(content)
		merged := overlay(base, item)

		// Copies may carry nested section markers of their own.
		if err := expandSectionsInBlocks(&clone, merged, opts); err != nil {
			return nil, err
		}
		mergeBlocks(clone, merged, true, opts.Delimiters)

		out = append(out, clone...)
	}
	return out, nil
}

// cloneBlocks deep-copies a block sequence. Opaque property blocks are
// shared between clones; the engine never mutates them.
func cloneBlocks(blocks []BodyElement) []BodyElement {
	out := make([]BodyElement, 0, len(blocks))
	for _, block := range blocks {
		switch el := block.(type) {
		case *Paragraph:
			out = append(out, cloneParagraph(el))
		case *Table:
			out = append(out, cloneTable(el))
		}
	}
	return out
}

func cloneParagraph(p *Paragraph) *Paragraph {
	clone := &Paragraph{Properties: p.Properties}
	if p.Runs != nil {
		clone.Runs = make([]Run, len(p.Runs))
		for i, run := range p.Runs {
			cloned := Run{Properties: run.Properties}
			if run.Text != nil {
				text := *run.Text
				cloned.Text = &text
			}
			if run.Break != nil {
				br := *run.Break
				cloned.Break = &br
			}
			clone.Runs[i] = cloned
		}
	}
	return clone
}

func cloneTable(t *Table) *Table {
	clone := &Table{
		Properties: t.Properties,
		Grid:       t.Grid,
	}
	if t.Rows != nil {
		clone.Rows = make([]TableRow, len(t.Rows))
		for ri, row := range t.Rows {
			clonedRow := TableRow{Properties: row.Properties}
			if row.Cells != nil {
				clonedRow.Cells = make([]TableCell, len(row.Cells))
				for ci, cell := range row.Cells {
					clonedRow.Cells[ci] = TableCell{
						Properties: cell.Properties,
						Blocks:     cloneBlocks(cell.Blocks),
					}
				}
			}
			clone.Rows[ri] = clonedRow
		}
	}
	return clone
}
