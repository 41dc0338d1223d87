package docmerge

import (
	"regexp"
	"strings"
	"sync"
)

// Delimiters is a field delimiter pair. The zero value falls back to
// the default pair.
type Delimiters struct {
	Open  string
	Close string
}

// DefaultDelimiters is the delimiter pair used when none is configured.
var DefaultDelimiters = Delimiters{Open: "{{", Close: "}}"}

func (d Delimiters) orDefault() Delimiters {
	if d.Open == "" || d.Close == "" {
		return DefaultDelimiters
	}
	return d
}

// FieldMatch is one delimited field occurrence within a paragraph's
// concatenated text. Start and End are byte offsets of the full token,
// delimiters included; Name is the captured field name, trimmed.
type FieldMatch struct {
	Name  string
	Start int
	End   int
}

var (
	fieldPatterns  = make(map[Delimiters]*regexp.Regexp)
	fieldPatternMu sync.RWMutex
)

// fieldPattern returns the compiled token pattern for a delimiter pair.
// Compiled patterns are cached; templates rarely use more than one pair.
func fieldPattern(delims Delimiters) *regexp.Regexp {
	fieldPatternMu.RLock()
	re, ok := fieldPatterns[delims]
	fieldPatternMu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(
		regexp.QuoteMeta(delims.Open) + `\s*(.+?)\s*` + regexp.QuoteMeta(delims.Close),
	)

	fieldPatternMu.Lock()
	fieldPatterns[delims] = re
	fieldPatternMu.Unlock()
	return re
}

// ScanFields finds all field tokens in text, left to right and
// non-overlapping. An open delimiter with no following close is not a
// token and is skipped; an empty capture ({{}} or whitespace only)
// yields no match.
func ScanFields(text string, delims Delimiters) []FieldMatch {
	delims = delims.orDefault()
	if !strings.Contains(text, delims.Open) {
		return nil
	}

	var matches []FieldMatch
	for _, idx := range fieldPattern(delims).FindAllStringSubmatchIndex(text, -1) {
		name := strings.TrimSpace(text[idx[2]:idx[3]])
		if name == "" {
			continue
		}
		matches = append(matches, FieldMatch{
			Name:  name,
			Start: idx[0],
			End:   idx[1],
		})
	}
	return matches
}
