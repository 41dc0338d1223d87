package docmerge

// Options controls a single merge call.
type Options struct {
	// RemoveEmpty drops field tokens whose name has no value in the
	// data context. When false the original token text is kept verbatim.
	RemoveEmpty bool
	// Delimiters is the field delimiter pair; zero value means {{ }}.
	Delimiters Delimiters
	// Strict makes the merge fail on the first field that has no value
	// instead of applying the RemoveEmpty policy.
	Strict bool
}

// DefaultOptions returns the options used when a caller passes nil.
func DefaultOptions() *Options {
	return &Options{
		RemoveEmpty: true,
		Delimiters:  DefaultDelimiters,
	}
}

func normalizeOptions(opts *Options) *Options {
	if opts == nil {
		return DefaultOptions()
	}
	o := *opts
	o.Delimiters = o.Delimiters.orDefault()
	return &o
}

// MergeDocument merges the data context into the whole document tree.
//
// It runs two passes. The first expands every repeating section:
// each block sequence (the body, and every table cell at every depth)
// is scanned for start markers, and each section whose name resolves to
// a context list is replaced by one merged copy of its content per
// item. The scan restarts after each splice, so sections nested inside
// expanded copies are picked up too. The second pass substitutes field
// tokens in every remaining paragraph against the top-level context.
//
// A section name that resolves to anything other than a context list
// expands to zero items: the section and its markers disappear. An end
// marker with no preceding start marker is an error.
//
// The tree is mutated in place; on error it may be partially merged.
// Callers needing atomicity should merge a clone and swap on success.
func MergeDocument(doc *Document, data Context, opts *Options) error {
	if doc == nil || doc.Body == nil {
		return nil
	}
	o := normalizeOptions(opts)

	log := GetLogger()
	if log.IsDebugMode() {
		log.WithFields(Fields{
			"blocks":       len(doc.Body.Elements),
			"remove_empty": o.RemoveEmpty,
		}).Debug("merging document")
	}

	if err := expandSectionsInBlocks(&doc.Body.Elements, data, o); err != nil {
		return err
	}

	if o.Strict {
		if err := checkUnresolved(doc, data, o.Delimiters); err != nil {
			return err
		}
	}

	mergeBlocks(doc.Body.Elements, data, o.RemoveEmpty, o.Delimiters)
	return nil
}

// expandSectionsInBlocks expands every repeating section in one block
// sequence, then recurses into table cells. After each splice the scan
// restarts from the top: indices have shifted, and freshly spliced
// copies may contain further markers.
func expandSectionsInBlocks(blocks *[]BodyElement, data Context, opts *Options) error {
	for {
		spliced := false
		for i, block := range *blocks {
			kind, name, ok := blockMarker(block, opts.Delimiters)
			if !ok || kind != markerStart {
				continue
			}

			end, err := findSectionEnd(*blocks, i, name, opts.Delimiters)
			if err != nil {
				return err
			}

			items := resolveItems(name, data)
			expanded, err := expandSection((*blocks)[i+1:end], items, data, opts)
			if err != nil {
				return err
			}

			*blocks = ReplaceRange(*blocks, i, end+1, expanded)
			spliced = true
			break
		}
		if !spliced {
			break
		}
	}

	// Every start marker was consumed above, so a marker remaining at
	// this point is an end with no start.
	for i, block := range *blocks {
		if kind, name, ok := blockMarker(block, opts.Delimiters); ok && kind == markerEnd {
			return &OrphanEndMarkerError{Name: name, BlockIndex: i}
		}
	}

	for _, block := range *blocks {
		if table, ok := block.(*Table); ok {
			for ri := range table.Rows {
				for ci := range table.Rows[ri].Cells {
					if err := expandSectionsInBlocks(&table.Rows[ri].Cells[ci].Blocks, data, opts); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// resolveItems resolves a section name to its repeat data. Absent names
// and non-list values both mean zero repetitions; whether a truthy
// scalar should instead expand the section once is a product decision
// the engine does not make.
func resolveItems(name string, data Context) []Context {
	value, ok := Resolve(name, data)
	if !ok {
		return nil
	}
	items, ok := itemList(value)
	if !ok {
		return nil
	}
	return items
}

// checkUnresolved walks the remaining field tokens and fails on the
// first one that has no usable value. Section markers are gone by the
// time this runs, so every remaining token is a scalar field.
func checkUnresolved(doc *Document, data Context, delims Delimiters) error {
	for _, name := range GetFields(doc, delims) {
		value, ok := Resolve(name, data)
		if !ok {
			return &UnresolvedFieldError{Name: name}
		}
		if _, scalar := scalarText(value); !scalar {
			return &UnresolvedFieldError{Name: name}
		}
	}
	return nil
}

// MergeRepeatingSection merges items into one named section of the
// document body, leaving the rest of the tree untouched. It reports
// SectionNotFoundError when the named start marker does not exist and
// UnterminatedSectionError when it is never closed.
func MergeRepeatingSection(doc *Document, name string, items []Context, opts *Options) error {
	if doc == nil || doc.Body == nil {
		return &SectionNotFoundError{Name: name}
	}
	o := normalizeOptions(opts)

	start, end, err := FindSection(doc.Body.Elements, name, o.Delimiters)
	if err != nil {
		return err
	}

	expanded, err := expandSection(doc.Body.Elements[start+1:end], items, nil, o)
	if err != nil {
		return err
	}

	doc.Body.Elements = ReplaceRange(doc.Body.Elements, start, end+1, expanded)
	return nil
}
