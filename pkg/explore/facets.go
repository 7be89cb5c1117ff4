package explore

import (
	"sort"

	"github.com/praetorian-inc/chunkpos/pkg/types"
)

// facetID identifies a facet category.
type facetID int

const (
	facetKind facetID = iota
	facetExtension
	facetEnding
)

// facetDef defines a facet category.
type facetDef struct {
	ID    facetID
	Label string
}

var facetDefs = []facetDef{
	{facetKind, "Provenance"},
	{facetExtension, "Extension"},
	{facetEnding, "Last Chunk"},
}

// facetValue is a single selectable value within a facet.
type facetValue struct {
	FacetID  facetID
	Value    string
	Count    int
	Selected bool
}

// facetState holds the complete filter state.
type facetState struct {
	Values map[facetID][]*facetValue
}

func newFacetState() *facetState {
	return &facetState{
		Values: make(map[facetID][]*facetValue),
	}
}

// buildFacets builds facet values from the loaded sources.
func buildFacets(sources []*sourceRow) *facetState {
	fs := newFacetState()

	kinds := make(map[string]int)
	extensions := make(map[string]int)
	endings := make(map[string]int)

	for _, s := range sources {
		for _, k := range s.Kinds {
			kinds[k]++
		}
		extensions[s.Extension]++
		endings[s.ending()]++
	}

	fs.Values[facetKind] = mapToFacetValues(facetKind, kinds)
	fs.Values[facetExtension] = mapToFacetValues(facetExtension, extensions)
	fs.Values[facetEnding] = mapToFacetValues(facetEnding, endings)

	return fs
}

func mapToFacetValues(id facetID, counts map[string]int) []*facetValue {
	values := make([]*facetValue, 0, len(counts))
	for v, c := range counts {
		values = append(values, &facetValue{FacetID: id, Value: v, Count: c})
	}
	sort.Slice(values, func(i, j int) bool {
		return values[i].Value < values[j].Value
	})
	return values
}

// selectedValues returns the set of selected values for a facet.
func (fs *facetState) selectedValues(id facetID) map[string]bool {
	selected := make(map[string]bool)
	for _, v := range fs.Values[id] {
		if v.Selected {
			selected[v.Value] = true
		}
	}
	return selected
}

// hasActiveFilters returns true if any facet has selections.
func (fs *facetState) hasActiveFilters() bool {
	for _, values := range fs.Values {
		for _, v := range values {
			if v.Selected {
				return true
			}
		}
	}
	return false
}

// resetAll deselects all facet values.
func (fs *facetState) resetAll() {
	for _, values := range fs.Values {
		for _, v := range values {
			v.Selected = false
		}
	}
}

// matchesSource reports whether a source passes all active filters.
// Within a facet: OR (union). Across facets: AND (intersection).
func (fs *facetState) matchesSource(s *sourceRow) bool {
	for _, def := range facetDefs {
		selected := fs.selectedValues(def.ID)
		if len(selected) == 0 {
			continue
		}

		switch def.ID {
		case facetKind:
			found := false
			for _, k := range s.Kinds {
				if selected[k] {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case facetExtension:
			if !selected[s.Extension] {
				return false
			}
		case facetEnding:
			if !selected[s.ending()] {
				return false
			}
		}
	}
	return true
}

// updateCounts recounts facet values over the sources that pass the
// current filters.
func (fs *facetState) updateCounts(sources []*sourceRow) {
	for _, values := range fs.Values {
		for _, v := range values {
			v.Count = 0
		}
	}

	for _, s := range sources {
		if !fs.matchesSource(s) {
			continue
		}
		for _, v := range fs.Values[facetKind] {
			for _, k := range s.Kinds {
				if v.Value == k {
					v.Count++
					break
				}
			}
		}
		for _, v := range fs.Values[facetExtension] {
			if v.Value == s.Extension {
				v.Count++
			}
		}
		for _, v := range fs.Values[facetEnding] {
			if v.Value == s.ending() {
				v.Count++
			}
		}
	}
}

// sourceRow is the denormalized view model for an indexed source.
type sourceRow struct {
	ID         types.ChunkID
	Path       string
	Extension  string
	Kinds      []string
	Size       int64
	Lines      int
	End        types.Position
	Provenance []types.Provenance
	Chunks     []*types.ChunkRecord
}

// ending labels whether the last chunk of a source continues into a
// following chunk.
func (s *sourceRow) ending() string {
	if len(s.Chunks) == 0 {
		return "empty"
	}
	if s.Chunks[len(s.Chunks)-1].EndsWithNewline {
		return "newline"
	}
	return "no newline"
}
