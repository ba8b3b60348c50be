package filedeps

import "github.com/programme-lv/activecode/internal/exercise"

// Document is the set of named elements data files are read from.
type Document struct {
	byID       map[string]exercise.Element
	byFilename map[string]exercise.Element
}

func NewDocument(elems []exercise.Element) *Document {
	d := &Document{
		byID:       make(map[string]exercise.Element, len(elems)),
		byFilename: make(map[string]exercise.Element),
	}
	for _, e := range elems {
		if e.ID != "" {
			d.byID[e.ID] = e
		}
		if e.DataFilename != "" {
			d.byFilename[e.DataFilename] = e
		}
	}
	return d
}

// Lookup finds the element for a file name, first by element id and then
// by its data filename.
func (d *Document) Lookup(name string) (exercise.Element, bool) {
	if d == nil {
		return exercise.Element{}, false
	}
	if e, ok := d.byID[name]; ok {
		return e, true
	}
	e, ok := d.byFilename[name]
	return e, ok
}
