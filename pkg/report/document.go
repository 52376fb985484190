package report

// Document is a report broken into recognized sections. It models the
// content of one template or draft file; a working copy materializes at
// most one of the two conclusion sections (see Materialized).
type Document struct {
	sections map[Section]string
}

// NewDocument returns an empty document with no sections present.
func NewDocument() *Document {
	return &Document{sections: make(map[Section]string)}
}

// Set stores the body for a section, marking it present.
func (d *Document) Set(s Section, body string) {
	d.sections[s] = body
}

// Get returns the body for a section and whether it is present.
func (d *Document) Get(s Section) (string, bool) {
	body, ok := d.sections[s]
	return body, ok
}

// Has reports whether the section is present, even with an empty body.
func (d *Document) Has(s Section) bool {
	_, ok := d.sections[s]
	return ok
}

// Delete removes a section from the document.
func (d *Document) Delete(s Section) {
	delete(d.sections, s)
}

// Len returns the number of sections present.
func (d *Document) Len() int {
	return len(d.sections)
}

// Clone returns an independent copy of the document.
func (d *Document) Clone() *Document {
	out := NewDocument()
	for s, body := range d.sections {
		out.sections[s] = body
	}
	return out
}

// Materialized returns a working copy holding only the given conclusion
// section. The other conclusion body, if present, is dropped from the copy;
// callers keep it on disk untouched by merging before save.
func (d *Document) Materialized(conclusion Section) *Document {
	out := d.Clone()
	if conclusion == SectionConclusionPass {
		out.Delete(SectionConclusionFail)
	} else {
		out.Delete(SectionConclusionPass)
	}
	return out
}

// Conclusion returns the materialized conclusion section, preferring
// conclusion-pass when both are present.
func (d *Document) Conclusion() (Section, bool) {
	if d.Has(SectionConclusionPass) {
		return SectionConclusionPass, true
	}
	if d.Has(SectionConclusionFail) {
		return SectionConclusionFail, true
	}
	return "", false
}
