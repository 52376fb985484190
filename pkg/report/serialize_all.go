package report

import "strings"

// SerializeAll writes every present section, including both conclusion
// sections, in canonical order. This is the on-disk multi-section layout:
// template and draft files keep both conclusion bodies so the one not
// currently materialized is preserved across saves.
func SerializeAll(doc *Document) string {
	var b strings.Builder

	emit := func(s Section) {
		body, ok := doc.Get(s)
		if !ok {
			return
		}
		b.WriteString(s.Header())
		b.WriteByte('\n')
		b.WriteString(strings.TrimRight(body, "\n"))
		b.WriteString("\n\n")
	}

	for _, s := range canonicalOrder {
		emit(s)
	}
	emit(SectionConclusionPass)
	emit(SectionConclusionFail)

	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}
