package report

import "strings"

// Serialize writes the document in canonical section order: Introduction,
// Testing, Documentation, Scripts, then the single selected conclusion
// section. Sections not present in the document are omitted. The output
// order does not depend on the order sections appeared in the source, so
// Parse(Serialize(Parse(x))) == Parse(x) over the emitted sections.
func Serialize(doc *Document, conclusion Section) string {
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
	if conclusion.IsConclusion() {
		emit(conclusion)
	}

	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}
