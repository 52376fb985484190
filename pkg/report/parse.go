package report

import "strings"

// Parse scans raw text into a Document. A line is a section header only if
// it is exactly "[<name>]" for a recognized name, with zero characters
// before or after it; anything else, including bracket text inside a body,
// is ordinary content. Content before the first recognized header is
// discarded. Parse never fails: empty input yields an empty document.
func Parse(raw string) *Document {
	doc := NewDocument()
	if raw == "" {
		return doc
	}

	var (
		current Section
		open    bool
		body    []string
	)

	flush := func() {
		if !open {
			return
		}
		text := strings.Join(body, "\n")
		// Trailing newlines are serialization padding, not content.
		doc.Set(current, strings.TrimRight(text, "\n"))
		body = body[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		if s, ok := headerLine(line); ok {
			flush()
			current = s
			open = true
			continue
		}
		if open {
			body = append(body, line)
		}
	}
	flush()
	return doc
}

// headerLine reports whether the line is a strict section header. Leading
// or trailing characters, including whitespace, disqualify it.
func headerLine(line string) (Section, bool) {
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	return SectionFromHeader(line[1 : len(line)-1])
}
