package report

// Section identifies one of the recognized report sections. The value is
// the exact header name as it appears on disk between brackets.
type Section string

const (
	SectionIntroduction   Section = "Introduction"
	SectionTesting        Section = "Testing"
	SectionDocumentation  Section = "Documentation"
	SectionScripts        Section = "Scripts"
	SectionConclusionPass Section = "conclusion-pass"
	SectionConclusionFail Section = "conclusion-fail"
)

// canonicalOrder is the order sections are written in. Exactly one of the
// two conclusion sections is appended at serialize time.
var canonicalOrder = []Section{
	SectionIntroduction,
	SectionTesting,
	SectionDocumentation,
	SectionScripts,
}

var recognized = map[Section]bool{
	SectionIntroduction:   true,
	SectionTesting:        true,
	SectionDocumentation:  true,
	SectionScripts:        true,
	SectionConclusionPass: true,
	SectionConclusionFail: true,
}

// SectionFromHeader maps a header name to its Section. Unrecognized names
// return false; the parser treats those lines as ordinary body text.
func SectionFromHeader(name string) (Section, bool) {
	s := Section(name)
	return s, recognized[s]
}

// IsConclusion reports whether s is one of the two conclusion sections.
func (s Section) IsConclusion() bool {
	return s == SectionConclusionPass || s == SectionConclusionFail
}

// Header returns the literal header line for the section.
func (s Section) Header() string {
	return "[" + string(s) + "]"
}
