// Package conclusion maps a mission classification and the tester's chosen
// conclusion label to the conclusion section of the report and the
// structuredResponse value sent to the platform.
package conclusion

import (
	"fmt"

	"github.com/user/missions-helper/pkg/report"
)

// Classification is the mission behavior class. It determines the legal
// conclusion labels, the conclusion-to-payload mapping, and whether the
// report may be saved back as a reusable template.
type Classification int

const (
	// Standard covers every non-SV2M mission.
	Standard Classification = iota
	// SV2M missions use an exact pass-through label set and are draft-only.
	SV2M
)

func (c Classification) String() string {
	if c == SV2M {
		return "SV2M"
	}
	return "standard"
}

// Selection is the tester's conclusion label. Standard missions use Pass,
// Fail and NotTestable; SV2M missions use Vulnerable, NotExploitable and
// OutOfThreshold, which pass through verbatim as the structuredResponse.
type Selection string

const (
	Pass        Selection = "Pass"
	Fail        Selection = "Fail"
	NotTestable Selection = "NotTestable"

	Vulnerable     Selection = "Vulnerable"
	NotExploitable Selection = "NotExploitable"
	OutOfThreshold Selection = "OutOfThreshold"
)

// ErrInvalidSelection reports a conclusion label outside the
// classification's legal set. This is a programming error in the caller,
// not a user or runtime condition.
type ErrInvalidSelection struct {
	Classification Classification
	Selection      Selection
}

func (e *ErrInvalidSelection) Error() string {
	return fmt.Sprintf("conclusion: selection %q is not legal for %s missions",
		e.Selection, e.Classification)
}

// Mapping is the result of resolving a selection: which conclusion section
// holds the prose, and the structuredResponse value for the sync payload.
// When Present is false the field must be omitted from the payload
// entirely, not sent as null or empty.
type Mapping struct {
	Section            report.Section
	StructuredResponse string
	Present            bool
}

// Mapper resolves conclusion selections. NotTestableSection names the
// section the template author wrote the "not testable" note into; there is
// no universal rule, so it is caller-supplied metadata.
type Mapper struct {
	NotTestableSection report.Section
}

// NewMapper returns a Mapper routing NotTestable to conclusion-pass, the
// most common template layout.
func NewMapper() *Mapper {
	return &Mapper{NotTestableSection: report.SectionConclusionPass}
}

// Map is pure and total over the legal (classification, selection) pairs.
func (m *Mapper) Map(class Classification, sel Selection) (Mapping, error) {
	switch class {
	case Standard:
		switch sel {
		case Pass:
			return Mapping{Section: report.SectionConclusionPass, StructuredResponse: "no", Present: true}, nil
		case Fail:
			return Mapping{Section: report.SectionConclusionFail, StructuredResponse: "yes", Present: true}, nil
		case NotTestable:
			section := m.NotTestableSection
			if !section.IsConclusion() {
				section = report.SectionConclusionPass
			}
			return Mapping{Section: section}, nil
		}
	case SV2M:
		switch sel {
		case Vulnerable:
			return Mapping{Section: report.SectionConclusionFail, StructuredResponse: string(sel), Present: true}, nil
		case NotExploitable, OutOfThreshold:
			return Mapping{Section: report.SectionConclusionPass, StructuredResponse: string(sel), Present: true}, nil
		}
	}
	return Mapping{}, &ErrInvalidSelection{Classification: class, Selection: sel}
}
