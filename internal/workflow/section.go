package workflow

import (
	"fmt"
	"strings"
)

// Section identifies one narration section of a paper. The set is closed;
// wire values outside it are rejected rather than carried as open strings.
type Section string

const (
	SectionIntroduction Section = "Introduction"
	SectionMethodology  Section = "Methodology"
	SectionResults      Section = "Results"
	SectionDiscussion   Section = "Discussion"
	SectionConclusion   Section = "Conclusion"
)

var allSections = []Section{
	SectionIntroduction,
	SectionMethodology,
	SectionResults,
	SectionDiscussion,
	SectionConclusion,
}

var sectionSet = func() map[Section]struct{} {
	set := make(map[Section]struct{}, len(allSections))
	for _, section := range allSections {
		set[section] = struct{}{}
	}
	return set
}()

// AllSections returns the ordered list of known sections.
func AllSections() []Section {
	cp := make([]Section, len(allSections))
	copy(cp, allSections)
	return cp
}

// Valid reports whether s is a known section.
func (s Section) Valid() bool {
	_, ok := sectionSet[s]
	return ok
}

// String returns the canonical section name used on the wire.
func (s Section) String() string {
	return string(s)
}

// ParseSection converts a wire value into a known Section. Matching is
// case-insensitive; leading and trailing whitespace is ignored.
func ParseSection(value string) (Section, error) {
	normalized := strings.TrimSpace(value)
	for _, section := range allSections {
		if strings.EqualFold(string(section), normalized) {
			return section, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", value)
}
