package models

// Section is one of the four fixed quiz categories
type Section string

const (
	SectionMath          Section = "A"
	SectionVerbal        Section = "B"
	SectionNonVerbal     Section = "C"
	SectionComprehension Section = "D"
)

// AllSections lists the sections in the order a student takes them
var AllSections = []Section{SectionMath, SectionVerbal, SectionNonVerbal, SectionComprehension}

var sectionNames = map[Section]string{
	SectionMath:          "Math",
	SectionVerbal:        "Verbal",
	SectionNonVerbal:     "Non-verbal",
	SectionComprehension: "Comprehension",
}

// Valid reports whether s is one of A, B, C or D
func (s Section) Valid() bool {
	_, ok := sectionNames[s]
	return ok
}

// Name returns the human-readable section name, or the code itself if unknown
func (s Section) Name() string {
	if name, ok := sectionNames[s]; ok {
		return name
	}
	return string(s)
}

// Next returns the section that follows s. The second result is false for D
// and for unknown sections.
func (s Section) Next() (Section, bool) {
	switch s {
	case SectionMath:
		return SectionVerbal, true
	case SectionVerbal:
		return SectionNonVerbal, true
	case SectionNonVerbal:
		return SectionComprehension, true
	}
	return "", false
}

// CurrentSection infers where a student is from the sections that already
// have a timing row. The furthest section reached wins: C → D, B → C, A → B,
// otherwise A.
func CurrentSection(completed map[Section]bool) Section {
	for i := 2; i >= 0; i-- {
		if completed[AllSections[i]] {
			return AllSections[i+1]
		}
	}
	return SectionMath
}
