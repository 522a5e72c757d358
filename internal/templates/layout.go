package templates

import (
	"fmt"

	"resume-builder/internal/resumes"
)

// Strategy places sections into columns.
type Strategy struct {
	Name string
	Main []resumes.SectionName
	// Side is empty for single-column layouts.
	Side []resumes.SectionName
	// ProfileImage enables the header image slot when the template asks for it.
	ProfileImage bool
}

var (
	SingleColumn = Strategy{
		Name: "single-column",
		Main: []resumes.SectionName{
			resumes.SectionProfessionalSummary,
			resumes.SectionWorkExperience,
			resumes.SectionEducation,
			resumes.SectionSkills,
			resumes.SectionCertifications,
			resumes.SectionLanguages,
			resumes.SectionProjects,
		},
	}
	Sidebar = Strategy{
		Name: "sidebar",
		Main: []resumes.SectionName{
			resumes.SectionProfessionalSummary,
			resumes.SectionWorkExperience,
			resumes.SectionEducation,
			resumes.SectionProjects,
		},
		Side: []resumes.SectionName{
			resumes.SectionSkills,
			resumes.SectionCertifications,
			resumes.SectionLanguages,
		},
		ProfileImage: true,
	}
)

// strategies is keyed by template id.
var strategies = map[string]Strategy{
	"classic":   SingleColumn,
	"minimal":   SingleColumn,
	"modern":    Sidebar,
	"executive": Sidebar,
}

var layoutDefaults = map[Layout]Strategy{
	LayoutClassic:   SingleColumn,
	LayoutMinimal:   SingleColumn,
	LayoutModern:    Sidebar,
	LayoutExecutive: Sidebar,
}

// StrategyFor picks the strategy registered for the template id, falling
// back to the default for its layout variant.
func StrategyFor(d Descriptor) (Strategy, error) {
	if s, ok := strategies[d.ID]; ok {
		return s, nil
	}
	if s, ok := layoutDefaults[d.Layout]; ok {
		return s, nil
	}
	return Strategy{}, fmt.Errorf("%w: layout %q", ErrInvalidDescriptor, d.Layout)
}
