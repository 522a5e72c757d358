package templates

import (
	"fmt"

	"resume-builder/internal/resumes"
)

var sectionIcons = map[resumes.SectionName]string{
	resumes.SectionPersonalInfo:        "id-card",
	resumes.SectionProfessionalSummary: "user",
	resumes.SectionWorkExperience:      "briefcase",
	resumes.SectionEducation:           "graduation-cap",
	resumes.SectionCertifications:      "award",
	resumes.SectionSkills:              "wrench",
	resumes.SectionLanguages:           "globe",
	resumes.SectionProjects:            "folder",
}

var bulletGlyphs = map[Bullet]string{
	BulletDot:   "•",
	BulletDash:  "–",
	BulletArrow: "→",
	BulletNone:  "",
}

var sectionTitles = map[resumes.SectionName]string{
	resumes.SectionPersonalInfo:        "Personal information",
	resumes.SectionProfessionalSummary: "Summary",
	resumes.SectionWorkExperience:      "Experience",
	resumes.SectionEducation:           "Education",
	resumes.SectionCertifications:      "Certifications",
	resumes.SectionSkills:              "Skills",
	resumes.SectionLanguages:           "Languages",
	resumes.SectionProjects:            "Projects",
}

// SectionIcon returns the icon name drawn next to a section header.
func SectionIcon(name resumes.SectionName) (string, error) {
	icon, ok := sectionIcons[name]
	if !ok {
		return "", fmt.Errorf("%w: section %q", ErrUnknownIcon, name)
	}
	return icon, nil
}

// BulletGlyph returns the marker for a bullet variant; BulletNone has none.
func BulletGlyph(b Bullet) (string, error) {
	glyph, ok := bulletGlyphs[b]
	if !ok {
		return "", fmt.Errorf("%w: bullet %q", ErrUnknownIcon, b)
	}
	return glyph, nil
}
