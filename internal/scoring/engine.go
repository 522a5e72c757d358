package scoring

import (
	"sort"
	"strings"

	"resume-builder/internal/resumes"
)

type rule func(resumes.Resume) []Improvement

var rules = []rule{
	personalInfoRules,
	summaryRules,
	experienceRules,
	educationRules,
	skillsRules,
	certificationRules,
}

// Score derives a completeness score and ordered suggestions from doc.
// It has no side effects and returns identical output for identical input.
func Score(doc resumes.Resume) Result {
	improvements := make([]Improvement, 0, 8)
	for _, r := range rules {
		improvements = append(improvements, r(doc)...)
	}
	sortImprovements(improvements)

	score := 100
	for _, item := range improvements {
		score -= item.Points
	}
	if score < 0 {
		score = 0
	}
	return Result{Score: score, Level: levelFor(score), Improvements: improvements}
}

func levelFor(score int) Level {
	switch {
	case score >= 100:
		return LevelExcellent
	case score >= 90:
		return LevelStrong
	case score >= 70:
		return LevelGood
	case score >= 40:
		return LevelFair
	default:
		return LevelWeak
	}
}

func kindRank(k Kind) int {
	if k == KindCritical {
		return 0
	}
	return 1
}

func sortImprovements(items []Improvement) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if kindRank(a.Type) != kindRank(b.Type) {
			return kindRank(a.Type) < kindRank(b.Type)
		}
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.ID < b.ID
	})
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func personalInfoRules(doc resumes.Resume) []Improvement {
	var out []Improvement
	p := doc.PersonalInfo
	if blank(p.FullName) {
		out = append(out, Improvement{ID: "personal_name", Label: "Add your full name", Points: 10, Type: KindCritical, Section: "personalInfo"})
	}
	if blank(p.Email) && blank(p.Phone) {
		out = append(out, Improvement{ID: "personal_contact", Label: "Add an email address or phone number", Points: 10, Type: KindCritical, Section: "personalInfo"})
	}
	return out
}

func summaryRules(doc resumes.Resume) []Improvement {
	summary := strings.TrimSpace(doc.ProfessionalSummary.Summary)
	switch {
	case summary == "":
		return []Improvement{{ID: "summary_missing", Label: "Write a professional summary", Points: 15, Type: KindCritical, Section: "professionalSummary"}}
	case len([]rune(summary)) < MinSummaryChars:
		return []Improvement{{ID: "summary_short", Label: "Expand your professional summary", Points: 5, Type: KindOptimization, Section: "professionalSummary"}}
	}
	return nil
}

func experienceRules(doc resumes.Resume) []Improvement {
	if len(doc.WorkExperience) == 0 {
		return []Improvement{{ID: "experience_missing", Label: "Add at least one work experience", Points: 15, Type: KindCritical, Section: "workExperience"}}
	}
	var empty, few, undated bool
	for _, exp := range doc.WorkExperience {
		n := countNonBlank(exp.Responsibilities)
		switch {
		case n == 0:
			empty = true
		case n < MinResponsibilities:
			few = true
		}
		if blank(exp.StartDate) || (!exp.IsCurrentJob && blank(exp.EndDate)) {
			undated = true
		}
	}
	var out []Improvement
	if empty {
		out = append(out, Improvement{ID: "responsibilities_missing", Label: "Describe your responsibilities for every role", Points: 10, Type: KindCritical, Section: "workExperience"})
	}
	if few {
		out = append(out, Improvement{ID: "responsibilities_few", Label: "List at least three responsibilities per role", Points: 5, Type: KindOptimization, Section: "workExperience"})
	}
	if undated {
		out = append(out, Improvement{ID: "dates_incomplete", Label: "Complete the dates of your work experience", Points: 5, Type: KindOptimization, Section: "workExperience"})
	}
	return out
}

func educationRules(doc resumes.Resume) []Improvement {
	if len(doc.Education) == 0 {
		return []Improvement{{ID: "education_missing", Label: "Add your education", Points: 10, Type: KindCritical, Section: "education"}}
	}
	return nil
}

func skillsRules(doc resumes.Resume) []Improvement {
	n := countNonBlank(doc.Skills.HardSkills) + countNonBlank(doc.Skills.SoftSkills)
	if n < MinSkills {
		return []Improvement{{ID: "skills_few", Label: "List at least five skills", Points: 10, Type: KindOptimization, Section: "skills"}}
	}
	return nil
}

func certificationRules(doc resumes.Resume) []Improvement {
	if len(doc.Certifications) == 0 {
		return []Improvement{{ID: "certifications_missing", Label: "Add a certification", Points: 5, Type: KindOptimization, Section: "certifications"}}
	}
	return nil
}

func countNonBlank(values []string) int {
	n := 0
	for _, v := range values {
		if !blank(v) {
			n++
		}
	}
	return n
}
