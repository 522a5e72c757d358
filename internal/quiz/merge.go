package quiz

import (
	"encoding/json"
	"fmt"
	"strings"

	"resume-builder/internal/resumes"
	"resume-builder/internal/wizard"
)

var stepSections = map[string]resumes.SectionName{
	wizard.StepPersonalInfo:        resumes.SectionPersonalInfo,
	wizard.StepProfessionalSummary: resumes.SectionProfessionalSummary,
	wizard.StepWorkExperience:      resumes.SectionWorkExperience,
	wizard.StepEducation:           resumes.SectionEducation,
	wizard.StepSkills:              resumes.SectionSkills,
	wizard.StepCertifications:      resumes.SectionCertifications,
}

// listSteps fill the first item of a list subsection.
var listSteps = map[string]bool{
	wizard.StepWorkExperience: true,
	wizard.StepEducation:      true,
	wizard.StepCertifications: true,
}

// mergeAnswer applies one answer to doc and returns the touched subsection.
// ok is false when the answer does not change the document.
func mergeAnswer(doc resumes.Resume, q wizard.Question, ans wizard.Answer) (resumes.Resume, resumes.SectionName, bool, error) {
	name, mapped := stepSections[ans.StepType]
	if !mapped {
		return doc, "", false, nil
	}

	if q.Kind == wizard.KindForm {
		out, err := resumes.Replace(doc, name, json.RawMessage(ans.Value))
		return out, name, err == nil, err
	}

	var index *int
	if listSteps[ans.StepType] {
		items, err := listLen(doc, name)
		if err != nil {
			return doc, "", false, err
		}
		if items == 0 {
			if ans.Value == "" {
				return doc, "", false, nil
			}
			if doc, err = resumes.AddItem(doc, name); err != nil {
				return doc, "", false, err
			}
		}
		first := 0
		index = &first
	}

	raw, err := fieldValue(ans.StepType, q, ans.Value)
	if err != nil {
		return doc, "", false, err
	}
	out, err := resumes.UpdateField(doc, name, index, q.Field, raw)
	if err != nil {
		return doc, "", false, err
	}
	return out, name, true, nil
}

func fieldValue(stepType string, q wizard.Question, value string) (json.RawMessage, error) {
	switch {
	case q.Kind == wizard.KindBoolean:
		b := false
		switch strings.ToLower(value) {
		case "true", "yes", "1":
			b = true
		}
		return json.Marshal(b)
	case stepType == wizard.StepWorkExperience && q.Field == "responsibilities":
		return json.Marshal(splitNonEmpty(value, "\n"))
	case stepType == wizard.StepSkills:
		return json.Marshal(splitNonEmpty(value, ","))
	default:
		return json.Marshal(value)
	}
}

func listLen(doc resumes.Resume, name resumes.SectionName) (int, error) {
	v, err := resumes.SectionValue(doc, name)
	if err != nil {
		return 0, err
	}
	switch items := v.(type) {
	case []resumes.Experience:
		return len(items), nil
	case []resumes.Education:
		return len(items), nil
	case []resumes.Certification:
		return len(items), nil
	}
	return 0, fmt.Errorf("%w: %s", resumes.ErrNotList, name)
}

func splitNonEmpty(value, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(value, sep) {
		part = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(part), "-•*"))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
