package resumes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// SectionName identifies a subsection of a resume.
type SectionName string

const (
	SectionPersonalInfo        SectionName = "personalInfo"
	SectionProfessionalSummary SectionName = "professionalSummary"
	SectionWorkExperience      SectionName = "workExperience"
	SectionEducation           SectionName = "education"
	SectionCertifications      SectionName = "certifications"
	SectionSkills              SectionName = "skills"
	SectionLanguages           SectionName = "languages"
	SectionProjects            SectionName = "projects"
)

// Section pairs an accessor and mutator for one subsection of type T.
// T is either a struct or a slice of structs.
type Section[T any] struct {
	Name      SectionName
	Column    string
	Get       func(*Resume) T
	Set       func(*Resume, T)
	Normalize func(T) T
}

// sectionOps is the type-erased view used for dispatch by SectionName.
type sectionOps interface {
	column() string
	value(doc *Resume) any
	updateField(doc *Resume, index *int, field string, raw json.RawMessage) error
	addItem(doc *Resume) error
	removeItem(doc *Resume, index int) error
	replace(doc *Resume, raw json.RawMessage) error
}

func (s Section[T]) column() string { return s.Column }

func (s Section[T]) value(doc *Resume) any { return s.Get(doc) }

func (s Section[T]) updateField(doc *Resume, index *int, field string, raw json.RawMessage) error {
	cur, err := clone(s.Get(doc))
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(&cur).Elem()
	target := rv
	if rv.Kind() == reflect.Slice {
		if index == nil {
			return fmt.Errorf("%w: %s requires an index", ErrIndexOutOfRange, s.Name)
		}
		if *index < 0 || *index >= rv.Len() {
			return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, s.Name, *index)
		}
		target = rv.Index(*index)
	}
	if err := assignField(target, field, raw); err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	s.store(doc, cur)
	return nil
}

func (s Section[T]) addItem(doc *Resume) error {
	cur, err := clone(s.Get(doc))
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(&cur).Elem()
	if rv.Kind() != reflect.Slice {
		return fmt.Errorf("%w: %s", ErrNotList, s.Name)
	}
	rv.Set(reflect.Append(rv, blankItem(rv.Type().Elem())))
	s.store(doc, cur)
	return nil
}

func (s Section[T]) removeItem(doc *Resume, index int) error {
	cur, err := clone(s.Get(doc))
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(&cur).Elem()
	if rv.Kind() != reflect.Slice {
		return fmt.Errorf("%w: %s", ErrNotList, s.Name)
	}
	if index < 0 || index >= rv.Len() {
		return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, s.Name, index)
	}
	out := reflect.MakeSlice(rv.Type(), 0, rv.Len()-1)
	out = reflect.AppendSlice(out, rv.Slice(0, index))
	out = reflect.AppendSlice(out, rv.Slice(index+1, rv.Len()))
	rv.Set(out)
	s.store(doc, cur)
	return nil
}

func (s Section[T]) replace(doc *Resume, raw json.RawMessage) error {
	var next T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&next); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, s.Name, err)
	}
	s.store(doc, next)
	return nil
}

func (s Section[T]) store(doc *Resume, v T) {
	if s.Normalize != nil {
		v = s.Normalize(v)
	}
	s.Set(doc, v)
}

var sections = map[SectionName]sectionOps{
	SectionPersonalInfo: Section[PersonalInfo]{
		Name: SectionPersonalInfo, Column: "personal_info",
		Get: func(r *Resume) PersonalInfo { return r.PersonalInfo },
		Set: func(r *Resume, v PersonalInfo) { r.PersonalInfo = v },
	},
	SectionProfessionalSummary: Section[ProfessionalSummary]{
		Name: SectionProfessionalSummary, Column: "professional_summary",
		Get: func(r *Resume) ProfessionalSummary { return r.ProfessionalSummary },
		Set: func(r *Resume, v ProfessionalSummary) { r.ProfessionalSummary = v },
	},
	SectionWorkExperience: Section[[]Experience]{
		Name: SectionWorkExperience, Column: "work_experience",
		Get: func(r *Resume) []Experience { return r.WorkExperience },
		Set: func(r *Resume, v []Experience) { r.WorkExperience = v },
	},
	SectionEducation: Section[[]Education]{
		Name: SectionEducation, Column: "education",
		Get: func(r *Resume) []Education { return r.Education },
		Set: func(r *Resume, v []Education) { r.Education = v },
	},
	SectionCertifications: Section[[]Certification]{
		Name: SectionCertifications, Column: "certifications",
		Get: func(r *Resume) []Certification { return r.Certifications },
		Set: func(r *Resume, v []Certification) { r.Certifications = v },
	},
	SectionSkills: Section[Skills]{
		Name: SectionSkills, Column: "skills",
		Get:       func(r *Resume) Skills { return r.Skills },
		Set:       func(r *Resume, v Skills) { r.Skills = v },
		Normalize: normalizeSkills,
	},
	SectionLanguages: Section[[]Language]{
		Name: SectionLanguages, Column: "languages",
		Get: func(r *Resume) []Language { return r.Languages },
		Set: func(r *Resume, v []Language) { r.Languages = v },
	},
	SectionProjects: Section[[]Project]{
		Name: SectionProjects, Column: "projects",
		Get: func(r *Resume) []Project { return r.Projects },
		Set: func(r *Resume, v []Project) { r.Projects = v },
	},
}

// ParseSection validates a section name from a request path.
func ParseSection(raw string) (SectionName, error) {
	name := SectionName(strings.TrimSpace(raw))
	if _, ok := sections[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, raw)
	}
	return name, nil
}

// Sections lists every section name in document order.
func Sections() []SectionName {
	return []SectionName{
		SectionPersonalInfo, SectionProfessionalSummary, SectionWorkExperience, SectionEducation,
		SectionCertifications, SectionSkills, SectionLanguages, SectionProjects,
	}
}

// Column returns the storage column of a section.
func Column(name SectionName) (string, error) {
	ops, ok := sections[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	return ops.column(), nil
}

func clone[T any](v T) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, err
	}
	return out, nil
}

// assignField sets the struct field whose JSON name is field.
func assignField(target reflect.Value, field string, raw json.RawMessage) error {
	t := target.Type()
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != field {
			continue
		}
		ptr := reflect.New(t.Field(i).Type)
		if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
		}
		target.Field(i).Set(ptr.Elem())
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, field)
}

// blankItem builds a new list entry with empty nested slices instead of nil.
func blankItem(t reflect.Type) reflect.Value {
	item := reflect.New(t).Elem()
	for i := 0; i < t.NumField(); i++ {
		if f := item.Field(i); f.Kind() == reflect.Slice {
			f.Set(reflect.MakeSlice(f.Type(), 0, 0))
		}
	}
	return item
}

func normalizeSkills(s Skills) Skills {
	return Skills{HardSkills: dedupe(s.HardSkills), SoftSkills: dedupe(s.SoftSkills)}
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
