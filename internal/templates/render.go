package templates

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"strconv"
	"strings"

	"resume-builder/internal/resumes"
)

// RootID is the id of the node wrapping the rendered document.
const RootID = "resume-document-root"

//go:embed assets/resume.html.tmpl
var pageTemplate string

// leaf is a single text node. In edit mode it carries the address needed to
// commit it with one field update.
type leaf struct {
	Section resumes.SectionName
	Index   int
	Field   string
	Item    int
	Text    string
	Edit    bool
	Static  bool
}

type entry struct {
	Heading []leaf
	Meta    []leaf
	Body    []leaf
	Bullets []leaf
}

type block struct {
	Name    resumes.SectionName
	Title   string
	Icon    string
	Glyph   string
	Entries []entry
	Tags    []leaf
}

type header struct {
	Name      leaf
	Title     *leaf
	Contact   []leaf
	ImageSlot bool
	ImageURL  string
}

type page struct {
	Title    string
	Template Descriptor
	Strategy string
	Mode     Mode
	Sidebar  string
	Header   header
	Main     []block
	Side     []block
}

// Renderer turns a resume and a descriptor into an HTML page.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("resume").Funcs(template.FuncMap{"attrs": leafAttrs}).Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse resume template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page for doc. Sections are placed by the strategy of d;
// in edit mode every leaf is contenteditable and addressed by data-section,
// data-index and data-field.
func (r *Renderer) Render(w io.Writer, doc resumes.Resume, d Descriptor, mode Mode) error {
	strategy, err := StrategyFor(d)
	if err != nil {
		return err
	}
	glyph, err := BulletGlyph(d.Icons.Bullets)
	if err != nil {
		return err
	}
	b := builder{doc: doc, edit: mode == ModeEdit}

	p := page{
		Title:    doc.Title,
		Template: d,
		Strategy: strategy.Name,
		Mode:     mode,
		Sidebar:  d.Colors.Sidebar,
		Header:   b.header(strategy.ProfileImage && d.ProfileImage),
	}
	if p.Sidebar == "" {
		p.Sidebar = d.Colors.Background
	}
	if p.Title == "" {
		p.Title = doc.PersonalInfo.FullName
	}
	for _, placement := range []struct {
		names []resumes.SectionName
		dst   *[]block
	}{{strategy.Main, &p.Main}, {strategy.Side, &p.Side}} {
		for _, name := range placement.names {
			blk, err := b.block(name, d.Icons.Sections, glyph)
			if err != nil {
				return err
			}
			if !b.edit && blk.empty() {
				continue
			}
			*placement.dst = append(*placement.dst, blk)
		}
	}
	return r.tmpl.ExecuteTemplate(w, "page", p)
}

// RenderHTML is Render into a byte slice.
func (r *Renderer) RenderHTML(doc resumes.Resume, d Descriptor, mode Mode) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, doc, d, mode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b block) empty() bool {
	return len(b.Entries) == 0 && len(b.Tags) == 0
}

type builder struct {
	doc  resumes.Resume
	edit bool
}

func (b builder) leaf(section resumes.SectionName, index int, field, text string) leaf {
	return leaf{Section: section, Index: index, Field: field, Item: -1, Text: strings.TrimSpace(text), Edit: b.edit}
}

func (b builder) item(section resumes.SectionName, index int, field string, item int, text string) leaf {
	l := b.leaf(section, index, field, text)
	l.Item = item
	return l
}

func static(text string) leaf {
	return leaf{Index: -1, Item: -1, Text: text, Static: true}
}

func (b builder) header(imageSlot bool) header {
	pi := b.doc.PersonalInfo
	h := header{
		Name:      b.leaf(resumes.SectionPersonalInfo, -1, "fullName", pi.FullName),
		ImageSlot: imageSlot,
		ImageURL:  pi.ProfileImageURL,
	}
	if title := b.leaf(resumes.SectionProfessionalSummary, -1, "title", b.doc.ProfessionalSummary.Title); title.Text != "" || b.edit {
		h.Title = &title
	}
	for _, f := range []struct{ field, value string }{
		{"email", pi.Email}, {"phone", pi.Phone}, {"linkedin", pi.LinkedIn}, {"website", pi.Website},
	} {
		h.Contact = append(h.Contact, b.leaf(resumes.SectionPersonalInfo, -1, f.field, f.value))
	}
	return h
}

func (b builder) block(name resumes.SectionName, icons bool, glyph string) (block, error) {
	blk := block{Name: name, Title: sectionTitles[name], Glyph: glyph}
	if icons {
		icon, err := SectionIcon(name)
		if err != nil {
			return block{}, err
		}
		blk.Icon = icon
	}
	doc := b.doc
	switch name {
	case resumes.SectionProfessionalSummary:
		if doc.ProfessionalSummary.Summary != "" || b.edit {
			blk.Entries = append(blk.Entries, entry{Body: []leaf{b.leaf(name, -1, "summary", doc.ProfessionalSummary.Summary)}})
		}
	case resumes.SectionWorkExperience:
		for i, exp := range doc.WorkExperience {
			e := entry{
				Heading: []leaf{b.leaf(name, i, "jobTitle", exp.JobTitle), b.leaf(name, i, "companyName", exp.CompanyName)},
				Meta:    []leaf{b.leaf(name, i, "location", exp.Location), b.leaf(name, i, "startDate", exp.StartDate), b.endDate(name, i, exp.EndDate, exp.IsCurrentJob)},
			}
			for j, r := range exp.Responsibilities {
				e.Bullets = append(e.Bullets, b.item(name, i, "responsibilities", j, r))
			}
			blk.Entries = append(blk.Entries, e)
		}
	case resumes.SectionEducation:
		for i, ed := range doc.Education {
			blk.Entries = append(blk.Entries, entry{
				Heading: []leaf{b.leaf(name, i, "degreeName", ed.DegreeName), b.leaf(name, i, "schoolName", ed.SchoolName)},
				Meta:    []leaf{b.leaf(name, i, "startDate", ed.StartDate), b.endDate(name, i, ed.EndDate, ed.IsCurrentlyEnrolled)},
			})
		}
	case resumes.SectionCertifications:
		for i, c := range doc.Certifications {
			blk.Entries = append(blk.Entries, entry{
				Heading: []leaf{b.leaf(name, i, "name", c.Name)},
				Meta:    []leaf{b.leaf(name, i, "organization", c.Organization), b.leaf(name, i, "completionDate", c.CompletionDate)},
			})
		}
	case resumes.SectionSkills:
		for j, s := range doc.Skills.HardSkills {
			blk.Tags = append(blk.Tags, b.item(name, -1, "hardSkills", j, s))
		}
		for j, s := range doc.Skills.SoftSkills {
			blk.Tags = append(blk.Tags, b.item(name, -1, "softSkills", j, s))
		}
	case resumes.SectionLanguages:
		for i, l := range doc.Languages {
			blk.Entries = append(blk.Entries, entry{
				Heading: []leaf{b.leaf(name, i, "name", l.Name)},
				Meta:    []leaf{b.leaf(name, i, "proficiency", l.Proficiency)},
			})
		}
	case resumes.SectionProjects:
		for i, p := range doc.Projects {
			blk.Entries = append(blk.Entries, entry{
				Heading: []leaf{b.leaf(name, i, "name", p.Name)},
				Meta:    []leaf{b.leaf(name, i, "startDate", p.StartDate), b.leaf(name, i, "endDate", p.EndDate), b.leaf(name, i, "link", p.Link)},
				Body:    []leaf{b.leaf(name, i, "description", p.Description)},
			})
		}
	default:
		return block{}, fmt.Errorf("%w: %q", resumes.ErrUnknownSection, name)
	}
	return blk, nil
}

func (b builder) endDate(name resumes.SectionName, index int, value string, current bool) leaf {
	if current {
		return static("Present")
	}
	return b.leaf(name, index, "endDate", value)
}

// leafAttrs renders the editing address of a leaf. Values are escaped here
// because HTMLAttr bypasses the template escaper.
func leafAttrs(l leaf) template.HTMLAttr {
	if !l.Edit || l.Static {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`contenteditable="true"`)
	sb.WriteString(` data-section="` + html.EscapeString(string(l.Section)) + `"`)
	if l.Index >= 0 {
		sb.WriteString(` data-index="` + strconv.Itoa(l.Index) + `"`)
	}
	sb.WriteString(` data-field="` + html.EscapeString(l.Field) + `"`)
	if l.Item >= 0 {
		sb.WriteString(` data-item="` + strconv.Itoa(l.Item) + `"`)
	}
	sb.WriteString(` data-placeholder="` + html.EscapeString(placeholder(l.Field)) + `"`)
	return template.HTMLAttr(sb.String())
}

func placeholder(field string) string {
	var sb strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			sb.WriteByte(' ')
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	out := sb.String()
	if out == "" {
		return out
	}
	return strings.ToUpper(out[:1]) + out[1:]
}
