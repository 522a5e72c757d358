package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/resumes"
)

func sampleResume() resumes.Resume {
	return resumes.Resume{
		ID:         "r1",
		UserID:     "u1",
		Title:      "Backend resume",
		TemplateID: "classic",
		PersonalInfo: resumes.PersonalInfo{
			FullName: "Ada Lovelace",
			Email:    "ada@example.com",
			Phone:    "+44 20 1234",
		},
		ProfessionalSummary: resumes.ProfessionalSummary{Title: "Engineer", Summary: "Builds analytical engines."},
		WorkExperience: []resumes.Experience{{
			JobTitle:         "Analyst",
			CompanyName:      "Engines Ltd",
			StartDate:        "1842-01",
			IsCurrentJob:     true,
			Responsibilities: []string{"Wrote the first program", "Annotated the notes"},
		}},
		Education:      []resumes.Education{{DegreeName: "Mathematics", SchoolName: "Home", StartDate: "1830", EndDate: "1835"}},
		Certifications: []resumes.Certification{{Name: "Royal Society", Organization: "RS", CompletionDate: "1840"}},
		Skills:         resumes.Skills{HardSkills: []string{"Go", "SQL"}, SoftSkills: []string{"Writing"}},
		Languages:      []resumes.Language{{Name: "French", Proficiency: "fluent"}},
	}
}

func descriptor(t *testing.T, id string) Descriptor {
	t.Helper()
	c, err := DefaultCatalog()
	require.NoError(t, err)
	d, err := c.Get(context.Background(), id)
	require.NoError(t, err)
	return d
}

func render(t *testing.T, doc resumes.Resume, d Descriptor, mode Mode) *goquery.Document {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	out, err := r.RenderHTML(doc, d, mode)
	require.NoError(t, err)
	page, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	require.NoError(t, err)
	return page
}

func TestRenderExposesSingleRoot(t *testing.T) {
	page := render(t, sampleResume(), descriptor(t, "classic"), ModeView)
	root := page.Find("#" + RootID)
	require.Equal(t, 1, root.Length())
	assert.Equal(t, "classic", root.AttrOr("data-template", ""))
	assert.Contains(t, root.Text(), "Ada Lovelace")
}

func TestRenderViewModeIsReadOnly(t *testing.T) {
	page := render(t, sampleResume(), descriptor(t, "classic"), ModeView)
	assert.Zero(t, page.Find("[contenteditable]").Length())
	assert.Zero(t, page.Find("[data-field]").Length())
	assert.Zero(t, page.Find("#section-projects").Length(), "empty sections are hidden in view mode")
}

func TestRenderEditModeAddressesEveryLeaf(t *testing.T) {
	page := render(t, sampleResume(), descriptor(t, "classic"), ModeEdit)

	leaves := page.Find("[contenteditable]")
	require.Positive(t, leaves.Length())
	leaves.Each(func(_ int, s *goquery.Selection) {
		assert.NotEmpty(t, s.AttrOr("data-section", ""))
		assert.NotEmpty(t, s.AttrOr("data-field", ""))
	})

	job := page.Find(`[data-section="workExperience"][data-index="0"][data-field="jobTitle"]`)
	require.Equal(t, 1, job.Length())
	assert.Equal(t, "Analyst", job.Text())

	second := page.Find(`[data-section="workExperience"][data-field="responsibilities"][data-item="1"]`)
	require.Equal(t, 1, second.Length())
	assert.Equal(t, "Annotated the notes", second.Text())

	name := page.Find(`[data-section="personalInfo"][data-field="fullName"]`)
	require.Equal(t, 1, name.Length())
	_, hasIndex := name.Attr("data-index")
	assert.False(t, hasIndex)

	assert.Equal(t, 1, page.Find("#section-projects").Length(), "edit mode shows empty sections")
	assert.Zero(t, page.Find(`[data-field="endDate"][data-section="workExperience"]`).Length(), "current job end date is not editable")
	assert.Contains(t, page.Find("#section-workExperience").Text(), "Present")
}

func TestRenderSingleColumnOrder(t *testing.T) {
	doc := sampleResume()
	doc.Projects = []resumes.Project{{Name: "Engine", Description: "Notes"}}
	page := render(t, doc, descriptor(t, "classic"), ModeView)

	assert.Zero(t, page.Find("aside.sidebar").Length())
	var order []string
	page.Find("main section").Each(func(_ int, s *goquery.Selection) {
		order = append(order, s.AttrOr("id", ""))
	})
	assert.Equal(t, []string{
		"section-professionalSummary",
		"section-workExperience",
		"section-education",
		"section-skills",
		"section-certifications",
		"section-languages",
		"section-projects",
	}, order)
}

func TestRenderSidebarPlacesSideSections(t *testing.T) {
	doc := sampleResume()
	doc.PersonalInfo.ProfileImageURL = "https://cdn.example.com/u1/r1/me.png"
	page := render(t, doc, descriptor(t, "modern"), ModeView)

	side := page.Find("aside.sidebar")
	require.Equal(t, 1, side.Length())
	assert.Equal(t, 1, side.Find("#section-skills").Length())
	assert.Equal(t, 1, side.Find("#section-certifications").Length())
	assert.Equal(t, 1, side.Find("#section-languages").Length())
	assert.Zero(t, page.Find("main #section-skills").Length())
	assert.Equal(t, doc.PersonalInfo.ProfileImageURL, page.Find("img.profile-image").AttrOr("src", ""))
}

func TestRenderHonorsIconPolicy(t *testing.T) {
	modern := render(t, sampleResume(), descriptor(t, "modern"), ModeView)
	assert.Positive(t, modern.Find("h2 .icon").Length())
	assert.Equal(t, "→", modern.Find(".bullet-glyph").First().Text())

	classic := render(t, sampleResume(), descriptor(t, "classic"), ModeView)
	assert.Zero(t, classic.Find("h2 .icon").Length())
	assert.Equal(t, "•", classic.Find(".bullet-glyph").First().Text())

	executive := render(t, sampleResume(), descriptor(t, "executive"), ModeView)
	assert.Zero(t, executive.Find(".bullet-glyph").Length())
	assert.Equal(t, 2, executive.Find(".bullets li").Length())
}

func TestRenderSwitchingTemplateKeepsContent(t *testing.T) {
	doc := sampleResume()
	before := render(t, doc, descriptor(t, "classic"), ModeEdit)
	after := render(t, doc, descriptor(t, "modern"), ModeEdit)

	assert.Equal(t, before.Find("[data-field]").Length(), after.Find("[data-field]").Length())
	assert.Equal(t, sampleResume(), doc)
}

func TestRenderEscapesContent(t *testing.T) {
	doc := sampleResume()
	doc.ProfessionalSummary.Summary = `<script>alert(1)</script>`
	page := render(t, doc, descriptor(t, "classic"), ModeView)
	assert.Zero(t, page.Find("#"+RootID+" script").Length())
	assert.Contains(t, page.Find(".field-summary").Text(), "<script>")
}

func TestRenderRejectsUnknownBullet(t *testing.T) {
	d := descriptor(t, "classic")
	d.Icons.Bullets = "star"
	r, err := NewRenderer()
	require.NoError(t, err)
	_, err = r.RenderHTML(sampleResume(), d, ModeView)
	assert.ErrorIs(t, err, ErrUnknownIcon)
}
