package resumes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() Resume {
	return Resume{
		ID:     "resume-1",
		UserID: "user-1",
		PersonalInfo: PersonalInfo{
			FullName: "Jane Doe", Email: "jane@example.com", Phone: "555-0100",
		},
		WorkExperience: []Experience{
			{JobTitle: "Engineer", CompanyName: "Acme", StartDate: "2019", EndDate: "2021", Responsibilities: []string{"Built APIs", "Led migrations"}},
			{JobTitle: "Senior Engineer", CompanyName: "Globex", StartDate: "2021", IsCurrentJob: true, Responsibilities: []string{"Owned billing"}},
		},
		Skills: Skills{HardSkills: []string{"Go"}, SoftSkills: []string{}},
	}
}

func intPtr(i int) *int { return &i }

func TestUpdateFieldIsolatesSiblings(t *testing.T) {
	doc := sampleResume()
	before, err := json.Marshal(doc.WorkExperience)
	require.NoError(t, err)

	next, err := UpdateField(doc, SectionWorkExperience, intPtr(0), "jobTitle", json.RawMessage(`"Staff Engineer"`))
	require.NoError(t, err)

	assert.Equal(t, "Staff Engineer", next.WorkExperience[0].JobTitle)
	assert.Equal(t, doc.WorkExperience[0].Responsibilities, next.WorkExperience[0].Responsibilities)

	origEntry1, _ := json.Marshal(doc.WorkExperience[1])
	nextEntry1, _ := json.Marshal(next.WorkExperience[1])
	assert.JSONEq(t, string(origEntry1), string(nextEntry1))

	after, _ := json.Marshal(doc.WorkExperience)
	assert.JSONEq(t, string(before), string(after), "input document must not change")
	assert.Equal(t, doc.PersonalInfo, next.PersonalInfo)
}

func TestUpdateFieldOnRecordSection(t *testing.T) {
	next, err := UpdateField(sampleResume(), SectionPersonalInfo, nil, "phone", json.RawMessage(`"555-0199"`))
	require.NoError(t, err)
	assert.Equal(t, "555-0199", next.PersonalInfo.Phone)
	assert.Equal(t, "Jane Doe", next.PersonalInfo.FullName)
}

func TestUpdateFieldReplacesNestedArray(t *testing.T) {
	next, err := UpdateField(sampleResume(), SectionWorkExperience, intPtr(1), "responsibilities", json.RawMessage(`["Owned billing","Hired team"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Owned billing", "Hired team"}, next.WorkExperience[1].Responsibilities)
}

func TestUpdateFieldErrors(t *testing.T) {
	doc := sampleResume()

	_, err := UpdateField(doc, SectionWorkExperience, intPtr(5), "jobTitle", json.RawMessage(`"x"`))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = UpdateField(doc, SectionWorkExperience, nil, "jobTitle", json.RawMessage(`"x"`))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = UpdateField(doc, SectionWorkExperience, intPtr(0), "salary", json.RawMessage(`"x"`))
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = UpdateField(doc, SectionWorkExperience, intPtr(0), "isCurrentJob", json.RawMessage(`"yes"`))
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = UpdateField(doc, "hobbies", nil, "name", json.RawMessage(`"x"`))
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestAddAndRemoveItems(t *testing.T) {
	doc := sampleResume()

	added, err := AddItem(doc, SectionWorkExperience)
	require.NoError(t, err)
	require.Len(t, added.WorkExperience, 3)
	assert.NotNil(t, added.WorkExperience[2].Responsibilities)
	assert.Len(t, doc.WorkExperience, 2)

	removed, err := RemoveItem(added, SectionWorkExperience, 0)
	require.NoError(t, err)
	require.Len(t, removed.WorkExperience, 2)
	assert.Equal(t, "Senior Engineer", removed.WorkExperience[0].JobTitle)

	_, err = RemoveItem(doc, SectionWorkExperience, 2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = AddItem(doc, SectionPersonalInfo)
	assert.ErrorIs(t, err, ErrNotList)
}

func TestReplaceDedupesSkills(t *testing.T) {
	next, err := Replace(sampleResume(), SectionSkills, json.RawMessage(`{"hardSkills":["Go","go"," SQL ",""],"softSkills":["Mentoring"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, next.Skills.HardSkills)
	assert.Equal(t, []string{"Mentoring"}, next.Skills.SoftSkills)
}

func TestReplaceRejectsUnknownFields(t *testing.T) {
	_, err := Replace(sampleResume(), SectionPersonalInfo, json.RawMessage(`{"fullName":"x","ssn":"123"}`))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSectionPayloadEmptyList(t *testing.T) {
	payload, err := SectionPayload(Resume{}, SectionProjects)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(payload))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusDraft, StatusEnhancing))
	assert.True(t, CanTransition(StatusEnhancing, StatusCompleted))
	assert.True(t, CanTransition(StatusEnhancing, StatusError))
	assert.True(t, CanTransition(StatusError, StatusDraft))
	assert.True(t, CanTransition(StatusCompleted, StatusDraft))
	assert.False(t, CanTransition(StatusDraft, StatusCompleted))
	assert.False(t, CanTransition(StatusError, StatusEnhancing))
	assert.ElementsMatch(t, []CompletionStatus{StatusCompleted, StatusError}, AllowedFrom(StatusDraft))
}
