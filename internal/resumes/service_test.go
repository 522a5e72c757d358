package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTemplates map[string]bool

func (s staticTemplates) Exists(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

type failingRepo struct {
	*MemoryRepo
}

func (failingRepo) UpdateSection(context.Context, string, string, SectionName, json.RawMessage) error {
	return errors.New("store unavailable")
}

func newTestService() *Service {
	return NewService(NewMemoryRepo(), staticTemplates{"classic": true, "modern": true})
}

func TestServiceCreateDefaults(t *testing.T) {
	svc := newTestService()
	doc, err := svc.Create(context.Background(), "user-1", CreateInput{})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, DefaultTemplateID, doc.TemplateID)
	assert.Equal(t, StatusDraft, doc.CompletionStatus)

	_, err = svc.Create(context.Background(), "user-1", CreateInput{TemplateID: "neon"})
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestServiceUpdateFieldPersists(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	doc, err := svc.Create(ctx, "user-1", CreateInput{})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "user-1", doc.ID, SectionWorkExperience)
	require.NoError(t, err)
	u, err := svc.UpdateField(ctx, "user-1", doc.ID, SectionWorkExperience, intPtr(0), "jobTitle", json.RawMessage(`"Engineer"`))
	require.NoError(t, err)
	assert.True(t, u.Persisted)
	assert.Empty(t, u.Warning)

	stored, err := svc.Get(ctx, "user-1", doc.ID)
	require.NoError(t, err)
	require.Len(t, stored.WorkExperience, 1)
	assert.Equal(t, "Engineer", stored.WorkExperience[0].JobTitle)
}

func TestServiceUpdateFieldWarnsOnPersistFailure(t *testing.T) {
	mem := NewMemoryRepo()
	svc := NewService(failingRepo{mem}, nil)
	ctx := context.Background()
	doc, err := svc.Create(ctx, "user-1", CreateInput{})
	require.NoError(t, err)

	u, err := svc.UpdateField(ctx, "user-1", doc.ID, SectionPersonalInfo, nil, "fullName", json.RawMessage(`"Jane"`))
	require.NoError(t, err)
	assert.False(t, u.Persisted)
	assert.NotEmpty(t, u.Warning)
	assert.Equal(t, "Jane", u.Resume.PersonalInfo.FullName)
}

func TestServiceOtherUsersCannotSeeResume(t *testing.T) {
	svc := newTestService()
	doc, err := svc.Create(context.Background(), "user-1", CreateInput{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "user-2", doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceSetTemplateKeepsContent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	doc, err := svc.Create(ctx, "user-1", CreateInput{PersonalInfo: &PersonalInfo{FullName: "Jane"}})
	require.NoError(t, err)

	updated, err := svc.SetTemplate(ctx, "user-1", doc.ID, "modern")
	require.NoError(t, err)
	assert.Equal(t, "modern", updated.TemplateID)
	assert.Equal(t, doc.PersonalInfo, updated.PersonalInfo)

	_, err = svc.SetTemplate(ctx, "user-1", doc.ID, "neon")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestServiceCheckpointNeverDecreases(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	doc, err := svc.Create(ctx, "user-1", CreateInput{})
	require.NoError(t, err)

	require.NoError(t, svc.Checkpoint(ctx, "user-1", doc.ID, 5))
	require.NoError(t, svc.Checkpoint(ctx, "user-1", doc.ID, 2))
	stored, err := svc.Get(ctx, "user-1", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.CurrentStep)
}

func TestServiceTransitionLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	doc, err := svc.Create(ctx, "user-1", CreateInput{})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Transition(ctx, doc.ID, StatusCompleted), ErrInvalidTransition)
	require.NoError(t, svc.Transition(ctx, doc.ID, StatusEnhancing))
	require.NoError(t, svc.Transition(ctx, doc.ID, StatusError))
	require.NoError(t, svc.Transition(ctx, doc.ID, StatusDraft))
}

func TestServiceEditReopensFinishedResume(t *testing.T) {
	for _, final := range []CompletionStatus{StatusCompleted, StatusError} {
		t.Run(string(final), func(t *testing.T) {
			svc := newTestService()
			ctx := context.Background()
			doc, err := svc.Create(ctx, "user-1", CreateInput{})
			require.NoError(t, err)
			require.NoError(t, svc.Transition(ctx, doc.ID, StatusEnhancing))
			require.NoError(t, svc.Transition(ctx, doc.ID, final))

			u, err := svc.UpdateField(ctx, "user-1", doc.ID, SectionProfessionalSummary, nil, "summary", json.RawMessage(`"ships things"`))
			require.NoError(t, err)
			assert.Equal(t, StatusDraft, u.Resume.CompletionStatus)

			stored, err := svc.Get(ctx, "user-1", doc.ID)
			require.NoError(t, err)
			assert.Equal(t, StatusDraft, stored.CompletionStatus)
			assert.Equal(t, "ships things", stored.ProfessionalSummary.Summary)
		})
	}
}

func TestServiceSetTemplateReopensCompletedResume(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	doc, err := svc.Create(ctx, "user-1", CreateInput{})
	require.NoError(t, err)
	require.NoError(t, svc.Transition(ctx, doc.ID, StatusEnhancing))
	require.NoError(t, svc.Transition(ctx, doc.ID, StatusCompleted))

	updated, err := svc.SetTemplate(ctx, "user-1", doc.ID, "modern")
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, updated.CompletionStatus)
}

func TestServiceEditLeavesEnhancingResume(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	doc, err := svc.Create(ctx, "user-1", CreateInput{})
	require.NoError(t, err)
	require.NoError(t, svc.Transition(ctx, doc.ID, StatusEnhancing))

	u, err := svc.UpdateField(ctx, "user-1", doc.ID, SectionProfessionalSummary, nil, "summary", json.RawMessage(`"ships things"`))
	require.NoError(t, err)
	assert.Equal(t, StatusEnhancing, u.Resume.CompletionStatus)
}

func TestServiceSavePresetRejectsForeignID(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	owned, err := svc.SavePreset(ctx, "user-1", Preset{Label: "work", PersonalInfo: PersonalInfo{FullName: "Jane"}, IsDefault: true})
	require.NoError(t, err)

	_, err = svc.SavePreset(ctx, "user-2", Preset{ID: owned.ID, Label: "stolen", PersonalInfo: PersonalInfo{FullName: "Eve"}, IsDefault: true})
	assert.ErrorIs(t, err, ErrNotFound)

	p, ok, err := svc.DefaultPreset(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Jane", p.PersonalInfo.FullName)
	_, ok, err = svc.DefaultPreset(ctx, "user-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestServiceDefaultPreset(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return base }

	_, ok, err := svc.DefaultPreset(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.SavePreset(ctx, "user-1", Preset{Label: "work", PersonalInfo: PersonalInfo{FullName: "Jane"}, IsDefault: true})
	require.NoError(t, err)
	svc.Now = func() time.Time { return base.Add(time.Hour) }
	_, err = svc.SavePreset(ctx, "user-1", Preset{Label: "side", PersonalInfo: PersonalInfo{FullName: "J. Doe"}})
	require.NoError(t, err)

	p, ok, err := svc.DefaultPreset(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "work", p.Label)
}
