package resumes

import (
	"context"
	"encoding/json"
)

// Repo persists resumes, quiz answers and personal info presets.
type Repo interface {
	Create(ctx context.Context, r Resume) error
	GetByID(ctx context.Context, userID, resumeID string) (Resume, error)
	Get(ctx context.Context, resumeID string) (Resume, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error)
	Delete(ctx context.Context, userID, resumeID string) error

	// UpdateSection overwrites a single subsection column.
	UpdateSection(ctx context.Context, userID, resumeID string, name SectionName, payload json.RawMessage) error
	UpdateTemplate(ctx context.Context, userID, resumeID, templateID string) error
	// UpdateStatus fails with ErrInvalidTransition when the stored status may not move to status.
	UpdateStatus(ctx context.Context, resumeID string, status CompletionStatus) error
	// UpdateCurrentStep never lowers the stored step.
	UpdateCurrentStep(ctx context.Context, userID, resumeID string, step int) error
	// SetCurrentStep stores step as is, lower or not.
	SetCurrentStep(ctx context.Context, userID, resumeID string, step int) error

	SaveQuizResponse(ctx context.Context, resp QuizResponse) error
	ListQuizResponses(ctx context.Context, resumeID string) ([]QuizResponse, error)

	ListPresets(ctx context.Context, userID string) ([]Preset, error)
	SavePreset(ctx context.Context, p Preset) error
}
