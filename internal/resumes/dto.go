package resumes

import "encoding/json"

type createRequest struct {
	Title        string        `json:"title"`
	TemplateID   string        `json:"templateId"`
	PresetID     string        `json:"presetId"`
	PersonalInfo *PersonalInfo `json:"personalInfo"`
}

type fieldUpdateRequest struct {
	Index *int            `json:"index"`
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

type templateRequest struct {
	TemplateID string `json:"templateId"`
}

type presetRequest struct {
	ID           string       `json:"id"`
	Label        string       `json:"label"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	IsDefault    bool         `json:"isDefault"`
}

type updateResponse struct {
	ResumeID  string      `json:"resumeId"`
	Section   SectionName `json:"section"`
	Value     any         `json:"value"`
	Persisted bool        `json:"persisted"`
	Warning   string      `json:"warning,omitempty"`
}

type listResponse struct {
	Items  []Resume `json:"items"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

func toUpdateResponse(u Update) updateResponse {
	return updateResponse{
		ResumeID:  u.Resume.ID,
		Section:   u.Section,
		Value:     u.Value,
		Persisted: u.Persisted,
		Warning:   u.Warning,
	}
}
