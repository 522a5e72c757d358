package resumes

import "time"

// CompletionStatus tracks the enhancement lifecycle of a resume.
type CompletionStatus string

const (
	StatusDraft     CompletionStatus = "draft"
	StatusEnhancing CompletionStatus = "enhancing"
	StatusCompleted CompletionStatus = "completed"
	StatusError     CompletionStatus = "error"
)

var allowedTransitions = map[CompletionStatus][]CompletionStatus{
	StatusDraft:     {StatusEnhancing},
	StatusEnhancing: {StatusCompleted, StatusError},
	StatusCompleted: {StatusDraft},
	StatusError:     {StatusDraft},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to CompletionStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedFrom lists the states that may move to to.
func AllowedFrom(to CompletionStatus) []CompletionStatus {
	var out []CompletionStatus
	for _, from := range []CompletionStatus{StatusDraft, StatusEnhancing, StatusCompleted, StatusError} {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// DefaultTemplateID is assigned when a resume is created without one.
const DefaultTemplateID = "classic"

// Resume is the root document owned by a single user.
type Resume struct {
	ID                  string              `json:"id"`
	UserID              string              `json:"userId"`
	Title               string              `json:"title"`
	TemplateID          string              `json:"templateId"`
	PersonalInfo        PersonalInfo        `json:"personalInfo"`
	ProfessionalSummary ProfessionalSummary `json:"professionalSummary"`
	WorkExperience      []Experience        `json:"workExperience"`
	Education           []Education         `json:"education"`
	Certifications      []Certification     `json:"certifications"`
	Skills              Skills              `json:"skills"`
	Languages           []Language          `json:"languages"`
	Projects            []Project           `json:"projects"`
	CompletionStatus    CompletionStatus    `json:"completionStatus"`
	CurrentStep         int                 `json:"currentStep"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

type PersonalInfo struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	LinkedIn        string `json:"linkedin,omitempty"`
	Website         string `json:"website,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

type ProfessionalSummary struct {
	Title                string `json:"title"`
	Summary              string `json:"summary"`
	TargetJobDescription string `json:"targetJobDescription,omitempty"`
}

type Experience struct {
	JobTitle         string   `json:"jobTitle"`
	CompanyName      string   `json:"companyName"`
	Location         string   `json:"location,omitempty"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	IsCurrentJob     bool     `json:"isCurrentJob"`
	Responsibilities []string `json:"responsibilities"`
}

type Education struct {
	DegreeName          string `json:"degreeName"`
	SchoolName          string `json:"schoolName"`
	StartDate           string `json:"startDate"`
	EndDate             string `json:"endDate"`
	IsCurrentlyEnrolled bool   `json:"isCurrentlyEnrolled"`
}

type Certification struct {
	Name           string `json:"name"`
	Organization   string `json:"organization"`
	CompletionDate string `json:"completionDate"`
}

type Skills struct {
	HardSkills []string `json:"hardSkills"`
	SoftSkills []string `json:"softSkills"`
}

type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

// QuizResponse is a stored wizard answer keyed by "{stepType}.{field}".
type QuizResponse struct {
	ResumeID    string    `json:"resumeId"`
	QuestionKey string    `json:"questionKey"`
	Response    string    `json:"response"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Preset is a reusable personal info block.
type Preset struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	Label        string       `json:"label"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	IsDefault    bool         `json:"isDefault"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
