package wizard

const (
	FlagHasStoredProfile = "has_stored_profile"
	FlagUseProfileData   = "use_profile_data"
	FlagRecipientIsSelf  = "is_self"
)

// Quiz step types.
const (
	StepProfileChoice       = "profile_choice"
	StepPersonalInfo        = "personal_info"
	StepProfessionalSummary = "professional_summary"
	StepWorkExperience      = "work_experience"
	StepEducation           = "education"
	StepSkills              = "skills"
	StepCertifications      = "certifications"
)

// Onboarding step types.
const (
	StepGoal             = "goal"
	StepRecipient        = "recipient"
	StepRecipientDetails = "recipient_details"
	StepExperience       = "experience"
	StepIndustry         = "industry"
)

var personalInfoFields = []Question{
	{Field: "fullName", Label: "Full name", Kind: KindText, Required: true},
	{Field: "email", Label: "Email", Kind: KindEmail, Required: true},
	{Field: "phone", Label: "Phone", Kind: KindText, Required: true},
	{Field: "linkedin", Label: "LinkedIn URL", Kind: KindText},
	{Field: "website", Label: "Website", Kind: KindText},
}

// QuizFlow is the resume creation quiz. The profile choice is only asked
// when a stored preset exists; choosing it skips personal info, declining it
// injects a personal info form.
func QuizFlow() *Flow {
	return &Flow{
		Name: "resume_quiz",
		Steps: []Step{
			{
				Type:  StepProfileChoice,
				Title: "Who is this resume for?",
				Questions: []Question{
					{Field: "use_profile_data", Label: "Use my stored profile data", Kind: KindBoolean, Required: true, Flag: FlagUseProfileData},
				},
				Mode: func(f Flags) Mode {
					if has, _ := f.IsSet(FlagHasStoredProfile); has {
						return ModeQuestions
					}
					return ModeSkip
				},
			},
			{
				Type:      StepPersonalInfo,
				Title:     "Personal information",
				Questions: personalInfoFields,
				Form: &Question{
					Field: "personalInfo", Label: "Enter the personal details for this resume",
					Kind: KindForm, Required: true, Fields: personalInfoFields,
				},
				Mode: func(f Flags) Mode {
					if has, _ := f.IsSet(FlagHasStoredProfile); !has {
						return ModeQuestions
					}
					use, answered := f.IsSet(FlagUseProfileData)
					switch {
					case answered && use:
						return ModeSkip
					case answered:
						return ModeForm
					default:
						return ModeQuestions
					}
				},
			},
			{
				Type:  StepProfessionalSummary,
				Title: "Professional summary",
				Questions: []Question{
					{Field: "title", Label: "Professional title", Kind: KindText, Required: true},
					{Field: "summary", Label: "Summarize your experience", Kind: KindTextarea, Required: true},
					{Field: "targetJobDescription", Label: "Paste the job description you are targeting", Kind: KindTextarea},
				},
			},
			{
				Type:  StepWorkExperience,
				Title: "Most recent role",
				Questions: []Question{
					{Field: "jobTitle", Label: "Job title", Kind: KindText, Required: true},
					{Field: "companyName", Label: "Company", Kind: KindText, Required: true},
					{Field: "location", Label: "Location", Kind: KindText},
					{Field: "startDate", Label: "Start date", Kind: KindText, Required: true},
					{Field: "isCurrentJob", Label: "I currently work here", Kind: KindBoolean},
					{Field: "endDate", Label: "End date", Kind: KindText},
					{Field: "responsibilities", Label: "Key responsibilities, one per line", Kind: KindTextarea, Required: true},
				},
			},
			{
				Type:  StepEducation,
				Title: "Education",
				Questions: []Question{
					{Field: "degreeName", Label: "Degree", Kind: KindText, Required: true},
					{Field: "schoolName", Label: "School", Kind: KindText, Required: true},
					{Field: "startDate", Label: "Start date", Kind: KindText},
					{Field: "isCurrentlyEnrolled", Label: "I am currently enrolled", Kind: KindBoolean},
					{Field: "endDate", Label: "End date", Kind: KindText},
				},
			},
			{
				Type:  StepSkills,
				Title: "Skills",
				Questions: []Question{
					{Field: "hardSkills", Label: "Technical skills, comma separated", Kind: KindTextarea, Required: true},
					{Field: "softSkills", Label: "Soft skills, comma separated", Kind: KindTextarea},
				},
			},
			{
				Type:  StepCertifications,
				Title: "Certifications",
				Questions: []Question{
					{Field: "name", Label: "Certification name", Kind: KindText},
					{Field: "organization", Label: "Issuing organization", Kind: KindText},
					{Field: "completionDate", Label: "Completion date", Kind: KindText},
				},
			},
		},
	}
}

// OnboardingFlow is the signup funnel. Declining "for myself" injects a
// recipient details form.
func OnboardingFlow() *Flow {
	return &Flow{
		Name: "onboarding",
		Steps: []Step{
			{
				Type:  StepGoal,
				Title: "What brings you here?",
				Questions: []Question{
					{Field: "purpose", Label: "Main goal", Kind: KindChoice, Required: true,
						Options: []string{"job_search", "career_change", "promotion", "first_job"}},
				},
			},
			{
				Type:  StepRecipient,
				Title: "Who are you building a resume for?",
				Questions: []Question{
					{Field: "is_self", Label: "This resume is for me", Kind: KindBoolean, Required: true, Flag: FlagRecipientIsSelf},
				},
			},
			{
				Type:  StepRecipientDetails,
				Title: "About the recipient",
				Form: &Question{
					Field: "recipient", Label: "Tell us about the person", Kind: KindForm, Required: true,
					Fields: []Question{
						{Field: "fullName", Label: "Full name", Kind: KindText, Required: true},
						{Field: "email", Label: "Email", Kind: KindEmail},
						{Field: "relationship", Label: "Relationship", Kind: KindText},
					},
				},
				Mode: func(f Flags) Mode {
					if self, answered := f.IsSet(FlagRecipientIsSelf); answered && !self {
						return ModeForm
					}
					return ModeSkip
				},
			},
			{
				Type:  StepExperience,
				Title: "Experience level",
				Questions: []Question{
					{Field: "experience_level", Label: "Experience level", Kind: KindChoice, Required: true,
						Options: []string{"entry", "mid", "senior", "executive"}},
				},
			},
			{
				Type:  StepIndustry,
				Title: "Industry",
				Questions: []Question{
					{Field: "industry", Label: "Target industry", Kind: KindText},
				},
			},
		},
	}
}
