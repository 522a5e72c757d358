package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/wizard"
)

// storedProfileKey pins the has-stored-profile branch decision for a resume
// so that presets created mid-quiz do not reshape the flow.
var storedProfileKey = wizard.AnswerKey(wizard.StepProfileChoice, wizard.FlagHasStoredProfile)

// Enhancer starts AI enhancement when the quiz completes.
type Enhancer interface {
	Start(ctx context.Context, userID, resumeID string) error
}

// Service drives the resume quiz for one document.
type Service struct {
	Resumes *resumes.Service
	Enhance Enhancer
	Flow    *wizard.Flow
}

func NewService(docs *resumes.Service, enhancer Enhancer) *Service {
	return &Service{Resumes: docs, Enhance: enhancer, Flow: wizard.QuizFlow()}
}

// View is what the client renders for the current quiz state.
type View struct {
	ResumeID  string           `json:"resumeId"`
	Question  *wizard.Question `json:"question,omitempty"`
	StepTitle string           `json:"stepTitle,omitempty"`
	Position  wizard.Position  `json:"position"`
	Flags     wizard.Flags     `json:"flags"`
	// Enhancing is true once the last answer started enhancement.
	Enhancing bool   `json:"enhancing"`
	Warning   string `json:"warning,omitempty"`
}

// Current returns the question the resume is parked on.
func (s *Service) Current(ctx context.Context, userID, resumeID string) (View, error) {
	_, sess, err := s.session(ctx, userID, resumeID, 0)
	if err != nil {
		return View{}, err
	}
	return s.view(resumeID, sess), nil
}

// Next answers a question, merges the answer into the document, saves
// progress and starts enhancement after the last question. at is the
// checkpoint of the question being answered, as reported by Back; zero
// answers the furthest question reached. Stored progress never moves back,
// unless the answer flips a branch flag: then progress restarts right after
// the changed question, since later positions belong to the old branch.
func (s *Service) Next(ctx context.Context, userID, resumeID string, at int, value string) (View, error) {
	doc, sess, err := s.session(ctx, userID, resumeID, at)
	if err != nil {
		return View{}, err
	}
	q, ok := sess.Current()
	if !ok {
		return View{}, wizard.ErrComplete
	}
	var before, hadFlag bool
	if q.Flag != "" {
		before, hadFlag = sess.Flags().IsSet(q.Flag)
	}
	ans, err := sess.Next(value)
	if err != nil {
		return View{}, err
	}
	after, _ := sess.Flags().IsSet(q.Flag)
	rebranched := hadFlag && after != before
	next, section, changed, err := mergeAnswer(doc, q, ans)
	if err != nil {
		if resumes.IsClientError(err) {
			return View{}, &wizard.ValidationError{Field: q.Field, Message: err.Error()}
		}
		return View{}, err
	}
	if err := s.Resumes.SaveQuizResponse(ctx, resumeID, ans.Key, ans.Value); err != nil {
		return View{}, fmt.Errorf("save answer: %w", err)
	}

	var warning string
	switch {
	case q.Flag == wizard.FlagUseProfileData && after:
		warning, err = s.applyPreset(ctx, userID, doc)
	case q.Flag == wizard.FlagUseProfileData && rebranched:
		warning, err = s.clearPersonalInfo(ctx, userID, doc)
	case changed:
		warning, err = s.replace(ctx, userID, resumeID, next, section)
	}
	if err != nil {
		return View{}, err
	}
	if rebranched {
		telemetry.Info("quiz.branch_changed", map[string]any{"resume_id": resumeID, "flag": q.Flag, "value": after})
		err = s.Resumes.ResetCheckpoint(ctx, userID, resumeID, sess.Checkpoint())
	} else {
		err = s.Resumes.Checkpoint(ctx, userID, resumeID, sess.Checkpoint())
	}
	if err != nil {
		return View{}, fmt.Errorf("checkpoint: %w", err)
	}

	out := s.view(resumeID, sess)
	out.Warning = warning
	if sess.Done() && s.Enhance != nil {
		if err := s.Enhance.Start(ctx, userID, resumeID); err != nil {
			return View{}, fmt.Errorf("start enhancement: %w", err)
		}
		out.Enhancing = true
	}
	return out, nil
}

// Back moves to the question before at (zero means the furthest reached).
// Stored progress is not lowered, so a reload resumes at the furthest
// question; the returned position is passed to Next to answer again.
func (s *Service) Back(ctx context.Context, userID, resumeID string, at int) (View, error) {
	_, sess, err := s.session(ctx, userID, resumeID, at)
	if err != nil {
		return View{}, err
	}
	sess.Back()
	return s.view(resumeID, sess), nil
}

// SaveAndExit records the current position.
func (s *Service) SaveAndExit(ctx context.Context, userID, resumeID string) (View, error) {
	_, sess, err := s.session(ctx, userID, resumeID, 0)
	if err != nil {
		return View{}, err
	}
	if err := s.Resumes.Checkpoint(ctx, userID, resumeID, sess.Checkpoint()); err != nil {
		return View{}, err
	}
	return s.view(resumeID, sess), nil
}

func (s *Service) session(ctx context.Context, userID, resumeID string, at int) (resumes.Resume, *wizard.Session, error) {
	doc, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return resumes.Resume{}, nil, err
	}
	answers, err := s.Resumes.QuizAnswers(ctx, resumeID)
	if err != nil {
		return resumes.Resume{}, nil, err
	}
	flags := s.Flow.FlagsFrom(answers)
	hasProfile, err := s.hasStoredProfile(ctx, userID, resumeID, answers)
	if err != nil {
		return resumes.Resume{}, nil, err
	}
	flags[wizard.FlagHasStoredProfile] = hasProfile
	checkpoint := doc.CurrentStep
	if at > 0 && at < checkpoint {
		checkpoint = at
	}
	return doc, wizard.Restore(s.Flow, flags, checkpoint), nil
}

func (s *Service) hasStoredProfile(ctx context.Context, userID, resumeID string, answers map[string]string) (bool, error) {
	if raw, ok := answers[storedProfileKey]; ok {
		v, err := strconv.ParseBool(raw)
		return err == nil && v, nil
	}
	_, has, err := s.Resumes.DefaultPreset(ctx, userID)
	if err != nil {
		return false, err
	}
	if err := s.Resumes.SaveQuizResponse(ctx, resumeID, storedProfileKey, strconv.FormatBool(has)); err != nil {
		return false, err
	}
	return has, nil
}

func (s *Service) applyPreset(ctx context.Context, userID string, doc resumes.Resume) (string, error) {
	preset, ok, err := s.Resumes.DefaultPreset(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		telemetry.Warn("quiz.preset_missing", map[string]any{"user_id": userID, "resume_id": doc.ID})
		return "", nil
	}
	payload, err := json.Marshal(preset.PersonalInfo)
	if err != nil {
		return "", err
	}
	next, err := resumes.Replace(doc, resumes.SectionPersonalInfo, payload)
	if err != nil {
		return "", err
	}
	return s.replace(ctx, userID, doc.ID, next, resumes.SectionPersonalInfo)
}

// clearPersonalInfo drops preset details after the user opts to enter new
// ones. The uploaded profile image belongs to the resume and stays.
func (s *Service) clearPersonalInfo(ctx context.Context, userID string, doc resumes.Resume) (string, error) {
	payload, err := json.Marshal(resumes.PersonalInfo{ProfileImageURL: doc.PersonalInfo.ProfileImageURL})
	if err != nil {
		return "", err
	}
	next, err := resumes.Replace(doc, resumes.SectionPersonalInfo, payload)
	if err != nil {
		return "", err
	}
	return s.replace(ctx, userID, doc.ID, next, resumes.SectionPersonalInfo)
}

func (s *Service) replace(ctx context.Context, userID, resumeID string, next resumes.Resume, name resumes.SectionName) (string, error) {
	payload, err := resumes.SectionPayload(next, name)
	if err != nil {
		return "", err
	}
	update, err := s.Resumes.ReplaceSection(ctx, userID, resumeID, name, payload)
	if err != nil {
		return "", err
	}
	return update.Warning, nil
}

func (s *Service) view(resumeID string, sess *wizard.Session) View {
	v := View{ResumeID: resumeID, Position: sess.Position(), Flags: sess.Flags()}
	if q, ok := sess.Current(); ok {
		v.Question = &q
		for _, st := range s.Flow.Steps {
			if st.Type == v.Position.StepType {
				v.StepTitle = st.Title
				break
			}
		}
	}
	return v
}

// IsClientError reports errors caused by the request.
func IsClientError(err error) bool {
	var verr *wizard.ValidationError
	return errors.As(err, &verr) || errors.Is(err, wizard.ErrComplete) || resumes.IsClientError(err)
}
