package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"resume-builder/internal/profiles"
	sharedauth "resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

const loginTTL = 5 * time.Minute

// ProfileUpserter stores the identity of a signed-in user.
type ProfileUpserter interface {
	UpsertFromAuth(ctx context.Context, p profiles.Profile) error
}

// GoogleIdentity is the subset of the Google userinfo used for sign-in.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type identityFetcher func(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (GoogleIdentity, error)

// GoogleService signs users in with Google and hands the UI a session JWT.
type GoogleService struct {
	oauthConfig *oauth2.Config
	uiRedirect  string
	states      *stateStore
	profiles    ProfileUpserter
	identity    identityFetcher
}

func NewGoogleService(clientID, clientSecret, redirectURL, uiRedirect string, profiles ProfileUpserter) *GoogleService {
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{googleoauth.UserinfoEmailScope, googleoauth.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
		uiRedirect: uiRedirect,
		states:     newStateStore(),
		profiles:   profiles,
		identity:   fetchGoogleIdentity,
	}
}

func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	s.states.put(state, verifier, loginTTL)

	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
	))
}

func (s *GoogleService) callback(c *gin.Context) {
	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}
	verifier, ok := s.states.consume(state)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		telemetry.Warn("auth.exchange_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}
	id, err := s.identity(ctx, s.oauthConfig, token)
	if err != nil {
		telemetry.Error("auth.userinfo_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}

	jwt, err := s.signIn(ctx, id)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to sign in", nil)
		return
	}
	redirectURL, err := appendToken(s.uiRedirect, jwt)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

// signIn stores the profile and issues the session token for id.
func (s *GoogleService) signIn(ctx context.Context, id GoogleIdentity) (string, error) {
	if strings.TrimSpace(id.Subject) == "" {
		return "", errors.New("google identity without subject")
	}
	userID := "google:" + id.Subject
	if s.profiles != nil {
		err := s.profiles.UpsertFromAuth(ctx, profiles.Profile{
			ID:         userID,
			Email:      id.Email,
			FullName:   id.Name,
			PictureURL: id.Picture,
		})
		if err != nil {
			telemetry.Error("auth.profile_upsert_failed", map[string]any{"user_id": userID, "error": err.Error()})
			return "", err
		}
	}
	claims := sharedauth.Claims{Email: id.Email, Name: id.Name, Picture: id.Picture}
	claims.Subject = userID
	return sharedauth.SignJWT(claims)
}

func fetchGoogleIdentity(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (GoogleIdentity, error) {
	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, token)))
	if err != nil {
		return GoogleIdentity{}, err
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return GoogleIdentity{}, err
	}
	return GoogleIdentity{Subject: info.Id, Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
}

func appendToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
