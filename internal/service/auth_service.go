package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"jobboard/internal/auth"
	"jobboard/internal/featureflags"
	"jobboard/internal/middleware"
	"jobboard/internal/models"
	"jobboard/internal/observability"
	"jobboard/internal/repository"
	"jobboard/internal/validation"
)

// TokenService issues and verifies signed tokens.
type TokenService interface {
	IssueToken(userID uint, email, role string) (string, time.Time, error)
	IssuePasswordResetToken(userID uint) (string, error)
	VerifyPasswordResetToken(token string) (*auth.Claims, error)
	Lifetime() time.Duration
}

// RevokeFunc blacklists a token id for ttl.
type RevokeFunc func(ctx context.Context, jti string, ttl time.Duration) error

// AuthSettings carries the configuration the auth flows depend on.
type AuthSettings struct {
	AdminEmail    string
	AdminPassword string
	ClientURL     string
}

type AuthService struct {
	users    repository.UserRepository
	apps     repository.ApplicationRepository
	saved    repository.SavedJobRepository
	tokens   TokenService
	flags    *featureflags.Manager
	revoke   RevokeFunc
	settings AuthSettings
}

func NewAuthService(
	users repository.UserRepository,
	apps repository.ApplicationRepository,
	saved repository.SavedJobRepository,
	tokens TokenService,
	flags *featureflags.Manager,
	revoke RevokeFunc,
	settings AuthSettings,
) *AuthService {
	return &AuthService{
		users:    users,
		apps:     apps,
		saved:    saved,
		tokens:   tokens,
		flags:    flags,
		revoke:   revoke,
		settings: settings,
	}
}

type RegisterInput struct {
	Email           string      `json:"email" validate:"required,email,max=255"`
	Password        string      `json:"password" validate:"required,password"`
	ConfirmPassword string      `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            models.Role `json:"role" validate:"omitempty,oneof=jobseeker employer"`
	FirstName       string      `json:"firstName" validate:"required,min=2,max=50"`
	LastName        string      `json:"lastName" validate:"required,min=2,max=50"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register and login. ExpiresIn is in seconds.
type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	ExpiresIn int64        `json:"expiresIn"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (result *AuthResult, err error) {
	ctx, end := observability.StartSpan(ctx, "auth", "register")
	defer func() {
		end(err)
		observability.RecordAuthEvent("register", err)
	}()

	in.Email = models.NormalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError(models.CodeDuplicateEmail, "Email already registered")
	}

	role := in.Role
	if role == "" {
		role = models.RoleJobSeeker
	}
	user := &models.User{
		Email:    in.Email,
		Password: in.Password,
		Role:     role,
		IsActive: true,
		Profile:  models.Profile{FirstName: in.FirstName, LastName: in.LastName},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "user registered", slog.Uint64("user_id", uint64(user.ID)), slog.String("role", string(user.Role)))
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (result *AuthResult, err error) {
	ctx, end := observability.StartSpan(ctx, "auth", "login")
	defer func() {
		end(err)
		observability.RecordAuthEvent("login", err)
	}()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.VerifyPassword(in.Password, user.Password) {
		return nil, models.NewError(models.CodeInvalidCredentials, "Invalid credentials")
	}
	if !user.IsActive {
		return nil, models.NewError(models.CodeAccountDeactivated, "Account deactivated")
	}

	if s.isConfiguredAdmin(in.Email, in.Password) && user.Role != models.RoleAdmin {
		if err := s.users.SetRole(ctx, user.ID, models.RoleAdmin); err != nil {
			return nil, err
		}
		user.Role = models.RoleAdmin
		middleware.Logger.WarnContext(ctx, "user promoted to admin via configured credentials", slog.Uint64("user_id", uint64(user.ID)))
	}

	return s.issue(user)
}

func (s *AuthService) isConfiguredAdmin(email, password string) bool {
	if s.settings.AdminEmail == "" || s.settings.AdminPassword == "" {
		return false
	}
	return models.NormalizeEmail(email) == models.NormalizeEmail(s.settings.AdminEmail) &&
		password == s.settings.AdminPassword
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.IssueToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
		ExpiresIn: int64(s.tokens.Lifetime() / time.Second),
	}, nil
}

// Logout revokes the session token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) (err error) {
	defer func() { observability.RecordAuthEvent("logout", err) }()

	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil || s.revoke == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoke(ctx, claims.ID, ttl); err != nil {
		return models.NewInternalError(fmt.Errorf("revoke token: %w", err))
	}
	return nil
}

// GetProfile returns the user with saved and applied jobs derived from their tables.
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	savedIDs, err := s.saved.JobIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.SavedJobs = savedIDs

	apps, err := s.apps.ListByApplicant(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.AppliedJobs = make([]models.AppliedJob, 0, len(apps))
	for _, a := range apps {
		user.AppliedJobs = append(user.AppliedJobs, models.AppliedJob{JobID: a.JobID, AppliedAt: a.AppliedAt, Status: a.Status})
	}
	return user, nil
}

// ProfilePatch sets the named profile fields. Nil fields are left unchanged.
type ProfilePatch struct {
	FirstName      *string   `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName       *string   `json:"lastName" validate:"omitempty,min=2,max=50"`
	Phone          *string   `json:"phone" validate:"omitempty,max=50"`
	Location       *string   `json:"location" validate:"omitempty,max=200"`
	ProfilePicture *string   `json:"profilePicture" validate:"omitempty,max=500"`
	Resume         *string   `json:"resume" validate:"omitempty,max=500"`
	Skills         *[]string `json:"skills" validate:"omitempty,max=50"`
	Experience     *string   `json:"experience" validate:"omitempty,max=5000"`
}

func (p *ProfilePatch) apply(profile *models.Profile) {
	if p == nil {
		return
	}
	setString(&profile.FirstName, p.FirstName)
	setString(&profile.LastName, p.LastName)
	setString(&profile.Phone, p.Phone)
	setString(&profile.Location, p.Location)
	setString(&profile.ProfilePicture, p.ProfilePicture)
	setString(&profile.Resume, p.Resume)
	setString(&profile.Experience, p.Experience)
	if p.Skills != nil {
		profile.Skills = cleanList(*p.Skills)
	}
}

// UpdateProfileInput is the body of PUT /auth/profile. The top-level
// shortcuts are applied after the nested profile patch.
type UpdateProfileInput struct {
	Profile    *ProfilePatch `json:"profile"`
	Skills     *[]string     `json:"skills" validate:"omitempty,max=50"`
	Experience *string       `json:"experience" validate:"omitempty,max=5000"`
	Location   *string       `json:"location" validate:"omitempty,max=200"`
	Phone      *string       `json:"phone" validate:"omitempty,max=50"`
}

var profileUpdateKeys = map[string]bool{
	"profile":    true,
	"skills":     true,
	"experience": true,
	"location":   true,
	"phone":      true,
}

// DecodeProfileUpdate parses a profile update body, rejecting any top-level
// key outside the allow-list with INVALID_UPDATE.
func DecodeProfileUpdate(body []byte) (*UpdateProfileInput, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, models.NewValidationError("Invalid request body")
	}
	var rejected []string
	for k := range keys {
		if !profileUpdateKeys[k] {
			rejected = append(rejected, k)
		}
	}
	if len(rejected) > 0 {
		return nil, models.NewError(models.CodeInvalidUpdate, "Invalid updates").WithDetails(rejected)
	}

	var in UpdateProfileInput
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, models.NewValidationError("Invalid request body")
	}
	return &in, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	in.Profile.apply(&user.Profile)
	(&ProfilePatch{Skills: in.Skills, Experience: in.Experience, Location: in.Location, Phone: in.Phone}).apply(&user.Profile)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResetRequest is the answer to a password reset request. Token and URL are
// only filled when the reset_token_in_response flag is on.
type ResetRequest struct {
	ResetToken string `json:"resetToken,omitempty"`
	ResetURL   string `json:"resetUrl,omitempty"`
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*ResetRequest, error) {
	if strings.TrimSpace(email) == "" {
		return nil, models.NewValidationError("email is required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewError(models.CodeUserNotFound, "User not found")
	}

	token, err := s.tokens.IssuePasswordResetToken(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	observability.RecordAuthEvent("password_reset_request", nil)

	if !s.flags.Enabled(featureflags.ResetTokenInResponse, user.ID) {
		middleware.Logger.InfoContext(ctx, "password reset token issued", slog.Uint64("user_id", uint64(user.ID)))
		return &ResetRequest{}, nil
	}
	return &ResetRequest{
		ResetToken: token,
		ResetURL:   strings.TrimRight(s.settings.ClientURL, "/") + "/reset-password/" + token,
	}, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (err error) {
	defer func() { observability.RecordAuthEvent("password_reset", err) }()

	claims, err := s.tokens.VerifyPasswordResetToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return models.NewError(models.CodeResetTokenExpired, "Reset token expired")
		}
		return models.NewError(models.CodeInvalidResetToken, "Invalid reset token")
	}
	userID, err := claims.UserID()
	if err != nil {
		return models.NewError(models.CodeInvalidResetToken, "Invalid reset token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return models.NewError(models.CodeUserNotFound, "User not found")
		}
		return err
	}

	if auth.VerifyPassword(newPassword, user.Password) {
		return models.NewError(models.CodeSamePassword, "New password cannot be the same as your current password")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	user.Password = newPassword
	return s.users.Update(ctx, user)
}
