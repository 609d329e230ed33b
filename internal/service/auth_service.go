package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"basetrack/internal/apperr"
	"basetrack/internal/identity"
	"basetrack/internal/model"
	"basetrack/internal/policy"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs
type SignupRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Role            string `json:"role" binding:"required"`
	BaseID          string `json:"base_id" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	BaseID   string `json:"base_id"`
}

type TokenResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*model.User, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Profile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.User, error)
	ListBases(ctx context.Context) ([]model.Base, error)
	ListBasesForActor(ctx context.Context, actor policy.Actor) ([]model.Base, error)
}

type authService struct {
	users     identity.UserStore
	bases     identity.BaseStore
	jwtSecret []byte
}

func NewAuthService(users identity.UserStore, bases identity.BaseStore, jwtSecret []byte) AuthService {
	return &authService{users: users, bases: bases, jwtSecret: jwtSecret}
}

var emailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

func (s *authService) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := model.NormalizeRole(strings.ToLower(req.Role))

	// Collect every violated field before touching the store.
	var fields []apperr.FieldError
	if len(username) < 3 || len(username) > 50 {
		fields = append(fields, apperr.FieldError{Field: "username", Message: "must be between 3 and 50 characters"})
	}
	if !emailRegex.MatchString(email) {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if len(req.Password) < 6 {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "must be at least 6 characters"})
	}
	if req.Password != req.ConfirmPassword {
		fields = append(fields, apperr.FieldError{Field: "confirmPassword", Message: "passwords do not match"})
	}
	if !model.ValidRole(role) {
		fields = append(fields, apperr.FieldError{Field: "role", Message: "must be one of admin, base_commander, logistics_officer, inventory_manager"})
	}
	if req.BaseID == "" {
		fields = append(fields, apperr.FieldError{Field: "base_id", Message: "base assignment is required"})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	if existing, err := s.users.FindByIdentifier(ctx, username); err == nil && existing != nil {
		return nil, apperr.Duplicate("username")
	}
	if existing, err := s.users.FindByIdentifier(ctx, email); err == nil && existing != nil {
		return nil, apperr.Duplicate("email")
	}

	baseID, err := uuid.Parse(req.BaseID)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "must be a valid base id"})
	}

	// Denormalize base info onto the account; fall back to the first default
	// base when the directory has no such record.
	baseName, baseLocation := "Fort Knox", "Kentucky, USA"
	if base, findErr := s.bases.FindByID(ctx, baseID); findErr == nil {
		baseName, baseLocation = base.Name, base.Location
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		Password:     string(hashed),
		Role:         role,
		BaseID:       &baseID,
		BaseName:     baseName,
		BaseLocation: baseLocation,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("username or email")
		}
		return nil, err
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" {
		return nil, apperr.Validation(apperr.FieldError{Field: "username", Message: "username or email is required"})
	}

	user, err := s.users.FindByIdentifier(ctx, strings.ToLower(identifier))
	if err != nil {
		return nil, apperr.New(apperr.CodeUnauthenticated, "username/email or password is incorrect")
	}

	if !user.IsActive {
		return nil, apperr.New(apperr.CodeUnauthenticated, "account has been deactivated, contact administrator")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.New(apperr.CodeUnauthenticated, "username/email or password is incorrect")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	baseID := ""
	if user.BaseID != nil {
		baseID = user.BaseID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"base_id":  baseID,
		"exp":      now.Add(24 * time.Hour).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &TokenResponse{Token: signed, User: user}, nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*model.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.NotFound("user")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("user")
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" {
		user.Username = strings.ToLower(req.Username)
	}
	if req.Email != "" {
		email := strings.ToLower(req.Email)
		if !emailRegex.MatchString(email) {
			return nil, apperr.Validation(apperr.FieldError{Field: "email", Message: "must be a valid email address"})
		}
		user.Email = email
	}
	if req.Role != "" {
		role := model.NormalizeRole(strings.ToLower(req.Role))
		if !model.ValidRole(role) {
			return nil, apperr.Validation(apperr.FieldError{Field: "role", Message: "invalid role"})
		}
		user.Role = role
	}
	if req.BaseID != "" {
		baseID, parseErr := uuid.Parse(req.BaseID)
		if parseErr != nil {
			return nil, apperr.Validation(apperr.FieldError{Field: "base_id", Message: "must be a valid base id"})
		}
		user.BaseID = &baseID
		if base, findErr := s.bases.FindByID(ctx, baseID); findErr == nil {
			user.BaseName = base.Name
			user.BaseLocation = base.Location
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("username or email")
		}
		return nil, err
	}
	return user, nil
}

// ListBases returns every active base, falling back to the built-in default
// list when the directory is empty so signup stays usable before seeding.
func (s *authService) ListBases(ctx context.Context) ([]model.Base, error) {
	bases, err := s.bases.ListActive(ctx)
	if err != nil || len(bases) == 0 {
		return identity.DefaultBases(), nil
	}
	return bases, nil
}

// ListBasesForActor scopes the base roster for dropdown selections: admins
// see every base, everyone else only their own.
func (s *authService) ListBasesForActor(ctx context.Context, actor policy.Actor) ([]model.Base, error) {
	if actor.IsAdmin() {
		return s.ListBases(ctx)
	}
	baseID, err := uuid.Parse(actor.BaseID)
	if err != nil {
		return []model.Base{}, nil
	}
	base, err := s.bases.FindByID(ctx, baseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []model.Base{}, nil
		}
		return nil, err
	}
	return []model.Base{*base}, nil
}
