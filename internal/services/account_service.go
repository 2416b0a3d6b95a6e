package services

import (
	"context"
	"fmt"
	"strings"

	"aitravel/internal/models/db_models"
	"aitravel/internal/models/request_models"
	"aitravel/internal/models/response_models"
	"aitravel/internal/repositories"
	"aitravel/pkg/logger"
	"aitravel/pkg/utils"
)

const (
	minPasswordLength  = 8
	maxPasswordBytes   = 72
	maxTravelPrefs     = 20
	maxTravelPrefChars = 50
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.RegisterRequest) (*response_models.UserResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.UserResponse, error)
	GetProfile(ctx context.Context, userID string) (*response_models.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, request request_models.UpdateProfileRequest) (*response_models.UserResponse, error)
	UpdatePreferences(ctx context.Context, userID string, prefs []string) (*response_models.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, request request_models.ChangePasswordRequest) error
}

type AccountService struct {
	userRepo repositories.UserRepository
}

func NewAccountService(userRepo repositories.UserRepository) AccountServiceInterface {
	return &AccountService{
		userRepo: userRepo,
	}
}

func (a *AccountService) Register(ctx context.Context, request request_models.RegisterRequest) (*response_models.UserResponse, error) {
	if err := checkPassword(request.Password); err != nil {
		return nil, err
	}
	email := normalizeEmail(request.Email)

	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashed, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &db_models.User{
		FirstName:         strings.TrimSpace(request.FirstName),
		LastName:          strings.TrimSpace(request.LastName),
		Email:             email,
		PasswordHash:      hashed,
		TravelPreferences: []string{},
	}
	if err := a.userRepo.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	logger.Log.Infow("user registered", "user_id", user.ID)
	return toUserResponse(user), nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.UserResponse, error) {
	user, err := a.userRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	// Unknown email and wrong password look the same to the caller.
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	return toUserResponse(user), nil
}

func (a *AccountService) GetProfile(ctx context.Context, userID string) (*response_models.UserResponse, error) {
	user, err := a.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (a *AccountService) UpdateProfile(ctx context.Context, userID string, request request_models.UpdateProfileRequest) (*response_models.UserResponse, error) {
	user, err := a.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	setTrimmed := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setTrimmed(&user.FirstName, request.FirstName)
	setTrimmed(&user.LastName, request.LastName)
	setTrimmed(&user.Phone, request.Phone)
	setTrimmed(&user.Location, request.Location)
	setTrimmed(&user.Bio, request.Bio)
	setTrimmed(&user.AvatarURL, request.AvatarURL)

	if user.FirstName == "" || user.LastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", utils.ErrInvalidInput)
	}

	if err := a.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toUserResponse(user), nil
}

func (a *AccountService) UpdatePreferences(ctx context.Context, userID string, prefs []string) (*response_models.UserResponse, error) {
	cleaned, err := CleanTravelPreferences(prefs)
	if err != nil {
		return nil, err
	}

	user, err := a.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.TravelPreferences = cleaned

	if err := a.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toUserResponse(user), nil
}

func (a *AccountService) ChangePassword(ctx context.Context, userID string, request request_models.ChangePasswordRequest) error {
	if err := checkPassword(request.NewPassword); err != nil {
		return err
	}

	user, err := a.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := utils.ComparePasswords(user.PasswordHash, request.CurrentPassword); err != nil {
		return utils.ErrInvalidCredentials
	}

	hashed, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hashed

	if err := a.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	logger.Log.Infow("password changed", "user_id", user.ID)
	return nil
}

// checkPassword bounds the length in bytes; bcrypt rejects anything over 72.
func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return utils.ErrWeakPassword
	}
	if len(password) > maxPasswordBytes {
		return utils.ErrPasswordTooLong
	}
	return nil
}

func (a *AccountService) loadUser(ctx context.Context, userID string) (*db_models.User, error) {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	// The session outlived the account.
	if user == nil {
		return nil, utils.ErrNotAuthenticated
	}
	return user, nil
}

// CleanTravelPreferences trims, drops blanks and case-insensitive duplicates,
// and enforces the chip limits.
func CleanTravelPreferences(prefs []string) ([]string, error) {
	out := make([]string, 0, len(prefs))
	seen := make(map[string]bool, len(prefs))
	for _, p := range prefs {
		p = strings.Join(strings.Fields(p), " ")
		if p == "" {
			continue
		}
		if len(p) > maxTravelPrefChars {
			return nil, fmt.Errorf("%w: preference %q is too long", utils.ErrInvalidInput, p)
		}
		key := strings.ToLower(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	if len(out) > maxTravelPrefs {
		return nil, fmt.Errorf("%w: at most %d travel preferences", utils.ErrInvalidInput, maxTravelPrefs)
	}
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *db_models.User) *response_models.UserResponse {
	prefs := []string(u.TravelPreferences)
	if prefs == nil {
		prefs = []string{}
	}
	return &response_models.UserResponse{
		ID:                u.ID.String(),
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Email:             u.Email,
		Phone:             u.Phone,
		Location:          u.Location,
		Bio:               u.Bio,
		AvatarURL:         u.AvatarURL,
		TravelPreferences: prefs,
		CreatedAt:         utils.FormatRFC3339(u.CreatedAt),
	}
}
