package controllers

import (
	"errors"
	"net/http"

	"aitravel/internal/models/request_models"
	"aitravel/internal/models/response_models"
	"aitravel/internal/services"
	"aitravel/pkg/logger"
	"aitravel/pkg/middleware"
	"aitravel/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CookieSettings is how session cookies are written.
type CookieSettings struct {
	Sealer *utils.SessionSealer
	Secure bool
}

type AccountController struct {
	accountService services.AccountServiceInterface
	cookies        CookieSettings
}

func NewAccountController(accountService services.AccountServiceInterface, cookies CookieSettings) *AccountController {
	return &AccountController{
		accountService: accountService,
		cookies:        cookies,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a user account and start a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.RegisterRequest true "Account registration payload"
// @Success 201 {object} utils.APIResponse{data=response_models.UserResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /auth/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := a.accountService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if err := a.startSession(c, user); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccessWithStatus(c, http.StatusCreated, user, "Account created successfully")
}

// Login godoc
// @Summary Login
// @Description Verify credentials and set the session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse{data=response_models.UserResponse}
// @Failure 401 {object} utils.APIResponse
// @Router /auth/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if err := a.startSession(c, user); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, user, "Login successful")
}

// Logout godoc
// @Summary Logout
// @Description Clear the session and current itinerary cookies
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /auth/logout [post]
func (a *AccountController) Logout(c *gin.Context) {
	utils.ClearCookie(c, utils.SessionCookieName, a.cookies.Secure)
	utils.ClearCookie(c, utils.ItineraryCookieName, a.cookies.Secure)
	utils.RespondSuccess(c, nil, "Logged out")
}

// GetProfile godoc
// @Summary Current user profile
// @Tags Profile
// @Produce json
// @Success 200 {object} utils.APIResponse{data=response_models.UserResponse}
// @Failure 401 {object} utils.APIResponse
// @Router /profile [get]
func (a *AccountController) GetProfile(c *gin.Context) {
	user, err := a.accountService.GetProfile(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		a.failSession(c, err)
		return
	}
	utils.RespondSuccess(c, user, "Profile fetched successfully")
}

// UpdateProfile godoc
// @Summary Update profile fields
// @Description Only fields present in the body are changed
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body request_models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} utils.APIResponse{data=response_models.UserResponse}
// @Router /profile [put]
func (a *AccountController) UpdateProfile(c *gin.Context) {
	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := a.accountService.UpdateProfile(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		a.failSession(c, err)
		return
	}
	// names live in the cookie too
	if err := a.startSession(c, user); err != nil {
		logger.Log.Warnw("failed to refresh session cookie", "user_id", user.ID, "error", err)
	}

	utils.RespondSuccess(c, user, "Profile updated successfully")
}

// UpdatePreferences godoc
// @Summary Replace travel preferences
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body request_models.UpdatePreferencesRequest true "Preference chips"
// @Success 200 {object} utils.APIResponse{data=response_models.UserResponse}
// @Failure 400 {object} utils.APIResponse
// @Router /profile/preferences [put]
func (a *AccountController) UpdatePreferences(c *gin.Context) {
	var req request_models.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := a.accountService.UpdatePreferences(c.Request.Context(), c.GetString(middleware.ContextUserID), req.TravelPreferences)
	if err != nil {
		a.failSession(c, err)
		return
	}
	utils.RespondSuccess(c, user, "Preferences updated successfully")
}

// ChangePassword godoc
// @Summary Change password
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body request_models.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /profile/password [put]
func (a *AccountController) ChangePassword(c *gin.Context) {
	var req request_models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.accountService.ChangePassword(c.Request.Context(), c.GetString(middleware.ContextUserID), req); err != nil {
		a.failSession(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Password changed successfully")
}

func (a *AccountController) startSession(c *gin.Context, user *response_models.UserResponse) error {
	value, err := a.cookies.Sealer.Seal(&utils.SessionClaims{
		User: &utils.SessionUser{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	}, utils.SessionTTL)
	if err != nil {
		return err
	}
	utils.WriteCookie(c, utils.SessionCookieName, value, utils.SessionTTL, a.cookies.Secure)
	return nil
}

// failSession drops the cookie when the session points at a user that no
// longer exists.
func (a *AccountController) failSession(c *gin.Context, err error) {
	if errors.Is(err, utils.ErrNotAuthenticated) {
		utils.ClearCookie(c, utils.SessionCookieName, a.cookies.Secure)
	}
	utils.HandleServiceError(c, err)
}
