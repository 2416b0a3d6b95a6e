package controllers

import (
	"net/http"
	"strconv"

	"aitravel/internal/itinerary"
	"aitravel/internal/models/request_models"
	"aitravel/internal/services"
	"aitravel/pkg/middleware"
	"aitravel/pkg/utils"

	"github.com/gin-gonic/gin"
)

type TripController struct {
	tripService services.TripServiceInterface
	pdfService  services.PDFServiceInterface
	cookies     CookieSettings
}

func NewTripController(tripService services.TripServiceInterface, pdfService services.PDFServiceInterface, cookies CookieSettings) *TripController {
	return &TripController{
		tripService: tripService,
		pdfService:  pdfService,
		cookies:     cookies,
	}
}

// CreateTrip godoc
// @Summary Create a trip
// @Description Creates a trip with one empty day
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body request_models.CreateTripRequest true "Trip"
// @Success 201 {object} utils.APIResponse{data=response_models.TripResponse}
// @Failure 400 {object} utils.APIResponse
// @Router /trips [post]
func (t *TripController) CreateTrip(c *gin.Context) {
	var req request_models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := t.tripService.CreateTrip(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccessWithStatus(c, http.StatusCreated, trip, "Trip created successfully")
}

// CreateTripFromPlan godoc
// @Summary Save an AI plan as a trip
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body request_models.CreateTripFromPlanRequest true "Plan as returned by /chat"
// @Success 201 {object} utils.APIResponse{data=response_models.TripResponse}
// @Router /trips/from-plan [post]
func (t *TripController) CreateTripFromPlan(c *gin.Context) {
	var req request_models.CreateTripFromPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	raw, err := itinerary.ParseRawPlan(req.TripPlan)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "tripPlan is not a valid plan")
		return
	}

	trip, err := t.tripService.CreateTripFromPlan(c.Request.Context(), c.GetString(middleware.ContextUserID), itinerary.Reconcile(raw))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccessWithStatus(c, http.StatusCreated, trip, "Trip created successfully")
}

// ListTrips godoc
// @Summary List my trips
// @Tags Trips
// @Produce json
// @Param status query string false "upcoming, past or saved"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {object} utils.APIResponse{data=response_models.TripListResponse}
// @Router /trips [get]
func (t *TripController) ListTrips(c *gin.Context) {
	var query request_models.ListTripsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	trips, err := t.tripService.ListTrips(c.Request.Context(), c.GetString(middleware.ContextUserID), query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trips, "Trips fetched successfully")
}

// GetTrip godoc
// @Summary Get a trip with its itinerary
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.APIResponse{data=response_models.TripResponse}
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{id} [get]
func (t *TripController) GetTrip(c *gin.Context) {
	trip, err := t.tripService.GetTrip(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Trip fetched successfully")
}

// UpdateTrip godoc
// @Summary Update trip fields
// @Tags Trips
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body request_models.UpdateTripRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=response_models.TripResponse}
// @Router /trips/{id} [put]
func (t *TripController) UpdateTrip(c *gin.Context) {
	var req request_models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := t.tripService.UpdateTrip(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Trip updated successfully")
}

// DeleteTrip godoc
// @Summary Delete a trip and its itinerary
// @Tags Trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Router /trips/{id} [delete]
func (t *TripController) DeleteTrip(c *gin.Context) {
	if err := t.tripService.DeleteTrip(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Trip deleted successfully")
}

// SaveItinerary godoc
// @Summary Replace the whole itinerary
// @Description Every existing day and activity is replaced by the body
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body request_models.SaveItineraryRequest true "Days"
// @Success 200 {object} utils.APIResponse{data=response_models.TripResponse}
// @Router /trips/{id}/itinerary [put]
func (t *TripController) SaveItinerary(c *gin.Context) {
	var req request_models.SaveItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := t.tripService.SaveItinerary(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req.Days)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Itinerary saved successfully")
}

// MoveActivity godoc
// @Summary Move an activity within or across days
// @Description Unknown days or activities leave the itinerary unchanged
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body request_models.MoveActivityRequest true "Move"
// @Success 200 {object} utils.APIResponse{data=response_models.TripResponse}
// @Router /trips/{id}/itinerary/move [post]
func (t *TripController) MoveActivity(c *gin.Context) {
	var req request_models.MoveActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := t.tripService.MoveActivity(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Activity moved")
}

// AddDay godoc
// @Summary Append a day
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body request_models.AddDayRequest false "Optional title"
// @Success 200 {object} utils.APIResponse{data=response_models.TripResponse}
// @Router /trips/{id}/days [post]
func (t *TripController) AddDay(c *gin.Context) {
	var req request_models.AddDayRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	trip, err := t.tripService.AddDay(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req.Title)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Day added")
}

// RemoveDay godoc
// @Summary Remove a day
// @Description Later days are renumbered
// @Tags Itinerary
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Day number"
// @Success 200 {object} utils.APIResponse{data=response_models.TripResponse}
// @Router /trips/{id}/days/{day} [delete]
func (t *TripController) RemoveDay(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	trip, err := t.tripService.RemoveDay(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), day)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Day removed")
}

// AddActivity godoc
// @Summary Add an activity to a day
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Day number"
// @Param request body request_models.AddActivityRequest true "Activity"
// @Success 200 {object} utils.APIResponse{data=response_models.TripResponse}
// @Router /trips/{id}/days/{day}/activities [post]
func (t *TripController) AddActivity(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	var req request_models.AddActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := t.tripService.AddActivity(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), day, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Activity added")
}

// UpdateActivity godoc
// @Summary Patch an activity
// @Description The day is re-sorted when the time changes
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Day number"
// @Param activityId path string true "Activity ID"
// @Param request body itinerary.ActivityPatch true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=response_models.TripResponse}
// @Router /trips/{id}/days/{day}/activities/{activityId} [patch]
func (t *TripController) UpdateActivity(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	var patch itinerary.ActivityPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := t.tripService.UpdateActivity(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), day, c.Param("activityId"), patch)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Activity updated")
}

// RemoveActivity godoc
// @Summary Remove an activity
// @Tags Itinerary
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Day number"
// @Param activityId path string true "Activity ID"
// @Success 200 {object} utils.APIResponse{data=response_models.TripResponse}
// @Router /trips/{id}/days/{day}/activities/{activityId} [delete]
func (t *TripController) RemoveActivity(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	trip, err := t.tripService.RemoveActivity(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), day, c.Param("activityId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Activity removed")
}

// ExportPDF godoc
// @Summary Download the itinerary as PDF
// @Tags Trips
// @Produce application/pdf
// @Param id path string true "Trip ID"
// @Success 200 {file} file
// @Failure 404 {object} utils.APIResponse
// @Router /trips/{id}/pdf [get]
func (t *TripController) ExportPDF(c *gin.Context) {
	name, data, err := t.pdfService.TripPDF(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// GetCurrentItinerary godoc
// @Summary The trip open in the itinerary builder
// @Description Returns null when no trip is selected or the selected trip is gone
// @Tags Itinerary
// @Produce json
// @Success 200 {object} utils.APIResponse{data=response_models.TripResponse}
// @Router /itinerary/current [get]
func (t *TripController) GetCurrentItinerary(c *gin.Context) {
	value, err := c.Cookie(utils.ItineraryCookieName)
	if err != nil || value == "" {
		utils.RespondSuccess(c, nil, "No current itinerary")
		return
	}

	claims, err := t.cookies.Sealer.Open(value)
	if err != nil || claims.TripID == "" {
		utils.ClearCookie(c, utils.ItineraryCookieName, t.cookies.Secure)
		utils.RespondSuccess(c, nil, "No current itinerary")
		return
	}

	trip, err := t.tripService.GetTrip(c.Request.Context(), c.GetString(middleware.ContextUserID), claims.TripID)
	if err != nil {
		if utils.StatusForError(err) == http.StatusNotFound {
			// stale or foreign ids are tolerated
			utils.ClearCookie(c, utils.ItineraryCookieName, t.cookies.Secure)
			utils.RespondSuccess(c, nil, "No current itinerary")
			return
		}
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Current itinerary fetched")
}

// SetCurrentItinerary godoc
// @Summary Select the trip open in the itinerary builder
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.SetCurrentItineraryRequest true "Trip"
// @Success 200 {object} utils.APIResponse{data=response_models.TripResponse}
// @Failure 404 {object} utils.APIResponse
// @Router /itinerary/current [put]
func (t *TripController) SetCurrentItinerary(c *gin.Context) {
	var req request_models.SetCurrentItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	trip, err := t.tripService.GetTrip(c.Request.Context(), c.GetString(middleware.ContextUserID), req.TripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	value, err := t.cookies.Sealer.Seal(&utils.SessionClaims{TripID: req.TripID}, utils.ItineraryTTL)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.WriteCookie(c, utils.ItineraryCookieName, value, utils.ItineraryTTL, t.cookies.Secure)
	utils.RespondSuccess(c, trip, "Current itinerary set")
}

func dayParam(c *gin.Context) (int, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid day number")
		return 0, false
	}
	return day, true
}
