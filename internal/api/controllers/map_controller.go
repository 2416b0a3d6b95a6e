package controllers

import (
	"aitravel/internal/services"
	"aitravel/pkg/middleware"
	"aitravel/pkg/utils"

	"github.com/gin-gonic/gin"
)

type MapController struct {
	mapService services.MapServiceInterface
}

func NewMapController(mapService services.MapServiceInterface) *MapController {
	return &MapController{mapService: mapService}
}

// TripMap godoc
// @Summary Markers and walking legs for a trip
// @Description Legs are omitted when no Mapbox token is configured
// @Tags Map
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.APIResponse{data=response_models.TripMapResponse}
// @Failure 404 {object} utils.APIResponse
// @Router /map/trips/{id} [get]
func (m *MapController) TripMap(c *gin.Context) {
	resp, err := m.mapService.TripMap(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Trip map fetched successfully")
}

// Destinations godoc
// @Summary My trips as destination pins
// @Tags Map
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]response_models.DestinationPin}
// @Router /map/destinations [get]
func (m *MapController) Destinations(c *gin.Context) {
	pins, err := m.mapService.Destinations(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, pins, "Destinations fetched successfully")
}
