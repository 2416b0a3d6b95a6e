package controllers

import (
	"net/http"

	"aitravel/internal/models/request_models"
	"aitravel/internal/services"
	"aitravel/pkg/middleware"
	"aitravel/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	paymentService services.PaymentServiceInterface
}

func NewPaymentController(paymentService services.PaymentServiceInterface) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// ListPaymentMethods godoc
// @Summary List saved payment methods
// @Description Default first, then oldest first
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]response_models.PaymentMethodResponse}
// @Router /payment-methods [get]
func (p *PaymentController) ListPaymentMethods(c *gin.Context) {
	methods, err := p.paymentService.ListPaymentMethods(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, methods, "Payment methods fetched successfully")
}

// AddPaymentMethod godoc
// @Summary Save a card
// @Description Only the brand and the last four digits are stored
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.AddPaymentMethodRequest true "Card"
// @Success 201 {object} utils.APIResponse{data=response_models.PaymentMethodResponse}
// @Failure 400 {object} utils.APIResponse
// @Router /payment-methods [post]
func (p *PaymentController) AddPaymentMethod(c *gin.Context) {
	var request request_models.AddPaymentMethodRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	method, err := p.paymentService.AddPaymentMethod(c.Request.Context(), c.GetString(middleware.ContextUserID), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccessWithStatus(c, http.StatusCreated, method, "Payment method added")
}

// SetDefaultPaymentMethod godoc
// @Summary Make a saved card the default
// @Tags Payments
// @Produce json
// @Param id path string true "Payment method ID"
// @Success 200 {object} utils.APIResponse{data=[]response_models.PaymentMethodResponse}
// @Failure 404 {object} utils.APIResponse
// @Router /payment-methods/{id}/default [put]
func (p *PaymentController) SetDefaultPaymentMethod(c *gin.Context) {
	methods, err := p.paymentService.SetDefaultPaymentMethod(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, methods, "Default payment method updated")
}

// DeletePaymentMethod godoc
// @Summary Remove a saved card
// @Description Removing the default promotes the oldest remaining card
// @Tags Payments
// @Produce json
// @Param id path string true "Payment method ID"
// @Success 200 {object} utils.APIResponse{data=[]response_models.PaymentMethodResponse}
// @Failure 404 {object} utils.APIResponse
// @Router /payment-methods/{id} [delete]
func (p *PaymentController) DeletePaymentMethod(c *gin.Context) {
	methods, err := p.paymentService.DeletePaymentMethod(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, methods, "Payment method deleted")
}

// Checkout godoc
// @Summary Book a trip (mock payment)
// @Description Pays with a saved method or a new card. No money moves.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CheckoutRequest true "Checkout"
// @Success 201 {object} utils.APIResponse{data=response_models.CheckoutResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /checkout [post]
func (p *PaymentController) Checkout(c *gin.Context) {
	var request request_models.CheckoutRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := p.paymentService.Checkout(c.Request.Context(), c.GetString(middleware.ContextUserID), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccessWithStatus(c, http.StatusCreated, result, "Booking confirmed")
}

// ListBookings godoc
// @Summary List my bookings
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]response_models.BookingResponse}
// @Router /bookings [get]
func (p *PaymentController) ListBookings(c *gin.Context) {
	bookings, err := p.paymentService.ListBookings(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, bookings, "Bookings fetched successfully")
}
