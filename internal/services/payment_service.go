package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"aitravel/internal/itinerary"
	dbm "aitravel/internal/models/db_models"
	"aitravel/internal/models/request_models"
	"aitravel/internal/models/response_models"
	"aitravel/internal/repositories"
	"aitravel/pkg/logger"
	"aitravel/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	maxPaymentLabel = 50
	bookingCurrency = "USD"
)

type PaymentServiceInterface interface {
	ListPaymentMethods(ctx context.Context, userID string) ([]response_models.PaymentMethodResponse, error)
	AddPaymentMethod(ctx context.Context, userID string, request request_models.AddPaymentMethodRequest) (*response_models.PaymentMethodResponse, error)
	SetDefaultPaymentMethod(ctx context.Context, userID, methodID string) ([]response_models.PaymentMethodResponse, error)
	DeletePaymentMethod(ctx context.Context, userID, methodID string) ([]response_models.PaymentMethodResponse, error)

	// Checkout is a mock payment: nothing is charged, a confirmed booking is
	// recorded and the trip becomes upcoming.
	Checkout(ctx context.Context, userID string, request request_models.CheckoutRequest) (*response_models.CheckoutResponse, error)
	ListBookings(ctx context.Context, userID string) ([]response_models.BookingResponse, error)
}

type paymentService struct {
	methodRepo  repositories.PaymentMethodRepository
	bookingRepo repositories.BookingRepository
	tripRepo    repositories.TripRepository
	userRepo    repositories.UserRepository
	mail        IMailService
	appBaseURL  string
	now         func() time.Time
}

func NewPaymentService(
	methodRepo repositories.PaymentMethodRepository,
	bookingRepo repositories.BookingRepository,
	tripRepo repositories.TripRepository,
	userRepo repositories.UserRepository,
	mail IMailService,
	appBaseURL string,
) PaymentServiceInterface {
	return &paymentService{
		methodRepo:  methodRepo,
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		userRepo:    userRepo,
		mail:        mail,
		appBaseURL:  strings.TrimRight(appBaseURL, "/"),
		now:         time.Now,
	}
}

func (p *paymentService) ListPaymentMethods(ctx context.Context, userID string) ([]response_models.PaymentMethodResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, utils.ErrNotAuthenticated
	}
	methods, err := p.methodRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	out := make([]response_models.PaymentMethodResponse, 0, len(methods))
	for i := range methods {
		out = append(out, toPaymentMethodResponse(&methods[i]))
	}
	return out, nil
}

func (p *paymentService) AddPaymentMethod(ctx context.Context, userID string, request request_models.AddPaymentMethodRequest) (*response_models.PaymentMethodResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, utils.ErrNotAuthenticated
	}

	pm, err := p.newPaymentMethod(uid, request.Label, request.CardNumber, request.Expiry)
	if err != nil {
		return nil, err
	}
	pm.IsDefault = request.IsDefault

	if err := p.methodRepo.Create(ctx, pm); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	resp := toPaymentMethodResponse(pm)
	return &resp, nil
}

func (p *paymentService) SetDefaultPaymentMethod(ctx context.Context, userID, methodID string) ([]response_models.PaymentMethodResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, utils.ErrNotAuthenticated
	}
	if _, err := uuid.Parse(methodID); err != nil {
		return nil, utils.ErrPaymentMethodNotFound
	}

	found, err := p.methodRepo.SetDefault(ctx, methodID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !found {
		return nil, utils.ErrPaymentMethodNotFound
	}
	return p.ListPaymentMethods(ctx, userID)
}

func (p *paymentService) DeletePaymentMethod(ctx context.Context, userID, methodID string) ([]response_models.PaymentMethodResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, utils.ErrNotAuthenticated
	}
	if _, err := uuid.Parse(methodID); err != nil {
		return nil, utils.ErrPaymentMethodNotFound
	}

	found, promoted, err := p.methodRepo.Delete(ctx, methodID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !found {
		return nil, utils.ErrPaymentMethodNotFound
	}
	if promoted != nil {
		logger.Log.Infow("default payment method promoted",
			"user_id", userID,
			"payment_method_id", promoted.ID,
		)
	}
	return p.ListPaymentMethods(ctx, userID)
}

// receipt is the snapshot stored with each booking.
type receipt struct {
	TripTitle     string   `json:"trip_title"`
	Destination   string   `json:"destination"`
	StartDate     string   `json:"start_date,omitempty"`
	EndDate       string   `json:"end_date,omitempty"`
	Budget        float64  `json:"budget"`
	Travelers     int      `json:"travelers"`
	AmountMinor   int64    `json:"amount_minor"`
	Currency      string   `json:"currency"`
	PaymentMethod string   `json:"payment_method"`
	Days          int      `json:"days"`
	Activities    int      `json:"activities"`
	Locations     []string `json:"locations,omitempty"`
	ChargedAt     string   `json:"charged_at"`
}

func (p *paymentService) Checkout(ctx context.Context, userID string, request request_models.CheckoutRequest) (*response_models.CheckoutResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, utils.ErrNotAuthenticated
	}

	trip, err := p.tripRepo.FindByIDForUser(ctx, request.TripID, userID, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}

	amountMinor, err := chargeFor(trip)
	if err != nil {
		return nil, err
	}

	booking := &dbm.Booking{
		UserID:      uid,
		TripID:      trip.ID,
		AmountMinor: amountMinor,
		Currency:    bookingCurrency,
		Status:      dbm.BookingStatusConfirmed,
	}

	var newMethod *dbm.PaymentMethod
	var usedMethod *dbm.PaymentMethod
	switch {
	case request.PaymentMethodID != "":
		pm, err := p.methodRepo.FindByIDForUser(ctx, request.PaymentMethodID, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if pm == nil {
			return nil, utils.ErrPaymentMethodNotFound
		}
		if _, err := utils.ParseExpiry(pm.Expiry, p.now()); err != nil {
			return nil, err
		}
		booking.PaymentMethodID = &pm.ID
		booking.PaymentMethodRef = methodRef(pm)
		usedMethod = pm

	case request.Card != nil:
		pm, err := p.newPaymentMethod(uid, request.Card.Label, request.Card.Number, request.Card.Expiry)
		if err != nil {
			return nil, err
		}
		booking.PaymentMethodRef = methodRef(pm)
		if request.SavePaymentMethod {
			newMethod = pm
			usedMethod = pm
		}

	default:
		return nil, fmt.Errorf("%w: a saved payment method or a card is required", utils.ErrInvalidInput)
	}

	code, err := utils.GenerateConfirmationCode()
	if err != nil {
		return nil, fmt.Errorf("confirmation code: %w", err)
	}
	booking.ConfirmationCode = code

	snapshot, err := json.Marshal(p.receiptFor(trip, amountMinor, booking.PaymentMethodRef))
	if err != nil {
		return nil, fmt.Errorf("receipt: %w", err)
	}
	booking.Receipt = datatypes.JSON(snapshot)

	if err := p.bookingRepo.Checkout(ctx, booking, newMethod); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	booking.Trip = *trip

	logger.Log.Infow("checkout completed",
		"user_id", userID,
		"trip_id", trip.ID,
		"booking_id", booking.ID,
		"amount_minor", amountMinor,
	)

	resp := &response_models.CheckoutResponse{
		Booking:   toBookingResponse(booking),
		EmailSent: p.sendConfirmation(ctx, userID, trip, booking),
	}
	if usedMethod != nil {
		pmResp := toPaymentMethodResponse(usedMethod)
		resp.PaymentMethod = &pmResp
	}
	return resp, nil
}

func (p *paymentService) ListBookings(ctx context.Context, userID string) ([]response_models.BookingResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, utils.ErrNotAuthenticated
	}
	bookings, err := p.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	out := make([]response_models.BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out, nil
}

// newPaymentMethod validates a card and keeps only what may be stored.
func (p *paymentService) newPaymentMethod(userID uuid.UUID, label, number, expiry string) (*dbm.PaymentMethod, error) {
	digits, err := utils.NormalizeCardNumber(number)
	if err != nil {
		return nil, err
	}
	exp, err := utils.ParseExpiry(expiry, p.now())
	if err != nil {
		return nil, err
	}

	brand := utils.CardBrand(digits)
	last4 := utils.LastFour(digits)
	label = strings.TrimSpace(label)
	if label == "" {
		label = fmt.Sprintf("%s ending %s", strings.ToUpper(brand[:1])+brand[1:], last4)
	}
	if len([]rune(label)) > maxPaymentLabel {
		return nil, fmt.Errorf("%w: label must be at most %d characters", utils.ErrInvalidInput, maxPaymentLabel)
	}

	return &dbm.PaymentMethod{
		UserID: userID,
		Label:  label,
		Brand:  brand,
		Last4:  last4,
		Expiry: exp,
	}, nil
}

func (p *paymentService) receiptFor(trip *dbm.Trip, amountMinor int64, methodRef string) receipt {
	r := receipt{
		TripTitle:     trip.Title,
		Destination:   trip.Destination,
		StartDate:     utils.FormatDate(trip.StartDate),
		EndDate:       utils.FormatDate(trip.EndDate),
		Travelers:     travelersOf(trip),
		AmountMinor:   amountMinor,
		Currency:      bookingCurrency,
		PaymentMethod: methodRef,
		Days:          len(trip.Days),
		ChargedAt:     p.now().UTC().Format(time.RFC3339),
	}
	if trip.Budget != nil {
		r.Budget = *trip.Budget
	}

	seen := map[string]bool{}
	for _, d := range trip.Days {
		r.Activities += len(d.Activities)
		for _, a := range d.Activities {
			if a.Location != "" && !seen[a.Location] {
				seen[a.Location] = true
				r.Locations = append(r.Locations, a.Location)
			}
		}
	}
	return r
}

// sendConfirmation reports whether a mail actually went out. Failures are
// logged and never fail the checkout.
func (p *paymentService) sendConfirmation(ctx context.Context, userID string, trip *dbm.Trip, booking *dbm.Booking) bool {
	if p.mail == nil || !p.mail.Enabled() {
		return false
	}
	user, err := p.userRepo.FindByID(ctx, userID)
	if err != nil || user == nil {
		logger.Log.Warnw("booking email skipped: user lookup failed", "user_id", userID, "error", err)
		return false
	}

	dates := utils.FormatDate(trip.StartDate)
	if end := utils.FormatDate(trip.EndDate); end != "" && end != dates {
		dates = dates + " to " + end
	}
	err = p.mail.SendBookingConfirmation(user.Email, BookingEmail{
		TravellerName:    user.FirstName,
		TripTitle:        trip.Title,
		Destination:      trip.Destination,
		Dates:            dates,
		Travelers:        travelersOf(trip),
		Amount:           formatMinor(booking.AmountMinor, booking.Currency),
		PaymentMethod:    booking.PaymentMethodRef,
		ConfirmationCode: booking.ConfirmationCode,
		TripURL:          fmt.Sprintf("%s/trips/%s", p.appBaseURL, trip.ID),
	})
	if err != nil {
		logger.Log.Warnw("booking email failed",
			"user_id", userID,
			"booking_id", booking.ID,
			"error", err,
		)
		return false
	}
	return true
}

// maxChargeMinor is the largest budget for the largest party, in cents.
const maxChargeMinor = itinerary.MaxBudget * itinerary.MaxTravelers * 100

// chargeFor is budget x travelers in minor units; no budget means nothing to charge.
func chargeFor(trip *dbm.Trip) (int64, error) {
	if trip.Budget == nil || *trip.Budget <= 0 {
		return 0, utils.ErrNothingToCharge
	}
	amount := math.Round(*trip.Budget * float64(travelersOf(trip)) * 100)
	if amount > maxChargeMinor {
		return 0, fmt.Errorf("%w: amount exceeds the checkout limit", utils.ErrInvalidInput)
	}
	if amount < 1 {
		return 0, utils.ErrNothingToCharge
	}
	return int64(amount), nil
}

func travelersOf(trip *dbm.Trip) int {
	if trip.Travelers < 1 {
		return 1
	}
	return trip.Travelers
}

func methodRef(pm *dbm.PaymentMethod) string {
	return fmt.Sprintf("%s •••• %s", pm.Brand, pm.Last4)
}

func formatMinor(minor int64, currency string) string {
	return fmt.Sprintf("%s %.2f", currency, float64(minor)/100)
}

func toPaymentMethodResponse(pm *dbm.PaymentMethod) response_models.PaymentMethodResponse {
	return response_models.PaymentMethodResponse{
		ID:        pm.ID,
		Label:     pm.Label,
		Brand:     pm.Brand,
		Last4:     pm.Last4,
		Expiry:    pm.Expiry,
		IsDefault: pm.IsDefault,
		CreatedAt: utils.FormatRFC3339(pm.CreatedAt),
	}
}

func toBookingResponse(b *dbm.Booking) response_models.BookingResponse {
	return response_models.BookingResponse{
		ID:               b.ID,
		TripID:           b.TripID,
		TripTitle:        b.Trip.Title,
		Amount:           float64(b.AmountMinor) / 100,
		Currency:         b.Currency,
		Status:           string(b.Status),
		ConfirmationCode: b.ConfirmationCode,
		PaymentMethodRef: b.PaymentMethodRef,
		Receipt:          b.Receipt,
		CreatedAt:        utils.FormatRFC3339(b.CreatedAt),
	}
}
