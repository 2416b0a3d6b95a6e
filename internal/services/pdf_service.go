package services

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"aitravel/internal/itinerary"
	"aitravel/internal/repositories"
	"aitravel/pkg/utils"

	"github.com/jung-kurt/gofpdf"
)

type PDFServiceInterface interface {
	// TripPDF renders the trip's itinerary and returns a download file name
	// with the document bytes.
	TripPDF(ctx context.Context, userID, tripID string) (string, []byte, error)
}

type PDFService struct {
	tripRepo repositories.TripRepository
	appName  string
	now      func() time.Time
}

func NewPDFService(tripRepo repositories.TripRepository, appName string) PDFServiceInterface {
	return &PDFService{
		tripRepo: tripRepo,
		appName:  appName,
		now:      time.Now,
	}
}

func (s *PDFService) TripPDF(ctx context.Context, userID, tripID string) (string, []byte, error) {
	trip, err := s.tripRepo.FindByIDForUser(ctx, tripID, userID, true)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if trip == nil {
		return "", nil, utils.ErrTripNotFound
	}

	data, err := s.render(planFromTrip(trip))
	if err != nil {
		return "", nil, err
	}
	return pdfFileName(trip.Title, trip.Destination), data, nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

func pdfFileName(title, destination string) string {
	base := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(firstNonBlank(title, destination)), "-"), "-")
	if base == "" {
		base = "itinerary"
	}
	return base + ".pdf"
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (s *PDFService) render(plan itinerary.Plan) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 22)
	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s - page %d", s.appName, pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFillColor(3, 105, 161)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(170, 10, tr(firstNonBlank(plan.Title, "Trip to "+plan.Destination)), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, tr(plan.Destination), "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	row := func(label, value string) {
		if value == "" {
			return
		}
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(40, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(130, 7, tr(value), "", 1, "L", false, 0, "")
	}

	row("Dates", dateSpan(plan.StartDate, plan.EndDate))
	if plan.Travelers > 0 {
		row("Travelers", fmt.Sprint(plan.Travelers))
	}
	if plan.Budget != nil {
		row("Budget", fmt.Sprintf("$%.2f", *plan.Budget))
	}
	row("Activities", fmt.Sprintf("%d across %d days", plan.ActivityCount(), len(plan.Days)))
	row("Generated", s.now().UTC().Format("02 Jan 2006, 15:04 UTC"))
	pdf.Ln(4)

	for _, day := range plan.Days {
		header := fmt.Sprintf("  Day %d - %s", day.Number, day.Title)
		if d := readableDate(day.Date); d != "" {
			header += "  (" + d + ")"
		}
		pdf.SetFillColor(224, 242, 254)
		pdf.SetTextColor(3, 105, 161)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, tr(header), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(1)

		if len(day.Activities) == 0 {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetTextColor(120, 120, 120)
			pdf.CellFormat(170, 7, "No activities planned", "", 1, "L", false, 0, "")
			pdf.Ln(2)
			continue
		}

		for _, a := range day.Activities {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(20, 20, 20)
			pdf.CellFormat(18, 6, tr(a.Time), "", 0, "L", false, 0, "")
			pdf.CellFormat(122, 6, tr(a.Title), "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(100, 100, 100)
			pdf.CellFormat(30, 6, tr(a.Category), "", 1, "R", false, 0, "")

			if a.Location != "" {
				pdf.SetX(38)
				pdf.SetFont("Helvetica", "I", 9)
				pdf.CellFormat(152, 5, tr(a.Location), "", 1, "L", false, 0, "")
			}
			if a.Description != "" {
				pdf.SetX(38)
				pdf.SetFont("Helvetica", "", 9)
				pdf.SetTextColor(60, 60, 60)
				pdf.MultiCell(152, 4.5, tr(a.Description), "", "L", false)
			}
			pdf.Ln(1.5)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func readableDate(iso string) string {
	t, err := time.Parse(utils.DateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format("Mon, 02 Jan 2006")
}

func dateSpan(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "" || end == start:
		return readableDate(start)
	case start == "":
		return readableDate(end)
	default:
		return readableDate(start) + " to " + readableDate(end)
	}
}
