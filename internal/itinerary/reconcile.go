package itinerary

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Loose is a number that the model may send as a JSON number, a numeric
// string or null.
type Loose struct {
	Value float64
	Valid bool
}

func (l *Loose) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = Loose{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "$€£"))
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*l = Loose{}
			return nil
		}
		*l = Loose{Value: f, Valid: true}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*l = Loose{}
		return nil
	}
	*l = Loose{Value: f, Valid: true}
	return nil
}

// RawPlan is a trip plan as a model produces it: field names vary and
// numbers may be strings.
type RawPlan struct {
	Title       string   `json:"title"`
	Destination string   `json:"destination"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Budget      Loose    `json:"budget"`
	Travelers   Loose    `json:"travelers"`
	Days        []RawDay `json:"days"`
	Itinerary   []RawDay `json:"itinerary"`
}

type RawDay struct {
	Day        Loose         `json:"day"`
	Date       string        `json:"date"`
	Title      string        `json:"title"`
	Theme      string        `json:"theme"`
	Activities []RawActivity `json:"activities"`
}

type RawActivity struct {
	ID          string `json:"id"`
	Time        string `json:"time"`
	StartTime   string `json:"startTime"`
	Title       string `json:"title"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Latitude    Loose  `json:"latitude"`
	Longitude   Loose  `json:"longitude"`
	Lat         Loose  `json:"lat"`
	Lng         Loose  `json:"lng"`
}

// ParseRawPlan decodes a model's plan JSON.
func ParseRawPlan(data []byte) (RawPlan, error) {
	var raw RawPlan
	err := json.Unmarshal(data, &raw)
	return raw, err
}

// Reconcile turns a model-produced plan into a Plan: days renumbered from 1,
// times and categories normalized, untitled activities dropped, missing ids
// assigned and every day sorted.
func Reconcile(raw RawPlan) Plan {
	days := raw.Days
	if len(days) == 0 {
		days = raw.Itinerary
	}

	out := Plan{
		Title:       strings.TrimSpace(raw.Title),
		Destination: strings.TrimSpace(raw.Destination),
		StartDate:   normalizeDate(raw.StartDate),
		EndDate:     normalizeDate(raw.EndDate),
		Days:        make([]Day, 0, len(days)),
	}
	if raw.Budget.Valid && raw.Budget.Value >= 0 && raw.Budget.Value <= MaxBudget {
		b := raw.Budget.Value
		out.Budget = &b
	}
	if raw.Travelers.Valid && raw.Travelers.Value >= 1 {
		out.Travelers = MaxTravelers
		if raw.Travelers.Value < MaxTravelers {
			out.Travelers = int(raw.Travelers.Value)
		}
	}

	seen := make(map[string]bool)
	for i, rd := range days {
		n := i + 1
		title := strings.TrimSpace(firstNonEmpty(rd.Title, rd.Theme))
		if title == "" {
			title = DefaultDayTitle(n)
		}
		date := normalizeDate(rd.Date)
		if date == "" && out.StartDate != "" {
			date = shiftDate(out.StartDate, i)
		}

		day := Day{Number: n, Date: date, Title: title, Activities: make([]Activity, 0, len(rd.Activities))}
		for _, ra := range rd.Activities {
			a, ok := reconcileActivity(ra)
			if !ok {
				continue
			}
			// ids must be unique across the plan for MoveActivity to be unambiguous
			if a.ID == "" || seen[a.ID] {
				a.ID = newID()
			}
			seen[a.ID] = true
			day.Activities = append(day.Activities, a)
		}
		sortActivities(day.Activities)
		out.Days = append(out.Days, day)
	}

	if out.EndDate == "" && out.StartDate != "" && len(out.Days) > 0 {
		out.EndDate = shiftDate(out.StartDate, len(out.Days)-1)
	}
	return out
}

func reconcileActivity(ra RawActivity) (Activity, bool) {
	title := strings.TrimSpace(firstNonEmpty(ra.Title, ra.Name))
	if title == "" {
		return Activity{}, false
	}
	a := Activity{
		ID:          strings.TrimSpace(ra.ID),
		Time:        NormalizeTime(firstNonEmpty(ra.Time, ra.StartTime)),
		Title:       title,
		Description: strings.TrimSpace(ra.Description),
		Location:    strings.TrimSpace(ra.Location),
		Category:    NormalizeCategory(firstNonEmpty(ra.Category, ra.Type)),
	}
	lat, lng := ra.Latitude, ra.Longitude
	if !lat.Valid {
		lat = ra.Lat
	}
	if !lng.Valid {
		lng = ra.Lng
	}
	if lat.Valid && lng.Valid && lat.Value >= -90 && lat.Value <= 90 && lng.Value >= -180 && lng.Value <= 180 {
		la, lo := lat.Value, lng.Value
		a.Latitude, a.Longitude = &la, &lo
	}
	return a, true
}

// normalizeDate accepts YYYY-MM-DD or RFC3339 and returns YYYY-MM-DD, or "".
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.Format(dateLayout)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(dateLayout)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
