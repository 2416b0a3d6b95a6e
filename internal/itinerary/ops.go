package itinerary

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

func (p Plan) validDay(i int) bool {
	return i >= 0 && i < len(p.Days)
}

// MoveActivity takes an activity out of one day and inserts it into another
// (or the same) day at position, clamped to the target's bounds. Unknown days
// or ids leave the plan unchanged.
func MoveActivity(plan Plan, fromDay int, activityID string, toDay int, position int) Plan {
	out := plan.Clone()
	if !out.validDay(fromDay) || !out.validDay(toDay) {
		return out
	}

	src := out.Days[fromDay].Activities
	i := out.Days[fromDay].indexOf(activityID)
	if i < 0 {
		return out
	}
	moved := src[i]
	out.Days[fromDay].Activities = append(src[:i:i], src[i+1:]...)

	dst := out.Days[toDay].Activities
	if position < 0 {
		position = 0
	}
	if position > len(dst) {
		position = len(dst)
	}
	merged := make([]Activity, 0, len(dst)+1)
	merged = append(merged, dst[:position]...)
	merged = append(merged, moved)
	merged = append(merged, dst[position:]...)
	out.Days[toDay].Activities = merged

	renumberOrder(out.Days[fromDay].Activities)
	renumberOrder(out.Days[toDay].Activities)
	return out
}

// UpdateActivity applies patch to one activity. A changed time re-sorts the day.
func UpdateActivity(plan Plan, dayIndex int, activityID string, patch ActivityPatch) Plan {
	out := plan.Clone()
	if !out.validDay(dayIndex) {
		return out
	}
	day := &out.Days[dayIndex]
	i := day.indexOf(activityID)
	if i < 0 {
		return out
	}

	a := &day.Activities[i]
	timeChanged := false
	if patch.Time != nil {
		t := NormalizeTime(*patch.Time)
		timeChanged = t != a.Time
		a.Time = t
	}
	if patch.Title != nil {
		a.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Location != nil {
		a.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Latitude != nil {
		v := *patch.Latitude
		a.Latitude = &v
	}
	if patch.Longitude != nil {
		v := *patch.Longitude
		a.Longitude = &v
	}
	if patch.Category != nil {
		a.Category = NormalizeCategory(*patch.Category)
	}

	if timeChanged {
		sortActivities(day.Activities)
	}
	return out
}

// AddActivity appends an activity to a day, assigning an id when missing, and
// keeps the day sorted.
func AddActivity(plan Plan, dayIndex int, activity Activity) Plan {
	out := plan.Clone()
	if !out.validDay(dayIndex) {
		return out
	}

	a := activity.clone()
	if a.ID == "" {
		a.ID = newID()
	}
	a.Title = strings.TrimSpace(a.Title)
	a.Time = NormalizeTime(a.Time)
	a.Category = NormalizeCategory(a.Category)

	day := &out.Days[dayIndex]
	day.Activities = append(day.Activities, a)
	sortActivities(day.Activities)
	return out
}

func RemoveActivity(plan Plan, dayIndex int, activityID string) Plan {
	out := plan.Clone()
	if !out.validDay(dayIndex) {
		return out
	}
	day := &out.Days[dayIndex]
	i := day.indexOf(activityID)
	if i < 0 {
		return out
	}
	day.Activities = append(day.Activities[:i], day.Activities[i+1:]...)
	renumberOrder(day.Activities)
	return out
}

// AddDay appends a day numbered n+1. Its date follows the previous day's when
// that one is dated, otherwise the plan's start date.
func AddDay(plan Plan, title string) Plan {
	out := plan.Clone()
	n := len(out.Days) + 1

	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultDayTitle(n)
	}

	date := ""
	switch {
	case n > 1 && out.Days[n-2].Date != "":
		date = shiftDate(out.Days[n-2].Date, 1)
	case n == 1 && out.StartDate != "":
		date = out.StartDate
	}

	out.Days = append(out.Days, Day{Number: n, Date: date, Title: title, Activities: []Activity{}})
	return out
}

// RemoveDay drops a day and renumbers the rest 1..n. Days still carrying their
// default title are retitled to match the new number.
func RemoveDay(plan Plan, dayIndex int) Plan {
	out := plan.Clone()
	if !out.validDay(dayIndex) {
		return out
	}
	out.Days = append(out.Days[:dayIndex], out.Days[dayIndex+1:]...)
	renumberDays(out.Days)
	return out
}

// Renumber returns a copy whose days are numbered 1..n.
func Renumber(plan Plan) Plan {
	out := plan.Clone()
	renumberDays(out.Days)
	return out
}

func renumberDays(days []Day) {
	for i := range days {
		n := i + 1
		if days[i].Title == "" || days[i].Title == DefaultDayTitle(days[i].Number) {
			days[i].Title = DefaultDayTitle(n)
		}
		days[i].Number = n
	}
}

func shiftDate(date string, days int) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format(dateLayout)
}
