package itinerary

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedIDs(t *testing.T) {
	t.Helper()
	n := 0
	prev := newID
	newID = func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
	t.Cleanup(func() { newID = prev })
}

func samplePlan() Plan {
	return Plan{
		Destination: "Lisbon",
		Days: []Day{
			{Number: 1, Title: "Day 1", Activities: []Activity{
				{ID: "a", Time: "09:00", Title: "Breakfast", Category: CategoryFood, Order: 0},
				{ID: "b", Time: "11:00", Title: "Castle", Category: CategoryActivity, Order: 1},
				{ID: "c", Time: "19:30", Title: "Fado dinner", Category: CategoryFood, Order: 2},
			}},
			{Number: 2, Title: "Day 2", Activities: []Activity{
				{ID: "d", Time: "10:00", Title: "Belem", Category: CategoryActivity, Order: 0},
			}},
			{Number: 3, Title: "Sintra", Activities: []Activity{}},
		},
	}
}

func ids(d Day) []string {
	out := make([]string, len(d.Activities))
	for i, a := range d.Activities {
		out[i] = a.ID
	}
	return out
}

func orders(d Day) []int {
	out := make([]int, len(d.Activities))
	for i, a := range d.Activities {
		out[i] = a.Order
	}
	return out
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
		ok      bool
	}{
		{"09:30", 570, true},
		{"9:30", 570, true},
		{" 14:05 ", 845, true},
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{"08:15:00", 495, true},
		{"9:30 PM", 1290, true},
		{"9:30pm", 1290, true},
		{"12:00 AM", 0, true},
		{"12 PM", 720, true},
		{"9am", 540, true},
		{"7 p.m.", 1140, true},
		{"noon", 720, true},
		{"24:00", 0, false},
		{"9:75", 0, false},
		{"morning", 0, false},
		{"", 0, false},
		{"13:00 PM", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, ok := ParseTimeOfDay(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.minutes, m)
			}
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	assert.Equal(t, "09:05", NormalizeTime("9:05"))
	assert.Equal(t, "21:00", NormalizeTime("9pm"))
	assert.Equal(t, "Evening", NormalizeTime("  Evening "))
	assert.Equal(t, "", NormalizeTime(""))
}

func TestSortDay_UnparseableSinkAndStable(t *testing.T) {
	day := Day{Activities: []Activity{
		{ID: "x", Time: "late"},
		{ID: "a", Time: "18:00"},
		{ID: "y", Time: "whenever"},
		{ID: "b", Time: "8:00 AM"},
		{ID: "c", Time: "08:00"},
	}}

	sorted := SortDay(day)

	assert.Equal(t, []string{"b", "c", "a", "x", "y"}, ids(sorted))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, orders(sorted))
	assert.True(t, IsSorted(sorted))
	// input untouched
	assert.Equal(t, []string{"x", "a", "y", "b", "c"}, ids(day))
}

func TestMoveActivity_BetweenDays(t *testing.T) {
	plan := samplePlan()
	before := plan.ActivityCount()

	out := MoveActivity(plan, 0, "b", 1, 0)

	assert.Equal(t, before, out.ActivityCount())
	assert.Equal(t, []string{"a", "c"}, ids(out.Days[0]))
	assert.Equal(t, []string{"b", "d"}, ids(out.Days[1]))
	assert.Equal(t, []int{0, 1}, orders(out.Days[0]))
	assert.Equal(t, []int{0, 1}, orders(out.Days[1]))

	// source plan is untouched
	assert.Equal(t, []string{"a", "b", "c"}, ids(plan.Days[0]))
	assert.Equal(t, []string{"d"}, ids(plan.Days[1]))
}

func TestMoveActivity_ClampsPosition(t *testing.T) {
	plan := samplePlan()

	out := MoveActivity(plan, 0, "a", 2, 99)
	assert.Equal(t, []string{"a"}, ids(out.Days[2]))

	out = MoveActivity(plan, 1, "d", 0, -5)
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids(out.Days[0]))
}

func TestMoveActivity_WithinDay(t *testing.T) {
	out := MoveActivity(samplePlan(), 0, "a", 0, 2)
	assert.Equal(t, []string{"b", "c", "a"}, ids(out.Days[0]))
	assert.Equal(t, []int{0, 1, 2}, orders(out.Days[0]))
}

func TestMoveActivity_UnknownIsIgnored(t *testing.T) {
	plan := samplePlan()

	for _, out := range []Plan{
		MoveActivity(plan, 0, "missing", 1, 0),
		MoveActivity(plan, 7, "a", 1, 0),
		MoveActivity(plan, 0, "a", -1, 0),
	} {
		assert.Equal(t, plan, out)
	}
}

func TestMoveActivity_PreservesTotal(t *testing.T) {
	plan := samplePlan()
	total := plan.ActivityCount()
	moves := []struct {
		from, to, pos int
		id            string
	}{
		{0, 1, 1, "a"}, {1, 2, 0, "a"}, {0, 0, 0, "c"}, {1, 0, 3, "d"}, {2, 1, 0, "a"}, {0, 2, 0, "missing"},
	}
	for _, m := range moves {
		plan = MoveActivity(plan, m.from, m.id, m.to, m.pos)
		assert.Equal(t, total, plan.ActivityCount())
	}
}

func TestUpdateActivity_TimeChangeResorts(t *testing.T) {
	plan := samplePlan()
	newTime := "7am"

	out := UpdateActivity(plan, 0, "c", ActivityPatch{Time: &newTime})

	assert.Equal(t, []string{"c", "a", "b"}, ids(out.Days[0]))
	assert.Equal(t, "07:00", out.Days[0].Activities[0].Time)
	assert.True(t, IsSorted(out.Days[0]))
	assert.Equal(t, []int{0, 1, 2}, orders(out.Days[0]))
}

func TestUpdateActivity_OtherFields(t *testing.T) {
	plan := samplePlan()
	title, cat := "  Sao Jorge Castle ", "Sightseeing"
	lat, lng := 38.71, -9.13

	out := UpdateActivity(plan, 0, "b", ActivityPatch{Title: &title, Category: &cat, Latitude: &lat, Longitude: &lng})

	a := out.Days[0].Activities[1]
	assert.Equal(t, "Sao Jorge Castle", a.Title)
	assert.Equal(t, CategoryActivity, a.Category)
	require.NotNil(t, a.Latitude)
	assert.Equal(t, 38.71, *a.Latitude)
	assert.Equal(t, []string{"a", "b", "c"}, ids(out.Days[0]))
	assert.Nil(t, plan.Days[0].Activities[1].Latitude)

	assert.Equal(t, plan, UpdateActivity(plan, 0, "nope", ActivityPatch{Title: &title}))
}

func TestAddActivity(t *testing.T) {
	fixedIDs(t)
	plan := samplePlan()

	out := AddActivity(plan, 0, Activity{Time: "10:00 AM", Title: "Tram 28", Category: "transportation"})

	require.Len(t, out.Days[0].Activities, 4)
	added := out.Days[0].Activities[1]
	assert.Equal(t, "gen-1", added.ID)
	assert.Equal(t, "10:00", added.Time)
	assert.Equal(t, CategoryTransport, added.Category)
	assert.True(t, IsSorted(out.Days[0]))
	assert.Len(t, plan.Days[0].Activities, 3)

	assert.Equal(t, plan, AddActivity(plan, 5, Activity{Title: "x"}))
}

func TestRemoveActivity(t *testing.T) {
	plan := samplePlan()

	out := RemoveActivity(plan, 0, "b")
	assert.Equal(t, []string{"a", "c"}, ids(out.Days[0]))
	assert.Equal(t, []int{0, 1}, orders(out.Days[0]))
	assert.Len(t, plan.Days[0].Activities, 3)

	assert.Equal(t, plan, RemoveActivity(plan, 0, "zzz"))
}

func TestAddDay(t *testing.T) {
	plan := samplePlan()
	plan.Days[2].Date = "2025-06-03"

	out := AddDay(plan, "")
	require.Len(t, out.Days, 4)
	assert.Equal(t, 4, out.Days[3].Number)
	assert.Equal(t, "Day 4", out.Days[3].Title)
	assert.Equal(t, "2025-06-04", out.Days[3].Date)
	assert.NotNil(t, out.Days[3].Activities)

	empty := AddDay(Plan{StartDate: "2025-01-10"}, "Arrival")
	require.Len(t, empty.Days, 1)
	assert.Equal(t, "Arrival", empty.Days[0].Title)
	assert.Equal(t, "2025-01-10", empty.Days[0].Date)
}

func TestRemoveDay_Renumbers(t *testing.T) {
	out := RemoveDay(samplePlan(), 0)

	require.Len(t, out.Days, 2)
	assert.Equal(t, 1, out.Days[0].Number)
	assert.Equal(t, "Day 1", out.Days[0].Title)
	assert.Equal(t, 2, out.Days[1].Number)
	assert.Equal(t, "Sintra", out.Days[1].Title)
	assert.Equal(t, []string{"d"}, ids(out.Days[0]))

	assert.Len(t, RemoveDay(samplePlan(), 3).Days, 3)
}

func TestNormalizeCategory(t *testing.T) {
	tests := map[string]string{
		"Transportation": CategoryTransport,
		"flights":        CategoryTransport,
		"DINING":         CategoryFood,
		"restaurants":    CategoryFood,
		"Hotel":          CategoryAccommodation,
		"check_in":       CategoryAccommodation,
		"sightseeing":    CategoryActivity,
		"activity":       CategoryActivity,
		"spa day":        CategoryOther,
		"":               CategoryOther,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeCategory(in), in)
	}
	assert.True(t, IsCategory(CategoryFood))
	assert.False(t, IsCategory("dining"))
}

func TestReconcile(t *testing.T) {
	fixedIDs(t)
	raw, err := ParseRawPlan([]byte(`{
		"destination": "Kyoto",
		"startDate": "2025-04-01",
		"budget": "$1,500",
		"travelers": 2,
		"days": [
			{"day": 5, "theme": "Temples", "activities": [
				{"time": "2pm", "name": "Kinkaku-ji", "type": "sightseeing", "lat": "35.03", "lng": 135.72},
				{"time": "8:00", "title": "Breakfast", "category": "Dining", "id": "k1"},
				{"time": "evening", "title": ""}
			]},
			{"day": "9", "activities": [
				{"startTime": "09:00 AM", "title": "Train to Nara", "category": "train", "id": "k1"}
			]}
		]
	}`))
	require.NoError(t, err)

	plan := Reconcile(raw)

	assert.Equal(t, "Kyoto", plan.Destination)
	require.NotNil(t, plan.Budget)
	assert.Equal(t, 1500.0, *plan.Budget)
	assert.Equal(t, 2, plan.Travelers)
	assert.Equal(t, "2025-04-02", plan.EndDate)

	require.Len(t, plan.Days, 2)
	d1, d2 := plan.Days[0], plan.Days[1]
	assert.Equal(t, 1, d1.Number)
	assert.Equal(t, "Temples", d1.Title)
	assert.Equal(t, "2025-04-01", d1.Date)
	assert.Equal(t, 2, d2.Number)
	assert.Equal(t, "Day 2", d2.Title)
	assert.Equal(t, "2025-04-02", d2.Date)

	require.Len(t, d1.Activities, 2)
	assert.Equal(t, "k1", d1.Activities[0].ID)
	assert.Equal(t, "08:00", d1.Activities[0].Time)
	assert.Equal(t, CategoryFood, d1.Activities[0].Category)
	assert.Equal(t, "gen-1", d1.Activities[1].ID)
	assert.Equal(t, "14:00", d1.Activities[1].Time)
	assert.Equal(t, CategoryActivity, d1.Activities[1].Category)
	require.NotNil(t, d1.Activities[1].Latitude)
	assert.Equal(t, 35.03, *d1.Activities[1].Latitude)

	require.Len(t, d2.Activities, 1)
	assert.Equal(t, "gen-2", d2.Activities[0].ID, "duplicate ids are replaced")
	assert.Equal(t, CategoryTransport, d2.Activities[0].Category)
	assert.Equal(t, []int{0}, orders(d2))
}

func TestReconcile_ItineraryAliasAndEmpty(t *testing.T) {
	raw, err := ParseRawPlan([]byte(`{"itinerary":[{"activities":[]}],"budget":null}`))
	require.NoError(t, err)

	plan := Reconcile(raw)
	require.Len(t, plan.Days, 1)
	assert.Equal(t, "Day 1", plan.Days[0].Title)
	assert.Nil(t, plan.Budget)
	assert.Equal(t, 0, plan.Travelers)

	assert.Empty(t, Reconcile(RawPlan{}).Days)
}

func TestReconcile_BoundsTravelersAndBudget(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		travelers int
		budget    *float64
	}{
		{"huge party", `{"travelers":1e12,"budget":500}`, MaxTravelers, ptr(500.0)},
		{"at the cap", `{"travelers":100,"budget":10000000}`, MaxTravelers, ptr(float64(MaxBudget))},
		{"fractional", `{"travelers":2.7}`, 2, nil},
		{"budget past cap", `{"travelers":3,"budget":1e300}`, 3, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := ParseRawPlan([]byte(tc.body))
			require.NoError(t, err)
			plan := Reconcile(raw)
			assert.Equal(t, tc.travelers, plan.Travelers)
			assert.Equal(t, tc.budget, plan.Budget)
		})
	}
}

func ptr(f float64) *float64 { return &f }
