package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"aitravel/internal/models/db_models"
	"aitravel/internal/repositories"

	"github.com/google/uuid"
)

// deepCopy round-trips through JSON so stored rows never alias caller slices.
func deepCopy[T any](v T) T {
	b, _ := json.Marshal(v)
	var out T
	_ = json.Unmarshal(b, &out)
	return out
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*db_models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*db_models.User{}}
}

func (f *fakeUserRepo) Insert(_ context.Context, user *db_models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	f.users[user.ID.String()] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*db_models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*db_models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *db_models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.ID.String()] = &cp
	return nil
}

type fakeTripRepo struct {
	mu       sync.Mutex
	trips    map[uuid.UUID]*db_models.Trip
	replaced int
}

var _ repositories.TripRepository = (*fakeTripRepo)(nil)

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{trips: map[uuid.UUID]*db_models.Trip{}}
}

func (f *fakeTripRepo) Create(_ context.Context, trip *db_models.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	for i := range trip.Days {
		trip.Days[i].TripID = trip.ID
		if trip.Days[i].ID == uuid.Nil {
			trip.Days[i].ID = uuid.New()
		}
	}
	f.trips[trip.ID] = deepCopy(trip)
	return nil
}

func (f *fakeTripRepo) FindByIDForUser(_ context.Context, id, userID string, _ bool) (*db_models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	t, ok := f.trips[tid]
	if !ok || t.UserID.String() != userID {
		return nil, nil
	}
	return deepCopy(t), nil
}

func (f *fakeTripRepo) ListByUser(_ context.Context, userID string, filter repositories.TripFilter) ([]db_models.Trip, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Trip
	for _, t := range f.trips {
		if t.UserID.String() == userID && (filter.Status == "" || string(t.Status) == filter.Status) {
			out = append(out, *deepCopy(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Destination < out[j].Destination })
	return out, int64(len(out)), nil
}

func (f *fakeTripRepo) Update(_ context.Context, trip *db_models.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	days := f.trips[trip.ID].Days
	cp := deepCopy(trip)
	cp.Days = days
	f.trips[trip.ID] = cp
	return nil
}

func (f *fakeTripRepo) UpdateStatus(_ context.Context, id uuid.UUID, status db_models.TripStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.trips[id]; ok {
		t.Status = status
	}
	return nil
}

func (f *fakeTripRepo) DeleteForUser(_ context.Context, id, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	t, ok := f.trips[tid]
	if !ok || t.UserID.String() != userID {
		return false, nil
	}
	delete(f.trips, tid)
	return true, nil
}

func (f *fakeTripRepo) ReplaceItinerary(_ context.Context, tripID uuid.UUID, days []db_models.TripDay) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range days {
		days[i].TripID = tripID
		for j := range days[i].Activities {
			days[i].Activities[j].DayID = days[i].ID
		}
	}
	f.trips[tripID].Days = deepCopy(days)
	f.replaced++
	return nil
}

func (f *fakeTripRepo) stored(id uuid.UUID) *db_models.Trip {
	f.mu.Lock()
	defer f.mu.Unlock()
	return deepCopy(f.trips[id])
}
