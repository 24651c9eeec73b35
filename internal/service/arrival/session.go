package arrival

import (
	"sync"
	"time"

	"locshare/internal/model"
	"locshare/internal/util"
)

// Session holds arrival state for one member between login and logout.
// Visit records and report claims live here and nowhere else; discarding the
// session resets them, which is why a fresh session may re-report a fence
// that was already confirmed in an earlier one.
type Session struct {
	MemberID  string
	StartedAt time.Time

	mutex        sync.Mutex
	visits       map[model.GeofenceKey]model.VisitState
	claims       map[model.GeofenceKey]bool
	arrivalShown bool
}

func NewSession(memberID string) *Session {
	return &Session{
		MemberID:  memberID,
		StartedAt: time.Now(),
		visits:    make(map[model.GeofenceKey]model.VisitState),
		claims:    make(map[model.GeofenceKey]bool),
	}
}

// Evaluate runs one position sample against the fence set and returns the
// fences that need an arrival report. Emitted fences are claimed atomically
// under the session lock, so no two samples can schedule a report for the
// same fence while one is outstanding.
//
// Per fence the state machine is
//
//	Outside -> InsideUnconfirmed -> InsideConfirmed (terminal)
//
// with InsideUnconfirmed -> Outside the only backward edge, taken when the
// member leaves the fence before any report succeeded and none is in flight.
func (s *Session) Evaluate(pos model.Position, fences []model.Geofence) ([]model.PendingArrival, bool) {
	if !pos.Valid() {
		return nil, false
	}
	if len(fences) == 0 {
		return nil, false
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	var pending []model.PendingArrival
	anyInside := false

	for i := range fences {
		f := fences[i]
		dist := util.DistanceMeters(pos.Latitude, pos.Longitude, f.CenterLat, f.CenterLng)
		inside := dist <= f.RadiusMeters

		state := s.visits[f.Key]

		if !inside {
			// Allow a fresh attempt on re-entry, but never roll back a
			// confirmed visit or one with a report in flight.
			if state == model.VisitInsideUnconfirmed && !s.claims[f.Key] {
				delete(s.visits, f.Key)
			}
			continue
		}

		anyInside = true

		if state == model.VisitInsideConfirmed {
			continue
		}
		if state == model.VisitInsideUnconfirmed && s.claims[f.Key] {
			// Report already in flight
			continue
		}

		s.visits[f.Key] = model.VisitInsideUnconfirmed
		s.claims[f.Key] = true
		pending = append(pending, model.PendingArrival{Fence: &f, Position: pos})
	}

	if anyInside {
		s.arrivalShown = true
	}

	return pending, anyInside
}

// Claimed reports whether a report is in flight for the fence
func (s *Session) Claimed(key model.GeofenceKey) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.claims[key]
}

// ReleaseClaim drops the report claim, leaving the visit state untouched.
// Called on every failed report path so the next inside-sample can retry.
func (s *Session) ReleaseClaim(key model.GeofenceKey) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.claims, key)
}

// Confirm marks the visit as acknowledged by the arrival API and releases
// the claim. Returns true only on the first confirmation for the key, which
// gates the one-shot notification.
func (s *Session) Confirm(key model.GeofenceKey) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.claims, key)

	if s.visits[key] == model.VisitInsideConfirmed {
		return false
	}
	s.visits[key] = model.VisitInsideConfirmed
	return true
}

// State returns the visit state for one fence
func (s *Session) State(key model.GeofenceKey) model.VisitState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.visits[key]
}

// SessionView is the API representation of a session
type SessionView struct {
	MemberID     string            `json:"member_id"`
	StartedAt    time.Time         `json:"started_at"`
	ArrivalShown bool              `json:"arrival_shown"`
	Visits       map[string]string `json:"visits"`
}

// View returns a copy of the session state for the API layer
func (s *Session) View() SessionView {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	visits := make(map[string]string, len(s.visits))
	for key, state := range s.visits {
		visits[key.CircleID+"/"+key.LocationID] = state.String()
	}

	return SessionView{
		MemberID:     s.MemberID,
		StartedAt:    s.StartedAt,
		ArrivalShown: s.arrivalShown,
		Visits:       visits,
	}
}
