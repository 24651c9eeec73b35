package model

import "time"

// VisitState represents the arrival state of one fence within a session
type VisitState int

const (
	// VisitOutside - member not within the fence radius
	VisitOutside VisitState = iota
	// VisitInsideUnconfirmed - latest sample is inside, arrival not yet
	// acknowledged by the arrival API
	VisitInsideUnconfirmed
	// VisitInsideConfirmed - arrival acknowledged at least once; terminal for
	// the session, never reported again
	VisitInsideConfirmed
)

func (s VisitState) String() string {
	switch s {
	case VisitOutside:
		return "outside"
	case VisitInsideUnconfirmed:
		return "inside_unconfirmed"
	case VisitInsideConfirmed:
		return "inside_confirmed"
	}
	return "unknown"
}

// PendingArrival is one fence a sample just entered, claimed for reporting
type PendingArrival struct {
	Fence    *Geofence
	Position Position
}

// Arrival is the one-shot notification payload emitted on confirmation
type Arrival struct {
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	MemberID   string    `json:"member_id"`
	CircleID   string    `json:"circle_id"`
	LocationID string    `json:"location_id"`
	Timestamp  time.Time `json:"timestamp"`
}
