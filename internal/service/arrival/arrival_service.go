package arrival

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"locshare/internal/model"
	redis_client "locshare/internal/redis"
	"locshare/internal/service/storage"
)

// FenceProvider supplies the current geofence snapshot
type FenceProvider interface {
	ActiveFences() []model.Geofence
}

// Notifier fans out the one-shot arrival and auth events
type Notifier interface {
	NotifyArrival(ctx context.Context, arrival model.Arrival) error
	NotifyAuthExpired(ctx context.Context, memberID string) error
}

const positionRedisKey = "position"

// ArrivalService is the entry point for the position stream. It owns the
// live sessions and last-known positions, evaluates every sample against the
// active fence set and drives claimed arrival reports.
type ArrivalService struct {
	sessions  storage.Storage[string, *Session]
	positions storage.Storage[string, model.Position]

	fences   FenceProvider
	reporter *Reporter
	notifier Notifier

	sessionMutex sync.Mutex
}

var (
	arrivalServiceInstance *ArrivalService
	arrivalServiceOnce     sync.Once
)

// GetArrivalService returns the singleton instance of the ArrivalService
func GetArrivalService() *ArrivalService {
	arrivalServiceOnce.Do(func() {
		arrivalServiceInstance = newArrivalService()
	})
	return arrivalServiceInstance
}

func newArrivalService() *ArrivalService {
	return &ArrivalService{
		sessions:  storage.NewMemoryStorage[string, *Session](),
		positions: storage.NewMemoryStorage[string, model.Position](),
	}
}

// Setup wires the collaborators. Must be called once before the first sample.
func (s *ArrivalService) Setup(fences FenceProvider, reporter *Reporter, notifier Notifier) {
	s.fences = fences
	s.reporter = reporter
	s.notifier = notifier
}

// HandlePosition ingests one position sample. Invalid samples are dropped
// with a log line; nothing on this path may take down the position stream,
// and reports run concurrently with continued ingestion.
func (s *ArrivalService) HandlePosition(ctx context.Context, pos model.Position) {
	if pos.MemberID == "" || !pos.Valid() {
		log.Printf("Dropping invalid position sample (member=%q lat=%f lng=%f)",
			pos.MemberID, pos.Latitude, pos.Longitude)
		return
	}

	// Last-known position is display state only; arrival decisions always
	// use the sample itself.
	s.positions.Set(pos.MemberID, pos)

	session := s.sessionFor(pos.MemberID)
	fences := s.fences.ActiveFences()

	pending, _ := session.Evaluate(pos, fences)
	for _, p := range pending {
		go s.report(session, p)
	}
}

// sessionFor returns the member's session, creating it on first contact
func (s *ArrivalService) sessionFor(memberID string) *Session {
	if session, exists := s.sessions.Get(memberID); exists {
		return session
	}

	s.sessionMutex.Lock()
	defer s.sessionMutex.Unlock()

	if session, exists := s.sessions.Get(memberID); exists {
		return session
	}
	session := NewSession(memberID)
	s.sessions.Set(memberID, session)
	log.Printf("Started arrival session for member %s", memberID)
	return session
}

// report runs one claimed arrival report to completion. The claim taken in
// Evaluate is released on every path.
func (s *ArrivalService) report(session *Session, p model.PendingArrival) {
	key := p.Fence.Key

	// The claim was taken when the arrival was emitted; if it is gone the
	// scheduling raced and someone else owns this report.
	if !session.Claimed(key) {
		return
	}

	ctx := context.Background()
	outcome, err := s.reporter.Report(ctx, key, p.Position)

	switch outcome {
	case ReportConfirmed:
		if session.Confirm(key) {
			s.notifyArrival(ctx, session.MemberID, p)
		}
	case ReportAuthExpired:
		session.ReleaseClaim(key)
		log.Printf("Arrival report unauthorized for member %s, signaling re-login", session.MemberID)
		if err := s.notifier.NotifyAuthExpired(ctx, session.MemberID); err != nil {
			log.Printf("Failed to publish auth-expired event: %v", err)
		}
	default:
		session.ReleaseClaim(key)
		log.Printf("Arrival report failed for %s/%s: %v", key.CircleID, key.LocationID, err)
	}
}

func (s *ArrivalService) notifyArrival(ctx context.Context, memberID string, p model.PendingArrival) {
	arrival := model.Arrival{
		Title:      "Arrived",
		Message:    fmt.Sprintf("%s: %s", p.Fence.CircleName, p.Fence.LocationName),
		MemberID:   memberID,
		CircleID:   p.Fence.Key.CircleID,
		LocationID: p.Fence.Key.LocationID,
		Timestamp:  p.Position.Timestamp,
	}

	if err := s.notifier.NotifyArrival(ctx, arrival); err != nil {
		log.Printf("Failed to publish arrival notification: %v", err)
	}
}

// LastPosition returns the member's last valid sample
func (s *ArrivalService) LastPosition(memberID string) (model.Position, bool) {
	return s.positions.Get(memberID)
}

// SessionViewFor returns the session state for the API layer
func (s *ArrivalService) SessionViewFor(memberID string) (SessionView, bool) {
	session, exists := s.sessions.Get(memberID)
	if !exists {
		return SessionView{}, false
	}
	return session.View(), true
}

// EndSession discards the member's session, resetting all visit state.
// The next sample starts a fresh session that may report arrivals again.
func (s *ArrivalService) EndSession(memberID string) bool {
	return s.sessions.Delete(memberID)
}

// PersistPositions flushes dirty last-known positions to Redis in one batch
func (s *ArrivalService) PersistPositions() error {
	dirty := s.positions.GetDirty()
	if len(dirty) == 0 {
		return nil
	}

	pairs := make(map[string]interface{}, len(dirty))
	keys := make([]string, 0, len(dirty))
	for memberID, pos := range dirty {
		data, err := json.Marshal(pos)
		if err != nil {
			log.Printf("Failed to marshal position for member %s: %v", memberID, err)
			continue
		}
		pairs[fmt.Sprintf("%s:%s", positionRedisKey, memberID)] = data
		keys = append(keys, memberID)
	}

	if len(pairs) == 0 {
		return nil
	}
	if err := redis_client.MSet(pairs); err != nil {
		return fmt.Errorf("failed to persist positions to Redis: %w", err)
	}

	s.positions.ClearDirty(keys)
	return nil
}
