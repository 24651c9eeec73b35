package fence

import (
	"fmt"
	"log"
	"sync"
	"time"

	"locshare/internal/model"
	pg "locshare/internal/postgres"

	"github.com/dhconnelly/rtreego"
	"gorm.io/gorm"
)

// snapshot is one immutable generation of the active fence set.
// Refreshing builds a whole new snapshot; an evaluation in progress always
// sees a consistent set.
type snapshot struct {
	fences []model.Geofence
	index  *rtreego.Rtree
}

// FenceService owns the active geofence set derived from circle data
type FenceService struct {
	mutex       sync.RWMutex
	current     *snapshot
	initialized bool
	initMutex   sync.Mutex
}

var (
	fenceServiceInstance *FenceService
	fenceServiceOnce     sync.Once
)

// GetFenceService returns the singleton instance of the FenceService
func GetFenceService() *FenceService {
	fenceServiceOnce.Do(func() {
		fenceServiceInstance = &FenceService{
			current: emptySnapshot(),
		}
	})
	return fenceServiceInstance
}

func emptySnapshot() *snapshot {
	return &snapshot{
		fences: nil,
		index:  rtreego.NewTree(2, 25, 50),
	}
}

// InitService loads the initial fence set from PostgreSQL
func (s *FenceService) InitService() error {
	s.initMutex.Lock()
	defer s.initMutex.Unlock()

	if s.initialized {
		log.Println("FenceService already initialized, skipping")
		return nil
	}

	startTime := time.Now()
	if err := s.Refresh(); err != nil {
		return fmt.Errorf("failed to load initial fence set: %w", err)
	}

	log.Printf("FenceService initialized: %d fences in %v", s.Count(), time.Since(startTime))
	s.initialized = true
	return nil
}

// Refresh rebuilds the fence set from the circle list in PostgreSQL and
// atomically swaps it in
func (s *FenceService) Refresh() error {
	circles, err := loadAllCirclesFromPG()
	if err != nil {
		return fmt.Errorf("failed to load circles from PostgreSQL: %w", err)
	}

	fences := BuildGeofences(circles)

	next := &snapshot{
		fences: fences,
		index:  rtreego.NewTree(2, 25, 50),
	}
	for i := range fences {
		next.index.Insert(&model.GeofenceSpatial{Fence: &fences[i]})
	}

	s.mutex.Lock()
	s.current = next
	s.mutex.Unlock()

	log.Printf("Fence set refreshed: %d circles -> %d fences", len(circles), len(fences))
	return nil
}

// loadAllCirclesFromPG loads all circles with their locations
func loadAllCirclesFromPG() ([]*model.Circle, error) {
	db := pg.GetDB()
	var pgCircles []*pg.CirclePG

	result := db.Preload("Locations", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("locations.created_at ASC")
	}).Find(&pgCircles)
	if result.Error != nil {
		return nil, result.Error
	}

	circles := make([]*model.Circle, len(pgCircles))
	for i, pgCircle := range pgCircles {
		circles[i] = pg.FromPG(pgCircle)
	}

	return circles, nil
}

// BuildGeofences derives the active fence set from circle data.
// Policy: one fence per circle, centered on the first location with a valid
// coordinate; locations with invalid coordinates are skipped. Radius falls
// back from location override to circle override to the default.
func BuildGeofences(circles []*model.Circle) []model.Geofence {
	fences := make([]model.Geofence, 0, len(circles))

	for _, circle := range circles {
		if circle == nil {
			continue
		}

		for _, loc := range circle.Locations {
			if !model.ValidCoordinate(loc.Latitude, loc.Longitude) {
				continue
			}

			radius := model.DefaultFenceRadiusMeters
			if circle.RadiusMeters != nil {
				radius = *circle.RadiusMeters
			}
			if loc.RadiusMeters != nil {
				radius = *loc.RadiusMeters
			}

			fences = append(fences, model.Geofence{
				Key: model.GeofenceKey{
					CircleID:   circle.ID,
					LocationID: loc.ID,
				},
				CircleName:   circle.Name,
				LocationName: loc.Name,
				CenterLat:    loc.Latitude,
				CenterLng:    loc.Longitude,
				RadiusMeters: radius,
			})

			// One representative location per circle
			break
		}
	}

	return fences
}

// ActiveFences returns the current fence snapshot
func (s *FenceService) ActiveFences() []model.Geofence {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.current.fences
}

// FencesNear returns fences whose bounding box contains the given coordinate
func (s *FenceService) FencesNear(lat, lng float64) []model.Geofence {
	s.mutex.RLock()
	snap := s.current
	s.mutex.RUnlock()

	point := rtreego.Point{lng, lat}
	hits := snap.index.SearchIntersect(point.ToRect(1e-9))

	fences := make([]model.Geofence, 0, len(hits))
	for _, hit := range hits {
		if spatial, ok := hit.(*model.GeofenceSpatial); ok {
			fences = append(fences, *spatial.Fence)
		}
	}
	return fences
}

// Count returns the number of active fences
func (s *FenceService) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.current.fences)
}
