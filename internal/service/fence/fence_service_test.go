package fence

import (
	"math"
	"testing"

	"locshare/internal/model"

	"github.com/dhconnelly/rtreego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildGeofences_FirstValidLocationPerCircle(t *testing.T) {
	circles := []*model.Circle{
		{
			ID:   "c1",
			Name: "Family",
			Locations: []model.Location{
				{ID: "l1", CircleID: "c1", Name: "Home", Latitude: 6.9271, Longitude: 79.8612},
				{ID: "l2", CircleID: "c1", Name: "School", Latitude: 6.9000, Longitude: 79.9000},
			},
		},
	}

	fences := BuildGeofences(circles)

	require.Len(t, fences, 1)
	assert.Equal(t, model.GeofenceKey{CircleID: "c1", LocationID: "l1"}, fences[0].Key)
	assert.Equal(t, "Home", fences[0].LocationName)
	assert.Equal(t, model.DefaultFenceRadiusMeters, fences[0].RadiusMeters)
}

func TestBuildGeofences_SkipsInvalidCoordinates(t *testing.T) {
	circles := []*model.Circle{
		{
			ID:   "c1",
			Name: "Family",
			Locations: []model.Location{
				{ID: "bad1", CircleID: "c1", Name: "Broken", Latitude: 1000, Longitude: 79.8612},
				{ID: "bad2", CircleID: "c1", Name: "NaN", Latitude: math.NaN(), Longitude: 79.8612},
				{ID: "ok", CircleID: "c1", Name: "Home", Latitude: 6.9271, Longitude: 79.8612},
			},
		},
		{
			ID:   "c2",
			Name: "Empty",
			Locations: []model.Location{
				{ID: "bad3", CircleID: "c2", Name: "Inf", Latitude: 6.9, Longitude: math.Inf(1)},
			},
		},
	}

	fences := BuildGeofences(circles)

	require.Len(t, fences, 1)
	assert.Equal(t, "ok", fences[0].Key.LocationID)
}

func TestBuildGeofences_RadiusFallback(t *testing.T) {
	circles := []*model.Circle{
		{
			ID:           "c1",
			RadiusMeters: floatPtr(250),
			Locations: []model.Location{
				{ID: "l1", CircleID: "c1", Latitude: 1, Longitude: 1, RadiusMeters: floatPtr(75)},
			},
		},
		{
			ID:           "c2",
			RadiusMeters: floatPtr(250),
			Locations: []model.Location{
				{ID: "l2", CircleID: "c2", Latitude: 2, Longitude: 2},
			},
		},
		{
			ID: "c3",
			Locations: []model.Location{
				{ID: "l3", CircleID: "c3", Latitude: 3, Longitude: 3},
			},
		},
	}

	fences := BuildGeofences(circles)

	require.Len(t, fences, 3)
	assert.Equal(t, 75.0, fences[0].RadiusMeters)
	assert.Equal(t, 250.0, fences[1].RadiusMeters)
	assert.Equal(t, 100.0, fences[2].RadiusMeters)
}

func TestBuildGeofences_Empty(t *testing.T) {
	assert.Empty(t, BuildGeofences(nil))
	assert.Empty(t, BuildGeofences([]*model.Circle{{ID: "c1", Name: "no locations"}}))
}

func newTestService(fences []model.Geofence) *FenceService {
	snap := &snapshot{
		fences: fences,
		index:  rtreego.NewTree(2, 25, 50),
	}
	for i := range fences {
		snap.index.Insert(&model.GeofenceSpatial{Fence: &fences[i]})
	}
	return &FenceService{current: snap}
}

func TestFencesNear(t *testing.T) {
	svc := newTestService([]model.Geofence{
		{
			Key:          model.GeofenceKey{CircleID: "c1", LocationID: "l1"},
			CenterLat:    6.9271,
			CenterLng:    79.8612,
			RadiusMeters: 100,
		},
		{
			Key:          model.GeofenceKey{CircleID: "c2", LocationID: "l2"},
			CenterLat:    -6.2088,
			CenterLng:    106.8456,
			RadiusMeters: 100,
		},
	})

	near := svc.FencesNear(6.9271, 79.8612)
	require.Len(t, near, 1)
	assert.Equal(t, "c1", near[0].Key.CircleID)

	far := svc.FencesNear(40.0, -70.0)
	assert.Empty(t, far)
}

func TestExportGeoJSON(t *testing.T) {
	svc := newTestService([]model.Geofence{
		{
			Key:          model.GeofenceKey{CircleID: "c1", LocationID: "l1"},
			CircleName:   "Family",
			LocationName: "Home",
			CenterLat:    6.9271,
			CenterLng:    79.8612,
			RadiusMeters: 100,
		},
	})

	data, err := svc.ExportGeoJSON()
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, `"FeatureCollection"`)
	assert.Contains(t, body, `"circle_name":"Family"`)
	assert.Contains(t, body, `"location_id":"l1"`)
}
