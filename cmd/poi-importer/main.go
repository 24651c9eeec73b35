package main

import (
	"io"
	"log"
	"os"
	"runtime"

	"locshare/internal/config"
	"locshare/internal/model"
	"locshare/internal/postgres"

	"github.com/google/uuid"
	"github.com/qedus/osmpbf"
)

// Point-of-interest tags worth suggesting as circle locations
var poiTags = []string{"amenity", "leisure", "tourism"}

const insertBatchSize = 500

// poi-importer seeds suggested locations for a circle from an OSM extract.
// Usage: poi-importer <path-to-osm.pbf> <circle-id>
func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: poi-importer <path-to-osm.pbf> <circle-id>")
	}

	osmFile := os.Args[1]
	circleID := os.Args[2]
	log.Printf("Processing file: %s for circle %s", osmFile, circleID)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db := postgres.Init(cfg.DBUrl)

	f, err := os.Open(osmFile)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer f.Close()

	decoder := osmpbf.NewDecoder(f)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)

	// Use all available CPUs for parallel decoding
	numProcs := runtime.GOMAXPROCS(-1)
	if err := decoder.Start(numProcs); err != nil {
		log.Fatalf("Failed to start decoder: %v", err)
	}
	log.Printf("Decoder started with %d processors", numProcs)

	nodeCount := 0
	poiCount := 0
	batch := make([]postgres.LocationPG, 0, insertBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := db.CreateInBatches(batch, insertBatchSize).Error; err != nil {
			log.Fatalf("Failed to insert locations: %v", err)
		}
		batch = batch[:0]
	}

	for {
		object, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Error decoding: %v", err)
		}

		node, ok := object.(*osmpbf.Node)
		if !ok {
			continue
		}
		nodeCount++

		name := node.Tags["name"]
		if name == "" || !isPOI(node.Tags) {
			continue
		}
		if !model.ValidCoordinate(node.Lat, node.Lon) {
			continue
		}

		batch = append(batch, postgres.LocationPG{
			ID:        uuid.NewString(),
			CircleID:  circleID,
			Name:      name,
			Latitude:  node.Lat,
			Longitude: node.Lon,
		})
		poiCount++

		if len(batch) >= insertBatchSize {
			flush()
		}
	}
	flush()

	log.Printf("Done: %d nodes scanned, %d POIs imported", nodeCount, poiCount)
}

func isPOI(tags map[string]string) bool {
	for _, tag := range poiTags {
		if _, ok := tags[tag]; ok {
			return true
		}
	}
	return false
}
