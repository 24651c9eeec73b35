package arrival

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"locshare/internal/config"
	"locshare/internal/model"
)

// ReportOutcome classifies the result of one arrival report call
type ReportOutcome int

const (
	// ReportConfirmed - the arrival API acknowledged the arrival
	ReportConfirmed ReportOutcome = iota
	// ReportAuthExpired - the bearer token was rejected; the session owner
	// must re-authenticate before any further report can succeed
	ReportAuthExpired
	// ReportFailed - transport error or non-2xx response; safe to retry on
	// the next qualifying sample
	ReportFailed
)

// Reporter issues the arrival report call to the arrival API
type Reporter struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewReporter(baseURL, token string) *Reporter {
	return &Reporter{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: config.ReportTimeout},
	}
}

type reportBody struct {
	LocationID string  `json:"locationId"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// Report performs one POST to the mark-location-reached endpoint.
// One attempt, no internal retry; retry pressure comes from the position
// stream itself.
func (r *Reporter) Report(ctx context.Context, key model.GeofenceKey, pos model.Position) (ReportOutcome, error) {
	body, err := json.Marshal(reportBody{
		LocationID: key.LocationID,
		Latitude:   pos.Latitude,
		Longitude:  pos.Longitude,
	})
	if err != nil {
		return ReportFailed, fmt.Errorf("marshal report body: %w", err)
	}

	url := fmt.Sprintf("%s/circles/%s/mark-location-reached", r.baseURL, key.CircleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ReportFailed, fmt.Errorf("build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return ReportFailed, fmt.Errorf("arrival report call: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return ReportConfirmed, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ReportAuthExpired, nil
	default:
		return ReportFailed, fmt.Errorf("arrival API returned status %d", resp.StatusCode)
	}
}
