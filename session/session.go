// Package session keeps the per-user artifacts of the pipeline in memory.
package session

import (
	"sync"
	"time"

	"bakery/models"
	"bakery/pipeline"
)

// Session holds one user's dataset and the results derived from it. Results
// are invalidated whenever the input they were derived from changes.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	mu              sync.RWMutex
	lastSeen        time.Time
	dataset         *pipeline.Dataset
	forecast        *models.ForecastRun
	recommendations *models.RecommendationBundle
}

// SetDataset installs a new dataset and drops the forecast and recommendations.
// When ds has the same fingerprint as the current dataset the results are kept
// and SetDataset reports true.
func (s *Session) SetDataset(ds *pipeline.Dataset) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataset != nil && ds.Fingerprint != "" && s.dataset.Fingerprint == ds.Fingerprint {
		return true
	}
	s.dataset = ds
	s.forecast = nil
	s.recommendations = nil
	return false
}

// Dataset returns the current dataset, or nil before the first upload.
func (s *Session) Dataset() *pipeline.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// SetForecast stores a run fitted on ds and drops the recommendations built on
// the previous one. The run is discarded, and SetForecast reports false, when
// the session's dataset was replaced while the run was being fitted.
func (s *Session) SetForecast(ds *pipeline.Dataset, run *models.ForecastRun) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataset != ds {
		return false
	}
	s.forecast = run
	s.recommendations = nil
	return true
}

func (s *Session) Forecast() *models.ForecastRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forecast
}

// SetRecommendations stores a bundle derived from run. Like SetForecast it
// reports false and keeps nothing when run is no longer the current forecast.
func (s *Session) SetRecommendations(run *models.ForecastRun, bundle *models.RecommendationBundle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forecast != run {
		return false
	}
	s.recommendations = bundle
	return true
}

func (s *Session) Recommendations() *models.RecommendationBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recommendations
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}
