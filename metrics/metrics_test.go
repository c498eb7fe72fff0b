package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder("test")

	before := testutil.ToFloat64(RowsDropped.WithLabelValues("test"))
	r.RecordUpload("ok", 10, 2, 0)
	assert.Equal(t, before+2, testutil.ToFloat64(RowsDropped.WithLabelValues("test")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(UploadsTotal.WithLabelValues("test", "ok")), 1.0)

	r.RecordForecast("seasonal", "ok", 20*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(ForecastsTotal.WithLabelValues("seasonal", "ok")), 1.0)

	highBefore := testutil.ToFloat64(HighRiskDays)
	r.RecordRecommendations(3)
	assert.Equal(t, highBefore+3, testutil.ToFloat64(HighRiskDays))
}
