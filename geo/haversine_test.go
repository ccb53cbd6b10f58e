package geo_test

import (
	"testing"

	"github.com/indysafe/safety-bot-api/geo"
	"github.com/stretchr/testify/assert"
)

func TestDistanceZero(t *testing.T) {
	assert.Equal(t, 0.0, geo.Distance(39.768, -86.158, 39.768, -86.158))
}

func TestDistanceSymmetric(t *testing.T) {
	d1 := geo.Distance(39.768, -86.158, 39.779, -86.148)
	d2 := geo.Distance(39.779, -86.148, 39.768, -86.158)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistanceMonumentCircleToWhiteRiver(t *testing.T) {
	// Monument Circle to White River State Park is just under a mile.
	d := geo.Distance(39.7684, -86.1581, 39.7665, -86.1745)
	assert.InDelta(t, 0.9, d, 0.1)
}

func TestDistancePositive(t *testing.T) {
	d := geo.Distance(39.768, -86.158, 39.754, -86.142)
	assert.Greater(t, d, 0.0)
}
