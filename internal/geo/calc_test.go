package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDegreesToMeters(t *testing.T) {
	// One degree of a great circle on the mean earth radius.
	assert.InDelta(t, 111194.9, DegreesToMeters(1), 1)
	assert.Equal(t, 0.0, DegreesToMeters(0))
	// A full circle is the circumference.
	assert.InDelta(t, 2*3.141592653589793*EarthRadiusMeters, DegreesToMeters(360), 0.01)
}

func TestWKTPoint(t *testing.T) {
	assert.Equal(t, "SRID=4035;POINT(10.684 41.269)", WKTPoint(10.684, 41.269, SRID))
	assert.Equal(t, "SRID=4326;POINT(-90 0)", WKTPoint(-90, 0, 4326))
}

func TestNormalizeRA(t *testing.T) {
	assert.Equal(t, 270.0, NormalizeRA(-90))
	assert.Equal(t, 0.0, NormalizeRA(0))
	assert.Equal(t, 359.5, NormalizeRA(359.5))
}
