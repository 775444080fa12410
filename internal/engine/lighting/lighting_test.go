package lighting

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/biocartoon/pkg/math"
)

func TestFromAngles(t *testing.T) {
	tests := []struct {
		name      string
		az, el    float32
		direction math.Vec3
	}{
		{"ahead", 0, 0, math.V3(0, 0, 1)},
		{"right", 90, 0, math.V3(1, 0, 0)},
		{"above", 0, 90, math.V3(0, 1, 0)},
		{"behind", 180, 0, math.V3(0, 0, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := FromAngles(tt.az, tt.el, 0.2)
			assert.InDelta(t, tt.direction.X, l.Direction.X, 1e-6)
			assert.InDelta(t, tt.direction.Y, l.Direction.Y, 1e-6)
			assert.InDelta(t, tt.direction.Z, l.Direction.Z, 1e-6)
			assert.InDelta(t, 1, l.Direction.Length(), 1e-6)
		})
	}
}

func TestAmbientClamped(t *testing.T) {
	assert.Equal(t, float32(1), FromAngles(0, 0, 3).Ambient)
	assert.Equal(t, float32(0), FromAngles(0, 0, -1).Ambient)
}

func TestIntensity(t *testing.T) {
	l := FromAngles(0, 0, 0.3)
	assert.InDelta(t, 1, l.Intensity(math.V3(0, 0, 5)), 1e-6)
	assert.InDelta(t, 1, l.Intensity(math.V3(0, 0, -1)), 1e-6, "back faces are lit")
	assert.InDelta(t, 0.3, l.Intensity(math.V3(1, 0, 0)), 1e-6)

	d := Default()
	assert.InDelta(t, 1, d.Direction.Length(), 1e-6)
	half := math32.Sqrt(0.5)
	got := FromAngles(45, 0, 0).Intensity(math.V3(0, 0, 1))
	assert.InDelta(t, half, got, 1e-6)
}
