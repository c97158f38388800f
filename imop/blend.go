// Package imop implements the blend modes and the alpha composition used to
// lay a generated layer, such as an energy heat map, over its backdrop.
package imop

import (
	"fmt"
	"math"

	"github.com/esimov/carve/utils"
)

// Blend is a separable blend mode as defined by W3C Compositing and Blending Level 1.
type Blend string

const (
	Normal   Blend = "normal"
	Darken   Blend = "darken"
	Lighten  Blend = "lighten"
	Multiply Blend = "multiply"
	Screen   Blend = "screen"
	Overlay  Blend = "overlay"
)

var blendModes = []Blend{Normal, Darken, Lighten, Multiply, Screen, Overlay}

// ParseBlend returns the blend mode named s.
func ParseBlend(s string) (Blend, error) {
	b := Blend(s)
	if !utils.Contains(blendModes, b) {
		return "", fmt.Errorf("unsupported blend mode: %q", s)
	}
	return b, nil
}

// apply blends the normalized backdrop channel cb with the source channel cs.
func (b Blend) apply(cb, cs float64) float64 {
	switch b {
	case Darken:
		return math.Min(cb, cs)
	case Lighten:
		return math.Max(cb, cs)
	case Multiply:
		return cb * cs
	case Screen:
		return cb + cs - cb*cs
	case Overlay:
		// Overlay is hard light with the layers swapped.
		if cb <= 0.5 {
			return 2 * cb * cs
		}
		return 1 - 2*(1-cb)*(1-cs)
	default:
		return cs
	}
}
