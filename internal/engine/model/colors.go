package model

import (
	gomath "math"
	"math/rand/v2"
)

// RNG is a source of uniform values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type RNG interface {
	Float64() float64
}

// SineRNG is a deterministic generator: x = sin(seed) * 10000, seed++,
// result = fract(x). The same seed always yields the same colours.
type SineRNG struct {
	seed float64
}

// NewSineRNG creates a deterministic generator starting at seed.
func NewSineRNG(seed float64) *SineRNG {
	return &SineRNG{seed: seed}
}

// Float64 returns the next value in [0, 1).
func (r *SineRNG) Float64() float64 {
	x := gomath.Sin(r.seed) * 10000
	r.seed++
	return x - gomath.Floor(x)
}

// NewDefaultRNG returns a non-deterministic generator.
func NewDefaultRNG() RNG {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// RGB is a colour with byte channels.
type RGB [3]uint8

// RandomColor draws one colour, each channel floor(rng*256).
func RandomColor(rng RNG) RGB {
	return RGB{channel(rng), channel(rng), channel(rng)}
}

func channel(rng RNG) uint8 {
	v := int(gomath.Floor(rng.Float64() * 256))
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// AssignColors returns one RGB triple per face corner (9 bytes per face),
// constant across each face.
//
// Without groups, one colour is drawn per consecutive pair of faces so
// that triangle pairs forming a quad share a colour. With groups, one
// colour is drawn per group in declaration order. Faces not covered by
// the group counts share one extra colour; counts beyond faceCount are
// ignored. The result always has 9*faceCount bytes.
func AssignColors(faceCount int, groups []int, rng RNG) []uint8 {
	if faceCount <= 0 {
		return nil
	}
	data := make([]uint8, 0, faceCount*CornersPerFace*ComponentsPerCorner)

	if len(groups) == 0 {
		for i := 0; i < faceCount; i += 2 {
			c := RandomColor(rng)
			data = appendFace(data, c)
			if i+1 < faceCount {
				data = appendFace(data, c)
			}
		}
		return data
	}

	faces := 0
	for _, n := range groups {
		if faces >= faceCount {
			break
		}
		c := RandomColor(rng)
		for i := 0; i < n && faces < faceCount; i++ {
			data = appendFace(data, c)
			faces++
		}
	}

	if faces < faceCount {
		c := RandomColor(rng)
		for ; faces < faceCount; faces++ {
			data = appendFace(data, c)
		}
	}

	return data
}

func appendFace(data []uint8, c RGB) []uint8 {
	for i := 0; i < CornersPerFace; i++ {
		data = append(data, c[0], c[1], c[2])
	}
	return data
}

// FaceGroup returns the declared group a face belongs to, or -1 when the
// file has no groups or the face follows every declared group.
func FaceGroup(groups []int, face int) int {
	end := 0
	for i, n := range groups {
		end += n
		if face < end {
			return i
		}
	}
	return -1
}
