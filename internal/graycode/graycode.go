// Package graycode implements a Gray-code structured-light algorithm: an
// all-white and an all-black reference frame followed by one bit-plane
// pattern per code bit, decoded per camera pixel against the midpoint of the
// two reference frames.
package graycode

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/banshee-data/slbench/internal/slbench"
)

// reference frames projected before the bit planes
const referenceFrames = 2

// minContrast is the minimum white-black spread a camera pixel must show to
// take part in decoding. Pixels outside the projector frustum see the same
// darkness in both reference frames and would decode to garbage.
const minContrast = 10

// Implementation decodes pattern columns from Gray-code bit planes.
type Implementation struct {
	patternWidth int
	bitCount     int

	sums   []float64
	counts []int
	height int
}

// New creates a Gray-code implementation distinguishing patternWidth
// columns, which must be a power of two so every code is exactly bitCount
// bits.
func New(patternWidth int) (*Implementation, error) {
	if patternWidth < 2 || bits.OnesCount(uint(patternWidth)) != 1 {
		return nil, fmt.Errorf("graycode: pattern width %d must be a power of two >= 2", patternWidth)
	}
	return &Implementation{
		patternWidth: patternWidth,
		bitCount:     bits.Len(uint(patternWidth)) - 1,
	}, nil
}

func (g *Implementation) Identifier() string {
	return fmt.Sprintf("GrayCode%d", g.patternWidth)
}

func (g *Implementation) PatternWidth() int { return g.patternWidth }

func (g *Implementation) HasMoreIterations(rc *slbench.RunContext) bool {
	return rc.Iteration() < referenceFrames+g.bitCount
}

// binaryToGray converts a column index into its Gray code.
func binaryToGray(n uint) uint { return n ^ (n >> 1) }

// grayToBinary inverts binaryToGray.
func grayToBinary(g uint) uint {
	n := g
	for shift := 1; (g >> shift) > 0; shift++ {
		n ^= g >> shift
	}
	return n
}

// GeneratePattern emits the all-white frame, the all-black frame, then one
// Gray-code bit plane per iteration, most significant bit first. Pattern
// columns are stretched evenly across the projector width.
func (g *Implementation) GeneratePattern(rc *slbench.RunContext) (*slbench.Frame, error) {
	proj := rc.Setup().Projector.Resolution
	pattern := slbench.NewFrame(proj.Width, proj.Height)

	switch it := rc.Iteration(); {
	case it == 0:
		pattern.Fill(255)
	case it == 1:
		// all black, already zeroed
	default:
		bit := g.bitCount - 1 - (it - referenceFrames)
		for px := 0; px < proj.Width; px++ {
			column := px * g.patternWidth / proj.Width
			if binaryToGray(uint(column))>>bit&1 == 1 {
				for py := 0; py < proj.Height; py++ {
					pattern.Set(px, py, 255)
				}
			}
		}
	}
	return pattern, nil
}

func (g *Implementation) ProcessCapture(rc *slbench.RunContext, capture *slbench.Frame) error {
	rc.StoreCapture(capture)
	return nil
}

// PostIterationsProcess decodes every camera pixel's Gray code against the
// white/black reference midpoint and accumulates the observed camera columns
// per (pattern column, camera row).
func (g *Implementation) PostIterationsProcess(rc *slbench.RunContext) error {
	want := referenceFrames + g.bitCount
	if rc.CaptureCount() != want {
		return fmt.Errorf("graycode: decoded %d captures, want %d", rc.CaptureCount(), want)
	}

	white := rc.CaptureAt(0)
	black := rc.CaptureAt(1)
	cam := rc.Setup().Camera.Resolution

	g.height = cam.Height
	g.sums = make([]float64, g.patternWidth*cam.Height)
	g.counts = make([]int, g.patternWidth*cam.Height)

	for cy := 0; cy < cam.Height; cy++ {
		for cx := 0; cx < cam.Width; cx++ {
			w := int(white.At(cx, cy))
			b := int(black.At(cx, cy))
			if w-b < minContrast {
				continue
			}
			mid := uint8((w + b) / 2)

			var code uint
			for bit := 0; bit < g.bitCount; bit++ {
				code <<= 1
				if rc.CaptureAt(referenceFrames+bit).At(cx, cy) > mid {
					code |= 1
				}
			}

			column := int(grayToBinary(code))
			if column >= g.patternWidth {
				continue
			}
			i := cy*g.patternWidth + column
			g.sums[i] += float64(cx) + 0.5
			g.counts[i]++
		}
	}
	return nil
}

// SolveCorrespondence returns the mean camera column that decoded to the
// pattern column on the given row, or NaN when no pixel did.
func (g *Implementation) SolveCorrespondence(patternColumn, cameraRow int) float64 {
	if patternColumn < 0 || patternColumn >= g.patternWidth || cameraRow < 0 || cameraRow >= g.height {
		return math.NaN()
	}
	i := cameraRow*g.patternWidth + patternColumn
	if g.counts[i] == 0 {
		return math.NaN()
	}
	return g.sums[i] / float64(g.counts[i])
}

func (g *Implementation) PreExperimentRun(rc *slbench.RunContext) error { return nil }

func (g *Implementation) PostExperimentRun(rc *slbench.RunContext) error { return nil }
