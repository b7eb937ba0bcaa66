package slbench

import (
	"errors"
	"fmt"
)

// ErrCellNotValued is returned when reading a depth grid cell that has never
// been written.
var ErrCellNotValued = errors.New("depth grid cell not valued")

// DepthGrid accumulates reconstructed depth per (column, row) cell. Cells
// start unvalued; StoreResult overwrites and marks them valued, last write
// wins. Dimensions are fixed at construction and the grid never resizes.
type DepthGrid struct {
	width  int
	height int
	depth  []float64
	valued []bool
}

// NewDepthGrid allocates an all-unvalued grid.
func NewDepthGrid(width, height int) (*DepthGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("depth grid dimensions %dx%d must be positive", width, height)
	}
	return &DepthGrid{
		width:  width,
		height: height,
		depth:  make([]float64, width*height),
		valued: make([]bool, width*height),
	}, nil
}

// Width returns the number of grid columns.
func (g *DepthGrid) Width() int { return g.width }

// Height returns the number of grid rows.
func (g *DepthGrid) Height() int { return g.height }

func (g *DepthGrid) idx(column, row int) (int, error) {
	if column < 0 || column >= g.width || row < 0 || row >= g.height {
		return 0, fmt.Errorf("depth grid cell (%d,%d) out of range %dx%d", column, row, g.width, g.height)
	}
	return row*g.width + column, nil
}

// StoreResult writes a depth value and marks the cell valued.
func (g *DepthGrid) StoreResult(column, row int, depth float64) error {
	i, err := g.idx(column, row)
	if err != nil {
		return err
	}
	g.depth[i] = depth
	g.valued[i] = true
	return nil
}

// IsValued reports whether the cell has received a result. Out-of-range
// cells report false, which lets metrics iterate a shared index space over
// grids of differing widths.
func (g *DepthGrid) IsValued(column, row int) bool {
	i, err := g.idx(column, row)
	if err != nil {
		return false
	}
	return g.valued[i]
}

// Depth returns the stored depth of a valued cell.
func (g *DepthGrid) Depth(column, row int) (float64, error) {
	i, err := g.idx(column, row)
	if err != nil {
		return 0, err
	}
	if !g.valued[i] {
		return 0, fmt.Errorf("%w: (%d,%d)", ErrCellNotValued, column, row)
	}
	return g.depth[i], nil
}

// ValuedCount returns the number of valued cells.
func (g *DepthGrid) ValuedCount() int {
	n := 0
	for _, v := range g.valued {
		if v {
			n++
		}
	}
	return n
}
