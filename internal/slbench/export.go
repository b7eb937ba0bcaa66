package slbench

import (
	"bufio"
	"fmt"
	"os"
)

// WriteXYZPointCloud writes one whitespace-separated `x y z` row per valued
// depth grid cell, no header. Cells are walked over the projector width x
// camera height index space using the experiment's own geometry.
func WriteXYZPointCloud(e *Experiment, path string) error {
	if e.Depth() == nil {
		return fmt.Errorf("experiment %s produces no depth data", e.Identifier())
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create point cloud: %w", err)
	}
	defer out.Close()

	setup := e.Infrastructure().Setup()
	projectorWidth := setup.Projector.Resolution.Width
	cameraHeight := setup.Camera.Resolution.Height

	w := bufio.NewWriter(out)
	for x := 0; x < projectorWidth; x++ {
		for y := 0; y < cameraHeight; y++ {
			if !e.Depth().IsValued(x, y) {
				continue
			}
			depth, _ := e.Depth().Depth(x, y)
			px, py, pz := PointCloudXYZ(x, y, depth, projectorWidth, cameraHeight,
				float64(setup.Projector.HorizontalFOV), float64(setup.Camera.VerticalFOV))
			fmt.Fprintf(w, "%g %g %g\n", px, py, pz)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write point cloud: %w", err)
	}
	return nil
}
