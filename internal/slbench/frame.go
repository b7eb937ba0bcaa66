package slbench

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Frame is a grayscale raster image, row-major, one byte per pixel. It is
// the unit of exchange between pattern generation, projection/capture and
// capture processing.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame allocates a zeroed (all black) frame.
func NewFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// At returns the pixel value at (x, y). Out-of-range reads return 0.
func (f *Frame) At(x, y int) uint8 {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return 0
	}
	return f.Pix[y*f.Width+x]
}

// Set writes the pixel value at (x, y). Out-of-range writes are dropped.
func (f *Frame) Set(x, y int, v uint8) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	f.Pix[y*f.Width+x] = v
}

// Fill sets every pixel to v.
func (f *Frame) Fill(v uint8) {
	for i := range f.Pix {
		f.Pix[i] = v
	}
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := NewFrame(f.Width, f.Height)
	copy(out.Pix, f.Pix)
	return out
}

// WritePGM saves the frame as a binary PGM (P5) file.
func (f *Frame) WritePGM(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "P5\n%d %d\n255\n", f.Width, f.Height)
	if _, err := w.Write(f.Pix); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return w.Flush()
}

// ReadPGM loads a binary PGM (P5) file.
func ReadPGM(path string) (*Frame, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()

	r := bufio.NewReader(in)
	var magic string
	var width, height, maxVal int
	if _, err := fmt.Fscan(r, &magic, &width, &height, &maxVal); err != nil {
		return nil, fmt.Errorf("parse PGM header %s: %w", path, err)
	}
	if magic != "P5" {
		return nil, fmt.Errorf("%s: unsupported PGM magic %q", path, magic)
	}
	if width <= 0 || height <= 0 || maxVal != 255 {
		return nil, fmt.Errorf("%s: unsupported PGM geometry %dx%d max %d", path, width, height, maxVal)
	}
	// single whitespace byte separates the header from pixel data
	if _, err := r.ReadByte(); err != nil {
		return nil, fmt.Errorf("read PGM header %s: %w", path, err)
	}

	frame := NewFrame(width, height)
	if _, err := io.ReadFull(r, frame.Pix); err != nil {
		return nil, fmt.Errorf("read PGM pixels %s: %w", path, err)
	}
	return frame, nil
}
