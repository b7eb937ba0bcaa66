package slbench

import (
	"errors"
	"testing"
)

func TestNewDepthGridRejectsBadDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 10}, {10, -1}} {
		if _, err := NewDepthGrid(dims[0], dims[1]); err == nil {
			t.Errorf("NewDepthGrid(%d, %d) accepted, want error", dims[0], dims[1])
		}
	}
}

func TestDepthGridStoreAndRead(t *testing.T) {
	g, err := NewDepthGrid(4, 3)
	if err != nil {
		t.Fatal(err)
	}

	if g.IsValued(1, 2) {
		t.Fatal("fresh grid reports a valued cell")
	}
	if _, err := g.Depth(1, 2); !errors.Is(err, ErrCellNotValued) {
		t.Fatalf("Depth on unvalued cell = %v, want ErrCellNotValued", err)
	}

	if err := g.StoreResult(1, 2, 1.5); err != nil {
		t.Fatal(err)
	}
	if !g.IsValued(1, 2) {
		t.Fatal("stored cell not valued")
	}
	d, err := g.Depth(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if d != 1.5 {
		t.Fatalf("Depth = %v, want 1.5", d)
	}
}

func TestDepthGridOverwriteLastWriteWins(t *testing.T) {
	g, err := NewDepthGrid(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.StoreResult(0, 0, 1.0); err != nil {
		t.Fatal(err)
	}
	if err := g.StoreResult(0, 0, 2.0); err != nil {
		t.Fatal(err)
	}
	d, err := g.Depth(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if d != 2.0 {
		t.Fatalf("Depth = %v, want 2.0 after overwrite", d)
	}
	if n := g.ValuedCount(); n != 1 {
		t.Fatalf("ValuedCount = %d, want 1", n)
	}
}

func TestDepthGridOutOfRange(t *testing.T) {
	g, err := NewDepthGrid(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.StoreResult(2, 0, 1.0); err == nil {
		t.Fatal("StoreResult out of range accepted")
	}
	if err := g.StoreResult(0, -1, 1.0); err == nil {
		t.Fatal("StoreResult negative row accepted")
	}
	if g.IsValued(5, 5) {
		t.Fatal("IsValued out of range reports true")
	}
	if _, err := g.Depth(2, 0); err == nil {
		t.Fatal("Depth out of range accepted")
	}
}

func TestDepthGridValuedCount(t *testing.T) {
	g, err := NewDepthGrid(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := g.StoreResult(i, i, float64(i)); err != nil {
			t.Fatal(err)
		}
	}
	if n := g.ValuedCount(); n != 3 {
		t.Fatalf("ValuedCount = %d, want 3", n)
	}
}
