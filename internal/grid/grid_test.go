package grid

import "testing"

func TestPackedPowerUpStaysHidden(t *testing.T) {
	for _, p := range PowerUps {
		tile := PackSoftBlock(p)
		if tile.Base() != SoftBlock {
			t.Fatalf("%v: packed base should be soft block, got %v", p, tile.Base())
		}
		if tile.Walkable() {
			t.Fatalf("%v: packed block must not be walkable", p)
		}
		if !tile.Solid() {
			t.Fatalf("%v: packed block must be solid", p)
		}
		if got := tile.Hidden(); got != p {
			t.Fatalf("expected hidden %v, got %v", p, got)
		}
		if got := tile.Reveal(); got != p {
			t.Fatalf("expected reveal %v, got %v", p, got)
		}
	}
	if got := PackSoftBlock(HardWall); got != SoftBlock {
		t.Fatalf("non power-up should pack to a plain soft block, got %v", got)
	}
	if got := SoftBlock.Reveal(); got != Empty {
		t.Fatalf("plain soft block should reveal empty, got %v", got)
	}
	if got := HardWall.Reveal(); got != HardWall {
		t.Fatalf("hard wall is not destructible, got %v", got)
	}
}

func TestGridGeometry(t *testing.T) {
	g := New(0, 0)
	if g.Width != DefaultWidth || g.Height != DefaultHeight {
		t.Fatalf("expected default size, got %dx%d", g.Width, g.Height)
	}
	p := Pos{X: 3, Y: 2}
	if g.PosOf(g.Index(p)) != p {
		t.Fatalf("index round trip failed for %v", p)
	}
	if g.At(Pos{X: -1, Y: 0}) != HardWall {
		t.Fatalf("out of bounds should read as hard wall")
	}
	if !g.IsPillar(Pos{X: 2, Y: 2}) || g.IsPillar(Pos{X: 0, Y: 2}) || g.IsPillar(Pos{X: 3, Y: 2}) {
		t.Fatalf("pillar classification wrong")
	}
	clone := g.Clone()
	clone.Set(p, SoftBlock)
	if g.At(p) != Empty {
		t.Fatalf("clone must not alias the source cells")
	}
}

func TestDirections(t *testing.T) {
	origin := Pos{X: 5, Y: 5}
	for _, d := range Directions {
		if origin.Step(d).Step(d.Opposite()) != origin {
			t.Fatalf("%v and its opposite should cancel", d)
		}
		if origin.Manhattan(origin.Step(d)) != 1 {
			t.Fatalf("%v should move one cell", d)
		}
	}
}
