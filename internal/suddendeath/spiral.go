package suddendeath

import (
	"sync"

	"crawl_core/internal/grid"
)

var spirals struct {
	sync.Mutex
	m map[[2]int][]grid.Pos
}

// Spiral returns every cell of a w x h grid in clockwise concentric order,
// outermost ring first. The slice is shared between callers; do not modify.
func Spiral(w, h int) []grid.Pos {
	spirals.Lock()
	defer spirals.Unlock()
	key := [2]int{w, h}
	if s, ok := spirals.m[key]; ok {
		return s
	}
	if spirals.m == nil {
		spirals.m = map[[2]int][]grid.Pos{}
	}
	s := buildSpiral(w, h)
	spirals.m[key] = s
	return s
}

// DefaultSpiral is the spiral for the standard 15x13 arena.
func DefaultSpiral() []grid.Pos {
	return Spiral(grid.DefaultWidth, grid.DefaultHeight)
}

func buildSpiral(w, h int) []grid.Pos {
	if w <= 0 || h <= 0 {
		return nil
	}
	out := make([]grid.Pos, 0, w*h)
	top, bottom, left, right := 0, h-1, 0, w-1
	for top <= bottom && left <= right {
		for x := left; x <= right; x++ {
			out = append(out, grid.Pos{X: x, Y: top})
		}
		for y := top + 1; y <= bottom; y++ {
			out = append(out, grid.Pos{X: right, Y: y})
		}
		if top < bottom {
			for x := right - 1; x >= left; x-- {
				out = append(out, grid.Pos{X: x, Y: bottom})
			}
		}
		if left < right {
			for y := bottom - 1; y > top; y-- {
				out = append(out, grid.Pos{X: left, Y: y})
			}
		}
		top, bottom, left, right = top+1, bottom-1, left+1, right-1
	}
	return out
}
