package layout

import (
	"image"
	"testing"
)

func TestInsetAndNormalize(t *testing.T) {
	r := Inset(image.Rect(0, 0, 100, 50), 10)
	if r != image.Rect(10, 10, 90, 40) {
		t.Errorf("Inset = %v", r)
	}
	if got := Inset(image.Rect(0, 0, 10, 10), 8); got != image.Rect(2, 2, 8, 8) {
		t.Errorf("over-inset not normalized: %v", got)
	}
}

func TestSplits(t *testing.T) {
	left, right := SplitVertical(image.Rect(0, 0, 100, 20), 150)
	if left.Dx() != 100 || right.Dx() != 0 {
		t.Errorf("SplitVertical clamp: %v %v", left, right)
	}
	top, bottom := SplitHorizontal(image.Rect(0, 0, 10, 100), 30)
	if top != image.Rect(0, 0, 10, 30) || bottom != image.Rect(0, 30, 10, 100) {
		t.Errorf("SplitHorizontal = %v %v", top, bottom)
	}
	// Offset origin and a negative cut.
	left, right = SplitVertical(image.Rect(40, 5, 140, 25), -3)
	if left != image.Rect(40, 5, 40, 25) || right != image.Rect(40, 5, 140, 25) {
		t.Errorf("SplitVertical negative = %v %v", left, right)
	}
	left, right = SplitVertical(image.Rect(140, 25, 40, 5), 60)
	if left != image.Rect(40, 5, 100, 25) || right != image.Rect(100, 5, 140, 25) {
		t.Errorf("SplitVertical inverted = %v %v", left, right)
	}
}

func TestFromLBWH(t *testing.T) {
	// A 100x20 bar at the bottom of a 720 tall canvas.
	r := FromLBWH(0, 0, 100, 20, 720)
	if r != image.Rect(0, 700, 100, 720) {
		t.Errorf("FromLBWH = %v", r)
	}
	if FlipY(0, 720) != 720 {
		t.Error("FlipY(0) != height")
	}
}

func TestContainsIncludesEdges(t *testing.T) {
	cases := []struct {
		x, y int
		want bool
	}{
		{10, 10, true},
		{60, 30, true},
		{35, 20, true},
		{9, 20, false},
		{61, 20, false},
		{30, 31, false},
	}
	for _, c := range cases {
		if got := Contains(10, 10, 50, 20, c.x, c.y); got != c.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}
