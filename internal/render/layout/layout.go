// Package layout has the rectangle math shared by sections and views. Canvas
// rectangles use a top-left origin; section geometry uses bottom-left window
// coordinates, converted with FromLBWH and FlipY.
package layout

import "image"

// Inset pulls every edge of rect in by px. A rect too small to shrink comes
// back normalized rather than inverted.
func Inset(rect image.Rectangle, px int) image.Rectangle {
	if px <= 0 {
		return rect
	}
	return Normalize(image.Rect(rect.Min.X+px, rect.Min.Y+px, rect.Max.X-px, rect.Max.Y-px))
}

// Normalize orders Min and Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	return image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y)
}

func clamp(v, hi int) int {
	return max(0, min(v, hi))
}

// SplitVertical cuts rect at x = Min.X+leftPx into a left and a right part.
func SplitVertical(rect image.Rectangle, leftPx int) (left, right image.Rectangle) {
	rect = Normalize(rect)
	x := rect.Min.X + clamp(leftPx, rect.Dx())
	left, right = rect, rect
	left.Max.X, right.Min.X = x, x
	return left, right
}

// SplitHorizontal cuts rect at y = Min.Y+topPx into a top and a bottom part.
func SplitHorizontal(rect image.Rectangle, topPx int) (top, bottom image.Rectangle) {
	rect = Normalize(rect)
	y := rect.Min.Y + clamp(topPx, rect.Dy())
	top, bottom = rect, rect
	top.Max.Y, bottom.Min.Y = y, y
	return top, bottom
}

// FromLBWH builds a canvas rectangle from window coordinates whose origin is
// the bottom-left corner of a canvas canvasHeight pixels tall.
func FromLBWH(left, bottom, width, height, canvasHeight int) image.Rectangle {
	top := canvasHeight - bottom - height
	return Normalize(image.Rect(left, top, left+width, top+height))
}

// FlipY converts a y coordinate between bottom-left and top-left origins.
func FlipY(y, canvasHeight int) int {
	return canvasHeight - y
}

// Contains reports whether (x,y) lies inside the rectangle spanning
// [left,left+width] x [bottom,bottom+height], edges included.
func Contains(left, bottom, width, height, x, y int) bool {
	return x >= left && x <= left+width && y >= bottom && y <= bottom+height
}
