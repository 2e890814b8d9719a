package track

// Convert turns a residual pixel offset (deltaX columns, deltaY rows) found on
// a search chip that was shifted by (ox, oy) pixels into a displacement in
// map units, given the signed pixel size (dx, dy).
func Convert(deltaX, deltaY float64, ox, oy int, dx, dy float64) (x, y float64) {
	x = deltaX*dx + float64(ox)*dx
	y = deltaY*dy + float64(oy)*dy

	return x, y
}
