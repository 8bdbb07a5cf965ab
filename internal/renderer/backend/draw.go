package backend

// DrawText draws s starting at (x, y) without wrapping and returns the
// column after the last rune drawn.
func DrawText(b Backend, x, y int, s string, style Style) int {
	for _, r := range s {
		b.SetCell(x, y, Cell{Rune: r, Style: style})
		x++
	}
	return x
}

// FillRow sets every cell of row y from column x to the right edge.
func FillRow(b Backend, x, y int, cell Cell) {
	width, _ := b.Size()
	for ; x < width; x++ {
		b.SetCell(x, y, cell)
	}
}
