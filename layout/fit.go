package layout

// Evaluate computes the total block height of a line set at the given size
// and reports whether it fits the box height. Blank lines count. Pure
// function of its inputs.
func Evaluate(lines []Line, m Measurer, size int, boxHeight, lineHeightRatio float64) (fits bool, total float64) {
	lh := m.LineHeight(size) * lineHeightRatio
	total = float64(len(lines)) * lh
	return total <= boxHeight, total
}
