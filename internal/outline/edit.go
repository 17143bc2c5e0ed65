package outline

import "strings"

// IndentRange prepends one tab to every line in lines[from..to] in place.
// Indices outside the slice are clamped; an inverted range is a no-op.
func IndentRange(lines []string, from, to int) {
	from, to, ok := clampRange(lines, from, to)
	if !ok {
		return
	}
	for i := from; i <= to; i++ {
		lines[i] = "\t" + lines[i]
	}
}

// UnindentRange removes one indent step from every line in lines[from..to]
// in place: a leading tab if present, else exactly four leading spaces.
// Lines with neither are left unchanged.
func UnindentRange(lines []string, from, to int) {
	from, to, ok := clampRange(lines, from, to)
	if !ok {
		return
	}
	for i := from; i <= to; i++ {
		lines[i] = UnindentLine(lines[i])
	}
}

// UnindentLine removes one indent step from a single line.
func UnindentLine(line string) string {
	if strings.HasPrefix(line, "\t") {
		return line[1:]
	}
	if strings.HasPrefix(line, strings.Repeat(" ", spacesPerLevel)) {
		return line[spacesPerLevel:]
	}
	return line
}

func clampRange(lines []string, from, to int) (int, int, bool) {
	if len(lines) == 0 || from > to {
		return 0, 0, false
	}
	if from < 0 {
		from = 0
	}
	if to >= len(lines) {
		to = len(lines) - 1
	}
	if from > to {
		return 0, 0, false
	}
	return from, to, true
}
