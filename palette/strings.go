package palette

import "strings"

// FromStrings densifies a character map given as one string per row.
// Rows are measured in runes, so multi-byte glyphs count as one cell.
func FromStrings(rows []string) (*Palette[rune], [][]int, error) {
	grid := make([][]rune, len(rows))
	for y, row := range rows {
		grid[y] = []rune(row)
	}
	p := New[rune](16)
	out, err := Encode(p, grid)
	if err != nil {
		return nil, nil, err
	}
	return p, out, nil
}

// ToStrings is the inverse of FromStrings.
func ToStrings(p *Palette[rune], grid [][]int) ([]string, error) {
	runes, err := Decode(p, grid)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(runes))
	var sb strings.Builder
	for y, row := range runes {
		sb.Reset()
		for _, r := range row {
			sb.WriteRune(r)
		}
		out[y] = sb.String()
	}
	return out, nil
}
