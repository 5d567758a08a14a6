package csvexport

import "strings"

// EOL separates rows in every CSV this package writes.
const EOL = "\n"

// Encode renders one cell. Double quotes are always doubled; the cell is
// wrapped in quotes only when it contains a comma or a carriage return.
func Encode(value string) string {
	quote := strings.ContainsAny(value, ",\r")
	value = strings.ReplaceAll(value, `"`, `""`)
	if quote {
		return `"` + value + `"`
	}
	return value
}

// Rows renders a table.
func Rows(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = Encode(cell)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, EOL)
}
