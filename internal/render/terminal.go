package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"state-gridmap/internal/grid"
	"state-gridmap/internal/scene"
)

const termCellWidth = 5

var (
	emptyCell  = lipgloss.NewStyle().Width(termCellWidth)
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Terminal draws the tile grid with one colored cell per state.
func Terminal(sc *scene.Scene) string {
	byPos := make(map[[2]int]scene.Tile, len(sc.Tiles))
	for _, t := range sc.Tiles {
		if sc.CellSize <= 0 {
			break
		}
		row := int(t.Rect.Y/sc.CellSize) + 1
		col := int(t.Rect.X/sc.CellSize) + 1
		byPos[[2]int{row, col}] = t
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s)", sc.Metric, sc.Publication)))
	b.WriteString("\n")
	for r := 1; r <= grid.Rows; r++ {
		cells := make([]string, 0, grid.Cols)
		for c := 1; c <= grid.Cols; c++ {
			t, ok := byPos[[2]int{r, c}]
			if !ok {
				cells = append(cells, emptyCell.Render(""))
				continue
			}
			st := lipgloss.NewStyle().
				Width(termCellWidth).
				Align(lipgloss.Center).
				Background(lipgloss.Color(t.Color)).
				Foreground(lipgloss.Color("#000000"))
			label := t.Code
			if t.Mini == nil {
				label += "?"
			}
			cells = append(cells, st.Render(label))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	b.WriteString(noteStyle.Render("? = no time series for state"))
	b.WriteString("\n")
	return b.String()
}
