package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/danieljhkim/smokeplan/internal/engine"
	"github.com/danieljhkim/smokeplan/internal/grid"
)

const cellWidth = 26

var (
	dayTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	unitHeadStyle  = lipgloss.NewStyle().Bold(true).Width(cellWidth)
	reservedStyle  = unitHeadStyle.Foreground(lipgloss.Color("214"))
	posStyle       = lipgloss.NewStyle().Width(4).Foreground(lipgloss.Color("241"))
	cellStyle      = lipgloss.NewStyle().Width(cellWidth)
	emptyCellStyle = cellStyle.Foreground(lipgloss.Color("238"))
	partCellStyle  = cellStyle.Foreground(lipgloss.Color("180"))
	dayBoxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// renderPlan draws one bordered table per day: smokers as columns,
// positions as rows.
func renderPlan(res *engine.ShowResult, caps *engine.CapacityResult) string {
	d := res.Dimensions
	days := make([]string, 0, d.Days)
	for day := 0; day < d.Days; day++ {
		date := res.WeekStart.AddDate(0, 0, day)
		rows := []string{
			dayTitleStyle.Render(fmt.Sprintf("%s %s  (day %d)", date.Weekday(), date.Format(grid.DateLayout), day)),
		}

		header := []string{posStyle.Render("")}
		for unit := 1; unit <= d.Units; unit++ {
			header = append(header, unitHeader(unit, res.Loads[day][unit-1], caps))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, header...))

		for pos := 1; pos <= d.Positions; pos++ {
			cells := []string{posStyle.Render(strconv.Itoa(pos))}
			for unit := 1; unit <= d.Units; unit++ {
				cells = append(cells, renderCell(res.Grid[grid.SlotKey{Day: day, Unit: unit, Position: pos}]))
			}
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		}
		days = append(days, dayBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, days...)
}

func unitHeader(unit int, load float64, caps *engine.CapacityResult) string {
	label := fmt.Sprintf("Smoker %d  %s kg", unit, formatQty(load))
	if caps != nil && unit <= len(caps.Rows) && caps.Rows[unit-1].Reserved {
		return reservedStyle.Render(fmt.Sprintf("Smoker %d (%s) %s kg", unit, caps.ReservedCategory, formatQty(load)))
	}
	return unitHeadStyle.Render(label)
}

func renderCell(items []grid.Item) string {
	if len(items) == 0 {
		return emptyCellStyle.Render("·")
	}
	if items[0].IsPart() {
		return partCellStyle.Render(cellText(items))
	}
	return cellStyle.Render(cellText(items))
}

// cellText shortens the name so the quantity always stays visible.
func cellText(items []grid.Item) string {
	it := items[0]
	suffix := " " + formatQty(it.Quantity) + it.Unit
	if it.PartIndex != nil {
		suffix += fmt.Sprintf(" p%d", *it.PartIndex)
	}
	if len(items) > 1 {
		suffix += fmt.Sprintf(" +%d", len(items)-1)
	}
	if it.Note != "" {
		suffix += " *"
	}
	return truncate(it.Name, cellWidth-1-len([]rune(suffix))) + suffix
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
