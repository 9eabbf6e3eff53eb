package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tally/internal/customer"
	"github.com/five82/tally/internal/table"
)

// Column widths. The description column takes the remaining space.
const (
	colCheck   = 3
	colNumber  = 4
	colName    = 26
	colStatus  = 10
	colMoney   = 13
	colMinDesc = 12
	colGap     = 1
)

// handleTableKey processes keyboard input for the customer table.
func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.project()
	rows := m.rows()

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(view.Rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(len(view.Rows)-1, 0)

	case key.Matches(msg, m.keys.NextPage):
		if m.engine.NextPage(len(rows)) {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.engine.PrevPage() {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.MoreRows):
		m.setPageSize(table.StepPageSize(m.engine.PageSize(), 1))
	case key.Matches(msg, m.keys.FewerRows):
		m.setPageSize(table.StepPageSize(m.engine.PageSize(), -1))

	case key.Matches(msg, m.keys.ToggleSort):
		m.engine.ToggleSort()
	case key.Matches(msg, m.keys.ToggleRow):
		if row, ok := m.cursorRow(); ok {
			m.engine.Toggle(row.ID)
		}
	case key.Matches(msg, m.keys.TogglePage):
		m.engine.TogglePage(rows)
	case key.Matches(msg, m.keys.ClearChecked):
		m.sel.Selected.Clear()

	case key.Matches(msg, m.keys.New):
		if id, ok := m.sel.Selected.Only(); ok {
			m.openForm(id, false)
		} else {
			m.openForm("", false)
		}
	case key.Matches(msg, m.keys.View):
		if row, ok := m.cursorRow(); ok {
			m.openForm(row.ID, true)
		}
	case key.Matches(msg, m.keys.Edit):
		if row, ok := m.cursorRow(); ok {
			m.openForm(row.ID, false)
		}
	case key.Matches(msg, m.keys.DeleteRow):
		if row, ok := m.cursorRow(); ok {
			m.confirm = newConfirm([]string{row.ID})
		}
	case key.Matches(msg, m.keys.DeleteMany):
		if ids := m.sel.Selected.IDs(); len(ids) > 0 {
			m.confirm = newConfirm(ids)
		}

	case key.Matches(msg, m.keys.Refresh):
		if m.query != nil {
			return m, refetchCustomersCmd(m.ctx, m.query)
		}
	}

	m.clampCursor()
	return m, nil
}

// setPageSize changes rows per page, returns to the first page and
// persists the choice.
func (m *Model) setPageSize(size int) {
	if size == m.engine.PageSize() {
		return
	}
	m.engine.SetPageSize(size)
	m.cursor = 0
	m.savePrefs()
}

// cursorRow returns the customer under the cursor on the current page.
func (m Model) cursorRow() (customer.Customer, bool) {
	view := m.project()
	if m.cursor < 0 || m.cursor >= len(view.Rows) {
		return customer.Customer{}, false
	}
	return view.Rows[m.cursor], true
}

// clampCursor keeps the cursor on a visible row.
func (m *Model) clampCursor() {
	n := len(m.project().Rows)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// renderTable renders the customer table box with its footer.
func (m Model) renderTable() string {
	contentHeight := max(m.height-chromeHeight, tableChromeHeight)
	innerWidth := max(m.width-2, 20)
	bgColor := m.theme.FocusBg

	view := m.project()
	cols := m.columns(innerWidth)

	var lines []string
	lines = append(lines, m.renderColumnHeader(view, cols, bgColor))

	switch {
	case m.snapshot.Loading():
		lines = append(lines, m.renderSkeleton(view.PageSize, cols, bgColor)...)
	case !m.snapshot.HasData && m.snapshot.LastError != nil:
		styles := m.theme.Styles().WithBackground(bgColor)
		bg := NewBgStyle(bgColor)
		lines = append(lines,
			"",
			bg.Spaces(1)+bg.Render(queryErrorText(m.snapshot.LastError), styles.DangerText),
			bg.Spaces(1)+bg.Render("Press r to retry", styles.MutedText))
	case view.Total == 0:
		styles := m.theme.Styles().WithBackground(bgColor)
		empty := lipgloss.PlaceHorizontal(innerWidth, lipgloss.Center,
			styles.MutedText.Render("No Data Found"),
			lipgloss.WithWhitespaceBackground(lipgloss.Color(bgColor)))
		lines = append(lines, "", empty)
	default:
		offset := (view.Page - 1) * view.PageSize
		for i, row := range view.Rows {
			lines = append(lines, m.renderRow(row, offset+i+1, i == m.cursor, cols))
		}
	}

	// Pin the footer to the bottom of the box
	bodyHeight := contentHeight - 2
	for len(lines) < bodyHeight-1 {
		lines = append(lines, "")
	}
	if len(lines) > bodyHeight-1 {
		lines = lines[:bodyHeight-1]
	}
	lines = append(lines, m.renderFooter(view, innerWidth, bgColor))

	return m.renderTitledBox(m.tableTitle(view), strings.Join(lines, "\n"), m.width, contentHeight, true)
}

// tableTitle returns the box title with the sort direction.
func (m Model) tableTitle(view table.View) string {
	arrow := "↑"
	if view.Descending {
		arrow = "↓"
	}
	return fmt.Sprintf("Customers (%d) id %s", view.Total, arrow)
}

// columnLayout holds the widths for one render.
type columnLayout struct {
	number      bool
	description int
}

// columns computes which columns fit in width.
func (m Model) columns(width int) columnLayout {
	layout := columnLayout{number: m.width >= LayoutWideWidth}
	if m.width < LayoutCompactWidth {
		return layout
	}
	fixed := colCheck + colName + colStatus + 3*colMoney + 7*colGap
	if layout.number {
		fixed += colNumber + colGap
	}
	if rest := width - fixed; rest >= colMinDesc {
		layout.description = rest
	}
	return layout
}

// checkbox renders a checkbox cell.
func checkbox(checked, partial bool) string {
	switch {
	case checked:
		return "[x]"
	case partial:
		return "[-]"
	default:
		return "[ ]"
	}
}

// renderColumnHeader renders the column titles with the tri-state page
// checkbox.
func (m Model) renderColumnHeader(view table.View, cols columnLayout, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	head := styles.MutedText.Bold(true)

	parts := []string{bg.Render(checkbox(view.Summary.AllSelected, view.Summary.SomeSelected), styles.AccentText)}
	if cols.number {
		parts = append(parts, bg.Render(fit("#", colNumber), head))
	}
	parts = append(parts, bg.Render(fit("Name", colName), head))
	if cols.description > 0 {
		parts = append(parts, bg.Render(fit("Description", cols.description), head))
	}
	parts = append(parts,
		bg.Render(fit("Status", colStatus), head),
		bg.Render(fitRight("Rate", colMoney), head),
		bg.Render(fitRight("Balance", colMoney), head),
		bg.Render(fitRight("Deposit "+customer.Currency, colMoney), head),
	)
	return bg.Join(parts, " ")
}

// renderRow renders one customer row. The cursor row uses the selection
// colours; checked rows use the checked background.
func (m Model) renderRow(row customer.Customer, number int, cursor bool, cols columnLayout) string {
	checked := m.sel.Selected.Has(row.ID)

	bgColor := m.theme.FocusBg
	if checked {
		bgColor = m.theme.CheckedBg
	}
	if cursor {
		bgColor = m.theme.SelectionBg
	}
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	textStyle, mutedStyle := styles.Text, styles.MutedText
	if cursor {
		textStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText)).Background(lipgloss.Color(bgColor))
		mutedStyle = textStyle
	}

	// Name followed by the id in a muted style
	name := truncate(row.Name, colName)
	idWidth := colName - lipgloss.Width(name) - 1
	nameCell := bg.Render(name, textStyle.Bold(true))
	if idWidth > 4 {
		nameCell += bg.Space() + bg.Render(truncate("#"+row.ID, idWidth), mutedStyle)
	}
	nameCell = lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Width(colName).Render(nameCell)

	parts := []string{bg.Render(checkbox(checked, false), styles.AccentText)}
	if cols.number {
		parts = append(parts, bg.Render(fit(strconv.Itoa(number), colNumber), mutedStyle))
	}
	parts = append(parts, nameCell)
	if cols.description > 0 {
		parts = append(parts, bg.Render(fit(row.Description, cols.description), mutedStyle))
	}
	badge := styles.StatusBadge(row.Status).Render(" " + truncate(string(row.Status), colStatus-2) + " ")
	parts = append(parts,
		badge+bg.Spaces(max(colStatus-lipgloss.Width(badge), 0)),
		bg.Render(fitRight(customer.FormatCAD(row.Rate), colMoney), textStyle),
		bg.Render(fitRight(customer.FormatCAD(row.Balance), colMoney), m.amountStyle(row.Balance, textStyle, styles, cursor)),
		bg.Render(fitRight(customer.FormatCAD(row.Deposit), colMoney), textStyle),
	)
	line := bg.Join(parts, " ")
	return bg.FillLine(line, m.width-2)
}

// amountStyle highlights negative balances.
func (m Model) amountStyle(amount float64, base lipgloss.Style, styles Styles, cursor bool) lipgloss.Style {
	if amount < 0 && !cursor {
		return styles.DangerText
	}
	return base
}

// renderSkeleton renders placeholder rows while the first fetch runs.
func (m Model) renderSkeleton(rows int, cols columnLayout, bgColor string) []string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	block := func(w int) string { return strings.Repeat("░", w) }

	width := colCheck + colName + colStatus + 3*colMoney + 5*colGap
	if cols.number {
		width += colNumber + colGap
	}
	if cols.description > 0 {
		width += cols.description + colGap
	}

	lines := make([]string, 0, rows)
	for range rows {
		lines = append(lines, bg.Render(block(width), styles.FaintText))
	}
	return lines
}

// renderFooter renders rows per page, the range label and the page count.
func (m Model) renderFooter(view table.View, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	sep := bg.Spaces(3)

	left := bg.Render(fmt.Sprintf("%d selected", m.sel.Selected.Len()), styles.MutedText)
	right := bg.Render("Rows per page", styles.MutedText) + bg.Space() +
		bg.Render(strconv.Itoa(view.PageSize), styles.AccentText) + sep +
		bg.Render(view.Range, styles.Text) + sep +
		bg.Render(fmt.Sprintf("Page %d of %d", view.Page, view.Pages), styles.Text)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return bg.Space() + right
	}
	return bg.Space() + left + bg.Spaces(gap) + right
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Format: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	paddedLines := make([]string, 0, boxHeight)
	for i := range boxHeight {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(clipLine(line, innerWidth))+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
