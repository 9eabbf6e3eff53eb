package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tally/internal/customer"
)

// formField indexes the customer form fields in display order.
type formField int

const (
	fieldName formField = iota
	fieldDescription
	fieldStatus
	fieldRate
	fieldBalance
	fieldDeposit
	fieldCount
)

// formFieldSpec describes one form row.
type formFieldSpec struct {
	name      string // customer.Field* key for errors
	label     string
	charLimit int
}

var formFields = [fieldCount]formFieldSpec{
	fieldName:        {customer.FieldName, "Name", 80},
	fieldDescription: {customer.FieldDescription, "Description", 240},
	fieldStatus:      {customer.FieldStatus, "Status", 0},
	fieldRate:        {customer.FieldRate, "Rate", 20},
	fieldBalance:     {customer.FieldBalance, "Balance", 20},
	fieldDeposit:     {customer.FieldDeposit, "Deposit", 20},
}

const formModalWidth = 64

// formState is the open customer form. Status is cycled rather than typed,
// so its text input slot is unused.
type formState struct {
	inputs [fieldCount]textinput.Model
	status customer.Status
	focus  formField
	errs   customer.FieldErrors
}

// newFormState builds a form pre-filled from in.
func newFormState(in customer.Input) *formState {
	values := customer.FormFromInput(in)
	text := [fieldCount]string{
		fieldName:        values.Name,
		fieldDescription: values.Description,
		fieldRate:        values.Rate,
		fieldBalance:     values.Balance,
		fieldDeposit:     values.Deposit,
	}

	f := &formState{status: in.Status}
	if !f.status.Valid() {
		f.status = customer.StatusOpen
	}
	for i := range fieldCount {
		if i == fieldStatus {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = formFields[i].charLimit
		ti.Width = formModalWidth - 8
		ti.SetValue(text[i])
		f.inputs[i] = ti
	}
	return f
}

// values returns the raw form text.
func (f *formState) values() customer.Form {
	return customer.Form{
		Name:        f.inputs[fieldName].Value(),
		Description: f.inputs[fieldDescription].Value(),
		Status:      string(f.status),
		Rate:        f.inputs[fieldRate].Value(),
		Balance:     f.inputs[fieldBalance].Value(),
		Deposit:     f.inputs[fieldDeposit].Value(),
	}
}

// setFocus moves focus to field, blurring every other input.
func (f *formState) setFocus(field formField) {
	f.focus = field
	for i := range fieldCount {
		if i == fieldStatus {
			continue
		}
		if i == field {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// blurAll removes focus from every input.
func (f *formState) blurAll() {
	for i := range fieldCount {
		if i != fieldStatus {
			f.inputs[i].Blur()
		}
	}
}

// move shifts focus by delta, wrapping around.
func (f *formState) move(delta int) {
	next := (int(f.focus) + delta + int(fieldCount)) % int(fieldCount)
	f.setFocus(formField(next))
}

// firstError returns the first field, in display order, with an error.
func (f *formState) firstError() (formField, bool) {
	for i := range fieldCount {
		if f.errs.Has(formFields[i].name) {
			return i, true
		}
	}
	return 0, false
}

// openForm opens the customer form for id, or a blank form when id is
// empty. Unknown ids are ignored.
func (m *Model) openForm(id string, viewOnly bool) {
	in := customer.DefaultInput()
	if id != "" {
		c, ok := m.findCustomer(id)
		if !ok {
			return
		}
		in = c.Input()
	}

	if viewOnly {
		m.sel.OpenViewer(id)
	} else {
		m.sel.OpenModal(id)
	}
	m.form = newFormState(in)
	if viewOnly {
		m.form.blurAll()
	} else {
		m.form.setFocus(fieldName)
	}
}

// closeForm closes the modal and discards the form.
func (m *Model) closeForm() {
	m.sel.CloseModal()
	m.form = nil
}

// handleFormKey processes keyboard input while the form is open. Input is
// ignored while a mutation is pending.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	modal := m.sel.Modal()

	if key.Matches(msg, m.keys.Escape) {
		m.closeForm()
		return m, nil
	}

	if modal.ViewOnly {
		if msg.String() == "e" {
			m.sel.SetViewOnly(false)
			m.form.setFocus(fieldName)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextField):
		m.form.move(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.form.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()
	}

	if m.form.focus == fieldStatus {
		switch msg.String() {
		case "left", "h":
			m.form.status = m.form.status.Prev()
		case "right", "l", " ":
			m.form.status = m.form.status.Next()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

// submitForm validates the form and starts the add or update mutation.
// Invalid input stays in the form and never reaches the service.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	in, errs := customer.ParseForm(m.form.values())
	m.form.errs = errs
	if len(errs) > 0 {
		if field, ok := m.form.firstError(); ok {
			m.form.setFocus(field)
		}
		return m, nil
	}

	m.pending = true
	m.form.blurAll()

	modal := m.sel.Modal()
	if modal.Creating() {
		return m, m.addCustomerCmd(in)
	}
	return m, m.updateCustomerCmd(modal.EditingID, in)
}

// formTitle returns the modal title for the current mode.
func (m Model) formTitle() string {
	modal := m.sel.Modal()
	switch {
	case modal.ViewOnly:
		return "Customer Details"
	case modal.Creating():
		return "Add New Customer"
	default:
		return "Edit Customer"
	}
}

// renderForm renders the customer form modal.
func (m Model) renderForm() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	modal := m.sel.Modal()
	f := m.form

	var b strings.Builder
	b.WriteString(bg.Render(m.formTitle(), styles.Text.Bold(true)))
	if modal.EditingID != "" {
		b.WriteString(bg.Space() + bg.Render("#"+modal.EditingID, styles.MutedText))
	}
	b.WriteString("\n")
	b.WriteString(bg.Render(strings.Repeat("─", formModalWidth-6), styles.FaintText))
	b.WriteString("\n")

	for i := range fieldCount {
		spec := formFields[i]
		labelStyle := styles.MutedText
		if i == f.focus && !modal.ViewOnly && !m.pending {
			labelStyle = styles.AccentText.Bold(true)
		}
		b.WriteString(bg.Render(spec.label, labelStyle))
		b.WriteString("\n")

		switch {
		case i == fieldStatus:
			badge := styles.StatusBadge(f.status).Render(" " + string(f.status) + " ")
			if modal.ViewOnly {
				b.WriteString(badge)
			} else {
				b.WriteString(bg.Render("◀", styles.FaintText) + bg.Space() + badge + bg.Space() + bg.Render("▶", styles.FaintText))
			}
		case modal.ViewOnly:
			b.WriteString(bg.Render(m.viewValue(i), styles.Text))
		default:
			b.WriteString(f.inputs[i].View())
		}
		b.WriteString("\n")

		if msg, ok := f.errs[spec.name]; ok {
			b.WriteString(bg.Render(msg, styles.DangerText))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderFormButtons(styles, bg))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		BorderBackground(lipgloss.Color(m.theme.Surface)).
		Background(lipgloss.Color(m.theme.Surface)).
		Padding(1, 2).
		Width(formModalWidth).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)),
	)
}

// viewValue renders a read-only field, formatting amounts as currency.
func (m Model) viewValue(field formField) string {
	value := m.form.inputs[field].Value()
	switch field {
	case fieldRate, fieldBalance, fieldDeposit:
		in, _ := customer.ParseForm(m.form.values())
		amounts := map[formField]float64{fieldRate: in.Rate, fieldBalance: in.Balance, fieldDeposit: in.Deposit}
		return customer.FormatCAD(amounts[field]) + " " + customer.Currency
	}
	if value == "" {
		return "—"
	}
	return value
}

// renderFormButtons renders the action row under the form.
func (m Model) renderFormButtons(styles Styles, bg BgStyle) string {
	modal := m.sel.Modal()
	if modal.ViewOnly {
		return bg.Render("e", styles.AccentText) + bg.Sep(":") + bg.Render("Edit", styles.MutedText) + bg.Spaces(2) +
			bg.Render("esc", styles.AccentText) + bg.Sep(":") + bg.Render("Close", styles.MutedText)
	}
	if m.pending {
		return m.spinner.View() + bg.Space() + bg.Render("Saving...", styles.WarningText)
	}

	label := "Save Changes"
	if modal.Creating() {
		label = "Add Customer"
	}
	button := lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Accent)).
		Foreground(lipgloss.Color(m.theme.Background)).
		Bold(true).
		Padding(0, 1).
		Render(label)
	return button + bg.Spaces(2) +
		bg.Render("enter", styles.AccentText) + bg.Sep(":") + bg.Render("Submit", styles.MutedText) + bg.Spaces(2) +
		bg.Render("esc", styles.AccentText) + bg.Sep(":") + bg.Render("Cancel", styles.MutedText)
}
