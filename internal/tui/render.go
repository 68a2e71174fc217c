package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"budgettool/internal/models"
	"budgettool/internal/views"
)

// View implements tea.Model.
func (a App) View() string {
	if !a.ready {
		return "\n  " + a.spinner.View() + labelStyle.Render(" Checking session...")
	}

	if a.route.Kind == views.RouteLogin {
		return a.viewLogin()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, a.viewSidebar(), mainStyle.Render(a.viewMain()))
	if a.pending != nil {
		body += "\n\n" + warnStyle.Render("  "+a.pending.prompt+" [y/N]")
	}
	return body
}

func (a App) viewLogin() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Vendor budgets"))
	b.WriteString("\n\n")
	if a.form != nil {
		b.WriteString(indent(a.form.view(), "  "))
	}
	b.WriteString("\n\n")
	if a.busy > 0 {
		b.WriteString("  " + a.spinner.View() + " ")
	}
	if a.loginErr != "" {
		b.WriteString(errorStyle.Render("  " + a.loginErr))
		b.WriteString("\n")
	}
	mode := "ctrl+n create an account instead"
	if a.signUp {
		mode = "ctrl+n sign in with an existing account"
	}
	b.WriteString(dimStyle.Render("  " + mode + " · ctrl+c quit"))
	return b.String()
}

func (a App) viewSidebar() string {
	if a.nav == nil {
		return sidebarStyle.Render(labelStyle.Render("Vendors"))
	}
	snap := a.nav.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Vendors"))
	b.WriteString("\n\n")
	if snap.Loading {
		b.WriteString(a.spinner.View())
		b.WriteString("\n")
	}
	for _, e := range snap.Entries() {
		if e.Active {
			b.WriteString(selectedStyle.Render("▸ " + e.Label))
		} else {
			b.WriteString(labelStyle.Render("  " + e.Label))
		}
		b.WriteString("\n")
	}
	if snap.Message != nil {
		b.WriteString("\n")
		b.WriteString(renderMessage(snap.Message))
	}

	h := a.height - 2
	if h < 1 {
		return sidebarStyle.Render(b.String())
	}
	return sidebarStyle.Height(h).Render(b.String())
}

func (a App) viewMain() string {
	if a.form != nil {
		return a.form.view()
	}
	switch {
	case a.list != nil:
		return a.viewList()
	case a.detail != nil:
		return a.viewDetail()
	}
	return ""
}

func (a App) viewList() string {
	snap := a.list.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Vendors (%d)", len(snap.Vendors))))
	b.WriteString("\n\n")

	if snap.Status == views.StatusLoading {
		b.WriteString(a.spinner.View() + labelStyle.Render(" Loading..."))
		b.WriteString("\n")
	} else if len(snap.Vendors) == 0 {
		b.WriteString(dimStyle.Render("No vendors yet. Press n to add one."))
		b.WriteString("\n")
	}

	for i, v := range snap.Vendors {
		line := v.Name
		if v.ContactName != nil {
			line += dimStyle.Render("  " + *v.ContactName)
		}
		if i == a.cursor {
			b.WriteString(selectedStyle.Render("▸ ") + valueStyle.Render(line))
		} else {
			b.WriteString("  " + labelStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if snap.Creating {
		b.WriteString("\n" + a.spinner.View() + labelStyle.Render(" Creating..."))
	}
	if snap.Message != nil {
		b.WriteString("\n")
		b.WriteString(renderMessage(snap.Message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter open · n new · d delete · r reload · s sign out · q quit"))
	return b.String()
}

func (a App) viewDetail() string {
	snap := a.detail.Snapshot()

	var b strings.Builder
	name := "..."
	if snap.Vendor != nil {
		name = snap.Vendor.Name
	}
	b.WriteString(titleStyle.Render(name))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %d", snap.Year)))
	b.WriteString("\n")
	if snap.Vendor != nil {
		contact := strings.TrimSpace(deref(snap.Vendor.ContactName) + "  " + deref(snap.Vendor.ContactEmail))
		if contact == "" {
			contact = "no contact details"
		}
		b.WriteString(dimStyle.Render(contact))
	}
	b.WriteString("\n\n")

	tabs := make([]string, 0, len(models.BudgetTypes))
	for i, t := range models.BudgetTypes {
		label := fmt.Sprintf("%d %s", i+1, t.Label())
		if t == snap.Category {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	remaining := valueStyle
	if snap.Totals.Remaining.IsNegative() {
		remaining = errorStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		pillStyle.Render(labelStyle.Render("Budget ")+valueStyle.Render(views.FormatAmount(snap.Totals.Budget))),
		pillStyle.Render(labelStyle.Render("Spent ")+valueStyle.Render(views.FormatAmount(snap.Totals.Spent))),
		pillStyle.Render(labelStyle.Render("Remaining ")+remaining.Render(views.FormatAmount(snap.Totals.Remaining))),
	))
	b.WriteString("\n\n")

	if snap.Status == views.StatusLoading {
		b.WriteString(a.spinner.View() + labelStyle.Render(" Loading..."))
		b.WriteString("\n")
	} else if len(snap.Charges) == 0 {
		b.WriteString(dimStyle.Render("No charges in this category."))
		b.WriteString("\n")
	} else {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  %-10s  %12s  %-14s  %s", "Date", "Amount", "Invoice", "Notes")))
		b.WriteString("\n")
	}
	for i, c := range snap.Charges {
		row := fmt.Sprintf("%-10s  %12.2f  %-14s  %s", c.ChargeDate, c.Amount, deref(c.InvoiceNumber), deref(c.Notes))
		if i == a.cursor {
			b.WriteString(selectedStyle.Render("▸ ") + valueStyle.Render(row))
		} else {
			b.WriteString("  " + labelStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if snap.SavingBudget || snap.SavingContact || snap.AddingCharge {
		b.WriteString("\n" + a.spinner.View() + labelStyle.Render(" Saving..."))
	}
	if snap.Message != nil {
		b.WriteString("\n")
		b.WriteString(renderMessage(snap.Message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("1-3 category · b budget · c add charge · d delete charge · e contact · esc back · s sign out"))
	return b.String()
}

func renderMessage(m *views.Message) string {
	switch m.Kind {
	case views.MessageError:
		return errorStyle.Render(m.Text)
	case views.MessageSuccess:
		return successStyle.Render(m.Text)
	}
	return infoStyle.Render(m.Text)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
