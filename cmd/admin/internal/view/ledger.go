package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/usbankcorp/bankd/internal/transaction"
)

// LedgerModel browses the full ledger. The detail panel shows the issued
// verification codes for the selected transfer so the administrator can relay
// the current one to the customer.
type LedgerModel struct {
	CommonModel
	txService *transaction.Service

	table       table.Model
	txs         []*transaction.Transaction
	showDetails bool

	statusFilterIdx int
	filter          transaction.ListFilter

	loading bool
	err     error
}

var statusFilters = []*transaction.Status{
	nil,
	new(transaction.StatusPending),
	new(transaction.StatusProcessing),
	new(transaction.StatusProcessed),
	new(transaction.StatusWaitingAdminApproval),
	new(transaction.StatusCompleted),
	new(transaction.StatusFailed),
}

var statusFilterLabels = []string{
	"All", "Pending", "Processing", "Processed", "Waiting Approval", "Completed", "Failed",
}

func NewLedgerModel(txSvc *transaction.Service) LedgerModel {
	columns := []table.Column{
		{Title: "ID", Width: 14},
		{Title: "Created", Width: 12},
		{Title: "Account", Width: 9},
		{Title: "Type", Width: 9},
		{Title: "Amount", Width: 12},
		{Title: "Status", Width: 22},
		{Title: "Stage", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return LedgerModel{
		txService: txSvc,
		table:     t,
		filter:    transaction.ListFilter{},
	}
}

func (m LedgerModel) Title() string { return "Ledger" }
func (m LedgerModel) ShortHelp() string {
	return "Esc: back | enter: codes | s: status filter | r: refresh"
}

func (m LedgerModel) Init() tea.Cmd {
	return m.loadLedgerCmd()
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadLedgerMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.txs = msg.txs
		m.refreshTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "enter":
			m.showDetails = !m.showDetails
			return m, nil
		case "r":
			m.loading = true
			return m, m.loadLedgerCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.filter.Status = statusFilters[m.statusFilterIdx]
			return m, m.loadLedgerCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m LedgerModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading ledger...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Filter: [s] Status: %s", activeStyle(statusFilterLabels[m.statusFilterIdx]))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.showDetails {
		if panel := m.detailsPanel(); panel != "" {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
		}
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m LedgerModel) detailsPanel() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return ""
	}

	tx := m.txs[idx]

	body := fmt.Sprintf(
		"Transfer %s\n\nStage: %s\nAttempts: %d/%d\n\nOTP:   %s\nCOT:   %s\nToken: %s\n2FA:   %s",
		tx.ID, tx.Stage, tx.Attempts, tx.MaxAttempts,
		orDash(tx.Codes.OTP), orDash(tx.Codes.COT),
		orDash(tx.Codes.TokenKey), orDash(tx.Codes.TwoFA),
	)

	if tx.DecisionNotes != "" {
		body += fmt.Sprintf("\n\nNotes: %s", tx.DecisionNotes)
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(40).
		Render(body)
}

func orDash(code string) string {
	if code == "" {
		return "-"
	}
	return code
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *LedgerModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			tx.ID,
			FormatDate(tx.CreatedAt),
			tx.AccountID,
			string(tx.Type),
			FormatAmount(tx.Amount),
			string(tx.Status),
			string(tx.Stage),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadLedgerMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m LedgerModel) loadLedgerCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, m.filter)
		return loadLedgerMsg{txs: txs, err: err}
	}
}
