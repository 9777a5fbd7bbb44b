package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/usbankcorp/bankd/internal/transaction"
)

type pendingState int

const (
	pendingStateBrowse pendingState = iota
	pendingStateDecide
)

type decisionKind int

const (
	decisionApprove decisionKind = iota
	decisionReject
	decisionBulkApprove
)

// PendingModel is the review queue of transfers waiting on the
// administrator's decision.
type PendingModel struct {
	CommonModel
	txService *transaction.Service
	adminID   string

	state    pendingState
	decision decisionKind
	table    table.Model
	txs      []*transaction.Transaction
	marked   map[string]bool
	form     *huh.Form

	loading bool
	err     error
	status  string

	formNotes string
}

func NewPendingModel(txSvc *transaction.Service, adminID string) PendingModel {
	columns := []table.Column{
		{Title: "ID", Width: 14},
		{Title: "Created", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Sender", Width: 12},
		{Title: "Recipient", Width: 22},
		{Title: "Bank", Width: 22},
		{Title: "Mark", Width: 5},
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

	return PendingModel{
		txService: txSvc,
		adminID:   adminID,
		table:     t,
		marked:    make(map[string]bool),
	}
}

func (m PendingModel) Title() string { return "Pending Approvals" }
func (m PendingModel) ShortHelp() string {
	if m.state == pendingStateDecide {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | a: approve | x: reject | space: mark | A: approve marked | r: refresh"
}

func (m PendingModel) Init() tea.Cmd {
	return m.loadPendingCmd()
}

func (m PendingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPendingMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.txs = msg.txs
		m.pruneMarks()
		m.refreshTable()
		return m, nil

	case decisionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.summary
		}
		m.state = pendingStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadPendingCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case pendingStateBrowse:
		return m.updateBrowse(msg)
	case pendingStateDecide:
		return m.updateDecide(msg)
	}

	return m, nil
}

func (m PendingModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadPendingCmd()
		case "a":
			return m.enterDecideMode(decisionApprove)
		case "x":
			return m.enterDecideMode(decisionReject)
		case " ":
			m.toggleMark()
			m.refreshTable()
			return m, nil
		case "A":
			if len(m.markedIDs()) == 0 {
				m.status = "No transfers marked"
				return m, nil
			}
			return m.enterDecideMode(decisionBulkApprove)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *PendingModel) toggleMark() {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return
	}

	id := m.txs[idx].ID
	if m.marked[id] {
		delete(m.marked, id)
	} else {
		m.marked[id] = true
	}
}

func (m PendingModel) enterDecideMode(decision decisionKind) (tea.Model, tea.Cmd) {
	if decision != decisionBulkApprove {
		idx := m.table.Cursor()
		if idx < 0 || idx >= len(m.txs) {
			return m, nil
		}
	}

	m.decision = decision
	m.formNotes = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("notes").
				Title("Decision notes").
				Placeholder("optional").
				Value(&m.formNotes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = pendingStateDecide
	m.table.Blur()
	return m, m.form.Init()
}

func (m PendingModel) updateDecide(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = pendingStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.decideCmd()
}

func (m PendingModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading pending approvals...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("%d transfers waiting for approval | %d marked",
		len(m.txs), len(m.markedIDs()))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == pendingStateDecide && m.form != nil {
		title := "Approve transfer"
		switch m.decision {
		case decisionReject:
			title = "Reject transfer"
		case decisionBulkApprove:
			title = fmt.Sprintf("Approve %d marked transfers", len(m.markedIDs()))
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *PendingModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))

	for _, tx := range m.txs {
		mark := ""
		if m.marked[tx.ID] {
			mark = "*"
		}

		rows = append(rows, table.Row{
			tx.ID,
			FormatDate(tx.CreatedAt),
			FormatAmount(tx.Amount),
			tx.SenderAccount,
			tx.RecipientName,
			tx.RecipientBank,
			mark,
		})
	}

	m.table.SetRows(rows)
}

// pruneMarks drops marks for transfers that left the queue.
func (m *PendingModel) pruneMarks() {
	current := make(map[string]bool, len(m.txs))
	for _, tx := range m.txs {
		current[tx.ID] = true
	}

	for id := range m.marked {
		if !current[id] {
			delete(m.marked, id)
		}
	}
}

func (m PendingModel) markedIDs() []string {
	ids := make([]string, 0, len(m.marked))

	for _, tx := range m.txs {
		if m.marked[tx.ID] {
			ids = append(ids, tx.ID)
		}
	}

	return ids
}

// Messages

type loadPendingMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m PendingModel) loadPendingCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, transaction.ListFilter{
			Status: new(transaction.StatusWaitingAdminApproval),
		})
		return loadPendingMsg{txs: txs, err: err}
	}
}

type decisionDoneMsg struct {
	summary string
	err     error
}

func (m PendingModel) decideCmd() tea.Cmd {
	decision := m.decision
	notes := strings.TrimSpace(m.formNotes)
	ids := m.markedIDs()

	var targetID string
	if decision != decisionBulkApprove {
		idx := m.table.Cursor()
		if idx < 0 || idx >= len(m.txs) {
			return nil
		}
		targetID = m.txs[idx].ID
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		switch decision {
		case decisionApprove:
			_, err := m.txService.Approve(ctx, targetID, m.adminID, notes)
			if err != nil {
				return decisionDoneMsg{err: err}
			}
			return decisionDoneMsg{summary: fmt.Sprintf("Approved %s", targetID)}
		case decisionReject:
			_, err := m.txService.Reject(ctx, targetID, m.adminID, notes)
			if err != nil {
				return decisionDoneMsg{err: err}
			}
			return decisionDoneMsg{summary: fmt.Sprintf("Rejected %s", targetID)}
		case decisionBulkApprove:
			approved, err := m.txService.BulkApprove(ctx, ids, m.adminID, notes)
			if err != nil {
				return decisionDoneMsg{err: err}
			}
			return decisionDoneMsg{summary: fmt.Sprintf("Approved %d of %d marked", approved, len(ids))}
		}

		return decisionDoneMsg{}
	}
}
