package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/usbankcorp/bankd/cmd/admin/internal/view"
	"github.com/usbankcorp/bankd/internal/account"
	"github.com/usbankcorp/bankd/internal/config"
	"github.com/usbankcorp/bankd/internal/database"
	"github.com/usbankcorp/bankd/internal/transaction"
	txStore "github.com/usbankcorp/bankd/internal/transaction/store"
)

type model struct {
	txService *transaction.Service
	adminID   string

	currentView View

	pendingView view.PendingModel
	ledgerView  view.LedgerModel
}

type View int

const (
	ViewMenu    View = 0
	ViewPending View = 1
	ViewLedger  View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Store != "postgres" {
		slog.Error("admin console needs the shared ledger", "hint", "set STORE=postgres")
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	accounts := account.NewFixed()

	adm, err := accounts.GetAdminByEmail(context.Background(), "admin@usbankcorp.com")
	if err != nil {
		slog.Error("failed to load administrator record", "error", err)
		os.Exit(1)
	}

	txOpts := []transaction.Option{transaction.WithMaxAttempts(cfg.Verification.MaxAttempts)}
	if cfg.Verification.Lockout {
		txOpts = append(txOpts, transaction.WithLockout())
	}

	txSvc := transaction.NewService(txStore.New(db), txOpts...)

	return model{
		txService:   txSvc,
		adminID:     adm.ID,
		currentView: ViewMenu,
		pendingView: view.NewPendingModel(txSvc, adm.ID),
		ledgerView:  view.NewLedgerModel(txSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewPending
				m.pendingView = view.NewPendingModel(m.txService, m.adminID)

				return m, m.pendingView.Init()
			case "2":
				m.currentView = ViewLedger
				m.ledgerView = view.NewLedgerModel(m.txService)

				return m, m.ledgerView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewPending:
		var newModel tea.Model
		newModel, cmd = m.pendingView.Update(msg)
		m.pendingView = newModel.(view.PendingModel)
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"USBankCorp Admin Console\n\n" +
				"1. Pending Approvals\n" +
				"2. Browse Ledger\n\n" +
				"q. Quit",
		)
	case ViewPending:
		return m.pendingView.View()
	case ViewLedger:
		return m.ledgerView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run admin console", "error", err)
		os.Exit(1)
	}
}
