package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avendriel/accord/internal/cli/formatter"
	"github.com/avendriel/accord/internal/domain"
	"github.com/avendriel/accord/internal/orchestrator"
)

type checkoutKeyMap struct {
	Paid    key.Binding
	Abandon key.Binding
}

var checkoutKeys = checkoutKeyMap{
	Paid: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "payment completed"),
	),
	Abandon: key.NewBinding(
		key.WithKeys("esc", "q", "ctrl+c"),
		key.WithHelp("esc", "abandon checkout"),
	),
}

// checkoutModel is the terminal stand-in for the gateway checkout UI: it
// shows the open order and waits for the user to report how checkout
// ended in the browser.
type checkoutModel struct {
	spinner   spinner.Model
	handoff   *orchestrator.CheckoutHandoff
	confirmed bool
	abandoned bool
}

func newCheckoutModel(handoff *orchestrator.CheckoutHandoff) checkoutModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	return checkoutModel{spinner: sp, handoff: handoff}
}

func (m checkoutModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m checkoutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, checkoutKeys.Paid):
			m.confirmed = true
			return m, tea.Quit
		case key.Matches(msg, checkoutKeys.Abandon):
			m.abandoned = true
			return m, tea.Quit
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m checkoutModel) View() string {
	if m.confirmed || m.abandoned {
		return ""
	}
	var b string
	b += formatter.Header("Gateway Checkout") + "\n\n"
	b += fmt.Sprintf("  Order:   %s\n", formatter.Bold(m.handoff.OrderID))
	b += fmt.Sprintf("  Amount:  %s\n", domain.FormatMinor(m.handoff.AmountMinor, m.handoff.Currency))
	b += fmt.Sprintf("  Gateway: %s\n\n", formatter.Dim(m.handoff.GatewayKey))
	b += fmt.Sprintf("  %s Waiting for the gateway payment...\n\n", m.spinner.View())
	b += formatter.Dim("  enter: payment completed  •  esc: abandon") + "\n"
	return b
}

// runCheckout blocks until the user reports the checkout result. It
// returns true when the gateway payment was completed.
func runCheckout(handoff *orchestrator.CheckoutHandoff) (bool, error) {
	final, err := tea.NewProgram(newCheckoutModel(handoff)).Run()
	if err != nil {
		return false, fmt.Errorf("running checkout: %w", err)
	}
	m, ok := final.(checkoutModel)
	if !ok {
		return false, fmt.Errorf("unexpected checkout model type")
	}
	return m.confirmed, nil
}
