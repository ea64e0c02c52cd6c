package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/avendriel/accord/internal/domain"
	"github.com/avendriel/accord/internal/orchestrator"
	"github.com/avendriel/accord/internal/projection"
)

const dateLayout = "2006-01-02"

// RenderDraftSummary renders the review-step view of a draft: parties,
// term, line items, and totals.
func RenderDraftSummary(d *domain.Draft) string {
	var b strings.Builder

	b.WriteString(Header("Review"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Title:          %s\n", Bold(d.Title))
	if d.Reference != "" {
		fmt.Fprintf(&b, "  Reference:      %s\n", d.Reference)
	}
	fmt.Fprintf(&b, "  Type:           %s\n", modeLabel(d.Mode))
	fmt.Fprintf(&b, "  Classification: %s\n", string(d.Classification))
	if d.Acceptance != domain.AcceptanceUnset {
		fmt.Fprintf(&b, "  Acceptance:     %s\n", string(d.Acceptance))
	}
	fmt.Fprintf(&b, "  Counterparty:   %s\n", partyList(d))
	fmt.Fprintf(&b, "  Term:           %s for %d %s\n",
		d.Timeline.Start.Format(dateLayout), d.Timeline.Duration.Value, d.Timeline.Duration.Unit)
	if !d.Timeline.Grace.IsZero() {
		fmt.Fprintf(&b, "  Grace:          %d %s\n", d.Timeline.Grace.Value, d.Timeline.Grace.Unit)
	}
	b.WriteString("\n")

	headers := []string{"Item", "Cycle", "Qty", "Amount"}
	rows := make([][]string, 0, len(d.LineItems))
	for _, li := range d.LineItems {
		rows = append(rows, []string{
			li.Description,
			string(li.Cycle),
			fmt.Sprintf("%d", li.Quantity),
			domain.FormatMinor(li.TermTotalMinor(), d.Currency),
		})
	}
	b.WriteString(RenderTable(headers, rows))
	b.WriteString("\n")

	fmt.Fprintf(&b, "  Subtotal:    %s\n", domain.FormatMinor(d.Totals.SubtotalMinor, d.Currency))
	for _, tax := range d.Totals.TaxBreakdown {
		fmt.Fprintf(&b, "  %-11s  %s\n", tax.Code+":", domain.FormatMinor(tax.AmountMinor, d.Currency))
	}
	fmt.Fprintf(&b, "  Grand total: %s\n", Bold(domain.FormatMinor(d.Totals.GrandTotalMinor, d.Currency)))
	return b.String()
}

// RenderEvents renders the projected schedule as a table, marking
// user-overridden dates.
func RenderEvents(events []projection.Event, overrides map[string]time.Time, currency string) string {
	headers := []string{"Date", "Kind", "Block", "Seq", "Amount"}
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		date := ev.Date.Format(dateLayout)
		if _, moved := overrides[ev.ID]; moved {
			date = StyleYellow.Render(date + " *")
		}
		block := ev.BlockRef
		if block == "" {
			block = Dim("(all)")
		}
		amount := ""
		if ev.Kind == domain.EventBilling {
			amount = domain.FormatMinor(ev.AmountMinor, currency)
		}
		rows = append(rows, []string{
			date,
			string(ev.Kind),
			block,
			fmt.Sprintf("%d/%d", ev.Seq, ev.Total),
			amount,
		})
	}
	return RenderTable(headers, rows)
}

// RenderOutcome renders the completion result: the created entity,
// payment state, and any warnings.
func RenderOutcome(out *orchestrator.Outcome, mode domain.Mode) string {
	var b strings.Builder

	b.WriteString(Success(fmt.Sprintf("%s created", modeLabel(mode))))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  Reference:  %s\n", Bold(out.Entity.ReferenceNumber))
	fmt.Fprintf(&b, "  Status:     %s\n", statusStyle(out.Entity.Status).Render(string(out.Entity.Status)))
	if out.Entity.GrandTotal > 0 {
		fmt.Fprintf(&b, "  Total:      %s\n", domain.FormatMinor(out.Entity.GrandTotal, out.Entity.Currency))
	}
	if out.Entity.AccessKey != "" {
		fmt.Fprintf(&b, "  Access key: %s\n", Dim(out.Entity.AccessKey))
	}

	if out.Payment != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  Payment:    %s\n", paymentStyle(out.Payment.Status).Render(string(out.Payment.Status)))
		if out.Payment.Receipt != nil {
			fmt.Fprintf(&b, "  Receipt:    %s (%s)\n",
				out.Payment.Receipt.ReceiptNumber,
				domain.FormatMinor(out.Payment.Receipt.Amount, out.Payment.Receipt.Currency))
		}
		if out.Payment.OrderID != "" {
			fmt.Fprintf(&b, "  Order:      %s\n", Dim(out.Payment.OrderID))
		}
	}

	if len(out.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range out.Warnings {
			fmt.Fprintf(&b, "  %s\n", Warn(fmt.Sprintf("%s: %s", w.Code, w.Detail)))
		}
	}
	return b.String()
}

// RenderTemplates renders the saved template list.
func RenderTemplates(templates []*domain.Template) string {
	headers := []string{"Name", "Type", "Items", "Duration", "Currency"}
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		duration := ""
		if !t.Duration.IsZero() {
			duration = fmt.Sprintf("%d %s", t.Duration.Value, t.Duration.Unit)
		}
		rows = append(rows, []string{
			t.Name,
			modeLabel(t.Mode),
			fmt.Sprintf("%d", len(t.LineItems)),
			duration,
			t.Currency,
		})
	}
	return RenderTable(headers, rows)
}

func modeLabel(m domain.Mode) string {
	if m == domain.ModeRFQ {
		return "Request for quotation"
	}
	return "Agreement"
}

func partyList(d *domain.Draft) string {
	if d.Counterparty != nil {
		return d.Counterparty.Name
	}
	names := make([]string, 0, len(d.Counterparties))
	for _, p := range d.Counterparties {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

func statusStyle(s domain.EntityStatus) lipgloss.Style {
	switch s {
	case domain.StatusPendingAcceptance, domain.StatusSent:
		return StyleGreen
	case domain.StatusActive:
		return StyleBlue
	default:
		return StyleYellow
	}
}

func paymentStyle(s orchestrator.PaymentStatus) lipgloss.Style {
	switch s {
	case orchestrator.PaymentRecorded, orchestrator.PaymentVerified:
		return StyleGreen
	case orchestrator.PaymentPending:
		return StyleYellow
	case orchestrator.PaymentSkipped:
		return StyleDim
	default:
		return StyleRed
	}
}
