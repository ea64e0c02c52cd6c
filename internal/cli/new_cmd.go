package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/avendriel/accord/internal/cli/formatter"
	"github.com/avendriel/accord/internal/domain"
	"github.com/avendriel/accord/internal/orchestrator"
	"github.com/avendriel/accord/internal/wizard"
)

// errReviewDeclined signals that the user answered "not yet" on the
// review step; the wizard stays open on review.
var errReviewDeclined = errors.New("review declined")

func newNewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create an agreement or request for quotation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("'accord new' needs an interactive terminal")
			}
			return runWizard(cmd.Context(), app)
		},
	}
}

func runWizard(ctx context.Context, app *App) error {
	session := wizard.NewSession()
	runner := &wizardRunner{app: app, session: session, out: os.Stdout}

	for {
		err := runner.runStep(ctx)
		switch {
		case errors.Is(err, huh.ErrUserAborted):
			fmt.Println(formatter.Dim("Draft discarded."))
			return nil
		case errors.Is(err, errReviewDeclined):
			continue
		case err != nil:
			return err
		}

		result := session.Advance()
		switch result.Status {
		case wizard.Blocked:
			fmt.Println(formatter.Warn(result.Detail))
		case wizard.ReadyToComplete:
			done, err := complete(ctx, app, session)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			// A failed submission drops back to review with the draft
			// intact.
		}
	}
}

// complete hands the session to the completion pipeline. It reports
// false when creation failed and the wizard should stay open.
func complete(ctx context.Context, app *App, session *wizard.Session) (bool, error) {
	var out *orchestrator.Outcome
	var err error

	if session.Draft().Acceptance == domain.AcceptanceAuto {
		out, err = runPaymentFlow(ctx, app, session)
	} else {
		out, err = app.Orchestrator.Complete(ctx, session)
	}

	if err != nil {
		fmt.Println(formatter.StyleRed.Render(fmt.Sprintf("✘ %v", err)))
		fmt.Println(formatter.Dim("Nothing was created; the draft is unchanged."))
		return false, nil
	}
	if out == nil {
		// The user backed out of the payment menu before anything was
		// submitted.
		return false, nil
	}

	fmt.Println()
	fmt.Println(formatter.RenderOutcome(out, session.Mode()))
	return true, nil
}

// runPaymentFlow drives the automatic-acceptance completion: the entity
// is created inside the flow and a payment is skipped, recorded, or
// collected online.
func runPaymentFlow(ctx context.Context, app *App, session *wizard.Session) (*orchestrator.Outcome, error) {
	flow, err := app.Orchestrator.BeginPayment(session)
	if err != nil {
		return nil, err
	}

	const (
		choiceOffline = "offline"
		choiceOnline  = "online"
		choiceSkip    = "skip"
		choiceBack    = "back"
	)
	choice := choiceOffline
	form := themedForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(fmt.Sprintf("Collect %s now?", domain.FormatMinor(flow.SuggestedAmountMinor, flow.Currency))).
			Options(
				huh.NewOption("Record an offline payment", choiceOffline),
				huh.NewOption("Pay online via the gateway", choiceOnline),
				huh.NewOption("Skip payment for now", choiceSkip),
				huh.NewOption("Back to review", choiceBack),
			).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			choice = choiceBack
		} else {
			return nil, err
		}
	}

	switch choice {
	case choiceSkip:
		return flow.Skip(ctx)
	case choiceOffline:
		payment, err := collectOfflinePayment(flow)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return flow.Skip(ctx)
			}
			return nil, err
		}
		return flow.RecordOffline(ctx, *payment)
	case choiceOnline:
		return runOnlinePayment(ctx, flow)
	default:
		// Nothing was submitted yet; release the guard and let the
		// wizard stay on review.
		flow.OnAbandoned()
		return nil, nil
	}
}

func collectOfflinePayment(flow *orchestrator.PaymentFlow) (*orchestrator.OfflinePayment, error) {
	amount := fmt.Sprintf("%d.%02d", flow.SuggestedAmountMinor/100, flow.SuggestedAmountMinor%100)
	method := "bank_transfer"
	date := time.Now().Format("2006-01-02")
	var reference, notes string

	form := themedForm(huh.NewGroup(
		huh.NewInput().Title("Amount").Value(&amount).Validate(validateMoney),
		huh.NewSelect[string]().
			Title("Method").
			Options(
				huh.NewOption("Bank transfer", "bank_transfer"),
				huh.NewOption("Cash", "cash"),
				huh.NewOption("Cheque", "cheque"),
				huh.NewOption("Card", "card"),
				huh.NewOption("UPI", "upi"),
				huh.NewOption("Other", "other"),
			).
			Value(&method),
		huh.NewInput().Title("Payment date").Value(&date).Validate(validateDate),
		huh.NewInput().Title("Reference (optional)").Value(&reference),
		huh.NewInput().Title("Notes (optional)").Value(&notes),
	))
	if err := form.Run(); err != nil {
		return nil, err
	}

	amountMinor, _ := parseMoneyMinor(amount)
	paidOn, _ := time.Parse("2006-01-02", date)
	return &orchestrator.OfflinePayment{
		AmountMinor: amountMinor,
		Method:      method,
		Date:        paidOn,
		Reference:   reference,
		Notes:       notes,
	}, nil
}

func runOnlinePayment(ctx context.Context, flow *orchestrator.PaymentFlow) (*orchestrator.Outcome, error) {
	handoff, early, err := flow.StartOnline(ctx)
	if err != nil {
		return nil, err
	}
	if early != nil {
		// The order could not be opened; the entity still exists.
		return early, nil
	}

	paid, err := runCheckout(handoff)
	if err != nil {
		return flow.OnAbandoned(), nil
	}
	if !paid {
		return flow.OnAbandoned(), nil
	}

	var paymentID, signature string
	form := themedForm(huh.NewGroup(
		huh.NewInput().Title("Gateway payment ID").Value(&paymentID).Validate(validateRequired),
		huh.NewInput().Title("Gateway signature").Value(&signature).Validate(validateRequired),
	))
	if err := form.Run(); err != nil {
		return flow.OnAbandoned(), nil
	}

	return flow.OnVerified(ctx, orchestrator.GatewayCallback{
		PaymentID: paymentID,
		Signature: signature,
	}), nil
}
