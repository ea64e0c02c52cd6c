package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/avendriel/accord/internal/cli/formatter"
	"github.com/avendriel/accord/internal/domain"
	"github.com/avendriel/accord/internal/projection"
	"github.com/avendriel/accord/internal/wizard"
)

// wizardRunner drives one interactive session: it renders the current
// step's form, writes the answers onto the draft, and lets the session
// decide whether the flow may move on.
type wizardRunner struct {
	app     *App
	session *wizard.Session
	out     io.Writer
}

func (r *wizardRunner) runStep(ctx context.Context) error {
	step := r.session.Current()
	fmt.Fprintf(r.out, "\n%s %s\n\n",
		formatter.Dim(fmt.Sprintf("[%d/%d]", r.session.Index()+1, len(r.session.Steps()))),
		formatter.Header(wizard.StepHeading(step, r.session.Draft())))

	switch step.ID {
	case wizard.StepPath:
		return r.pathStep(ctx)
	case wizard.StepNomenclature:
		return r.nomenclatureStep()
	case wizard.StepAcceptance:
		return r.acceptanceStep()
	case wizard.StepCounterparty:
		return r.counterpartyStep()
	case wizard.StepDetails:
		return r.detailsStep()
	case wizard.StepAssetSelection:
		return r.assetStep()
	case wizard.StepBillingCycle:
		return r.billingCycleStep()
	case wizard.StepLineItems:
		return r.lineItemsStep()
	case wizard.StepBillingView:
		return r.billingViewStep()
	case wizard.StepEvidencePolicy:
		return r.evidenceStep()
	case wizard.StepEventsPreview:
		return r.eventsPreviewStep()
	case wizard.StepReview:
		return r.reviewStep()
	default:
		return fmt.Errorf("unknown step %q", step.ID)
	}
}

// pathStep picks the document kind and the starting point. Choosing the
// template path opens the template sub-step immediately.
func (r *wizardRunner) pathStep(ctx context.Context) error {
	d := r.session.Draft()
	mode := string(d.Mode)
	path := string(d.Path)

	form := themedForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("What are you creating?").
			Options(
				huh.NewOption("Agreement", string(domain.ModeAgreement)),
				huh.NewOption("Request for quotation", string(domain.ModeRFQ)),
			).
			Value(&mode),
		huh.NewSelect[string]().
			Title("Starting point").
			Options(
				huh.NewOption("Start from scratch", string(domain.PathFromScratch)),
				huh.NewOption("Start from a template", string(domain.PathFromTemplate)),
			).
			Value(&path),
	))
	if err := form.Run(); err != nil {
		return err
	}

	r.session.SelectMode(domain.Mode(mode))
	if domain.Path(path) == domain.PathFromTemplate {
		r.session.RequireTemplatePick()
		return r.templatePickStep(ctx)
	}
	r.session.Draft().Path = domain.PathFromScratch
	return nil
}

// templatePickStep resolves the template sub-step: pick one or fall back
// to a scratch draft.
func (r *wizardRunner) templatePickStep(ctx context.Context) error {
	templates, err := r.app.Templates.List(ctx)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	if len(templates) == 0 {
		fmt.Fprintln(r.out, formatter.Dim("No saved templates yet; starting from scratch."))
		r.session.SkipTemplate()
		return nil
	}

	const skip = "(start from scratch instead)"
	options := []huh.Option[string]{huh.NewOption(skip, skip)}
	for _, t := range templates {
		options = append(options, huh.NewOption(t.Name, t.ID))
	}

	var choice string
	form := themedForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Template").Options(options...).Value(&choice),
	))
	if err := form.Run(); err != nil {
		return err
	}

	if choice == skip {
		r.session.SkipTemplate()
		return nil
	}
	tmpl, err := r.app.Templates.Get(ctx, choice)
	if err != nil {
		return fmt.Errorf("loading template: %w", err)
	}
	r.session.PickTemplate(tmpl.ID)
	r.app.Templates.ApplyToDraft(tmpl, r.session.Draft())
	fmt.Fprintln(r.out, formatter.Success(fmt.Sprintf("applied template %q", tmpl.Name)))
	return nil
}

func (r *wizardRunner) nomenclatureStep() error {
	d := r.session.Draft()
	return themedForm(huh.NewGroup(
		huh.NewInput().Title("Title").Value(&d.Title).Validate(validateRequired),
		huh.NewInput().Title("Internal reference (optional)").Value(&d.Reference),
	)).Run()
}

func (r *wizardRunner) acceptanceStep() error {
	d := r.session.Draft()
	acceptance := string(d.Acceptance)
	form := themedForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("How does the counterparty accept?").
			Options(
				huh.NewOption("Payment of the first invoice", string(domain.AcceptancePayment)),
				huh.NewOption("Written sign-off", string(domain.AcceptanceSignOff)),
				huh.NewOption("Automatic (collect payment now)", string(domain.AcceptanceAuto)),
			).
			Value(&acceptance),
	))
	if err := form.Run(); err != nil {
		return err
	}
	d.Acceptance = domain.AcceptanceMethod(acceptance)
	return nil
}

func (r *wizardRunner) counterpartyStep() error {
	d := r.session.Draft()
	if d.Mode == domain.ModeAgreement {
		var name string
		if d.Counterparty != nil {
			name = d.Counterparty.Name
		}
		form := themedForm(huh.NewGroup(
			huh.NewInput().Title("Counterparty name").Value(&name).Validate(validateRequired),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if d.Counterparty == nil {
			d.Counterparty = &domain.Party{ID: uuid.NewString()}
		}
		d.Counterparty.Name = strings.TrimSpace(name)
		return nil
	}

	// RFQ: collect as many parties as the user wants to canvas.
	for {
		var name string
		form := themedForm(huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Recipient %d (Enter to finish)", len(d.Counterparties)+1)).
				Value(&name),
		))
		if err := form.Run(); err != nil {
			return err
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil
		}
		d.Counterparties = append(d.Counterparties, domain.Party{ID: uuid.NewString(), Name: name})
	}
}

func (r *wizardRunner) detailsStep() error {
	d := r.session.Draft()
	classification := string(d.Classification)
	start := ""
	if !d.Timeline.Start.IsZero() {
		start = d.Timeline.Start.Format("2006-01-02")
	}
	durationValue := ""
	if d.Timeline.Duration.Value > 0 {
		durationValue = strconv.Itoa(d.Timeline.Duration.Value)
	}
	durationUnit := string(d.Timeline.Duration.Unit)
	if durationUnit == "" {
		durationUnit = string(domain.UnitMonths)
	}
	graceValue := ""
	if d.Timeline.Grace.Value > 0 {
		graceValue = strconv.Itoa(d.Timeline.Grace.Value)
	}
	currency := d.Currency

	form := themedForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Relationship").
			Options(
				huh.NewOption("Client", string(domain.ClassificationClient)),
				huh.NewOption("Vendor", string(domain.ClassificationVendor)),
				huh.NewOption("Partner", string(domain.ClassificationPartner)),
			).
			Value(&classification),
		huh.NewInput().Title("Start date").Placeholder("2026-04-01").Value(&start).Validate(validateDate),
		huh.NewInput().Title("Duration").Placeholder("6").Value(&durationValue).Validate(validatePositiveInt),
		huh.NewSelect[string]().
			Title("Duration unit").
			Options(
				huh.NewOption("days", string(domain.UnitDays)),
				huh.NewOption("weeks", string(domain.UnitWeeks)),
				huh.NewOption("months", string(domain.UnitMonths)),
				huh.NewOption("years", string(domain.UnitYears)),
			).
			Value(&durationUnit),
		huh.NewInput().Title("Grace period in days (optional)").Value(&graceValue).Validate(validateNonNegativeInt),
		huh.NewInput().Title("Currency").Value(&currency).Validate(validateRequired),
	))
	if err := form.Run(); err != nil {
		return err
	}

	d.Classification = domain.Classification(classification)
	d.Timeline.Start, _ = time.Parse("2006-01-02", start)
	d.Timeline.Duration = domain.TimeSpan{Value: atoiOr(durationValue, 0), Unit: domain.DurationUnit(durationUnit)}
	if g := atoiOr(graceValue, 0); g > 0 {
		d.Timeline.Grace = domain.TimeSpan{Value: g, Unit: domain.UnitDays}
	} else {
		d.Timeline.Grace = domain.TimeSpan{}
	}
	d.Currency = strings.ToUpper(strings.TrimSpace(currency))
	return nil
}

func (r *wizardRunner) assetStep() error {
	d := r.session.Draft()
	refs := strings.Join(d.Assets.AssetRefs, ", ")
	notes := d.Assets.Notes

	form := themedForm(huh.NewGroup(
		huh.NewInput().Title("Covered asset references (comma separated, optional)").Value(&refs),
		huh.NewInput().Title("Coverage notes (optional)").Value(&notes),
	))
	if err := form.Run(); err != nil {
		return err
	}

	d.Assets = domain.AssetCoverage{Notes: strings.TrimSpace(notes)}
	for _, ref := range strings.Split(refs, ",") {
		if ref = strings.TrimSpace(ref); ref != "" {
			d.Assets.AssetRefs = append(d.Assets.AssetRefs, ref)
		}
	}
	return nil
}

func (r *wizardRunner) billingCycleStep() error {
	d := r.session.Draft()
	cycle := string(d.BillingCycle)
	form := themedForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Billing arrangement").
			Options(
				huh.NewOption("Each block bills on its own cycle", string(domain.BillingPerBlock)),
				huh.NewOption("One unified cycle for the whole agreement", string(domain.BillingUnified)),
			).
			Value(&cycle),
	))
	if err := form.Run(); err != nil {
		return err
	}
	d.BillingCycle = domain.BillingCycleMode(cycle)
	return nil
}

func (r *wizardRunner) lineItemsStep() error {
	d := r.session.Draft()
	if len(d.LineItems) > 0 {
		fmt.Fprintf(r.out, "%s\n", formatter.Dim(fmt.Sprintf("%d block(s) on the draft.", len(d.LineItems))))
		var addMore bool
		if err := confirmForm("Add another block?", &addMore).Run(); err != nil {
			return err
		}
		if !addMore {
			d.RecomputeTotals()
			return nil
		}
	}

	for {
		li, err := r.collectLineItem()
		if err != nil {
			return err
		}
		d.LineItems = append(d.LineItems, *li)
		d.RecomputeTotals()

		var again bool
		if err := confirmForm("Add another block?", &again).Run(); err != nil {
			return err
		}
		if !again {
			return r.taxStep()
		}
	}
}

func (r *wizardRunner) collectLineItem() (*domain.LineItem, error) {
	var description, blockRef, price, qty string
	cycle := string(domain.CycleMonthly)
	qty = "1"

	form := themedForm(huh.NewGroup(
		huh.NewInput().Title("Description").Value(&description).Validate(validateRequired),
		huh.NewInput().Title("Catalog block reference (blank for ad-hoc)").Value(&blockRef),
		huh.NewInput().Title("Price for the term").Placeholder("1200.00").Value(&price).Validate(validateMoney),
		huh.NewInput().Title("Quantity").Value(&qty).Validate(validatePositiveInt),
		huh.NewSelect[string]().
			Title("Billing cycle").
			Options(
				huh.NewOption("one-time", string(domain.CycleOnce)),
				huh.NewOption("monthly", string(domain.CycleMonthly)),
				huh.NewOption("quarterly", string(domain.CycleQuarterly)),
				huh.NewOption("yearly", string(domain.CycleYearly)),
			).
			Value(&cycle),
	))
	if err := form.Run(); err != nil {
		return nil, err
	}

	priceMinor, _ := parseMoneyMinor(price)
	blockRef = strings.TrimSpace(blockRef)
	return &domain.LineItem{
		ID:             uuid.NewString(),
		BlockRef:       blockRef,
		Description:    strings.TrimSpace(description),
		UnitPriceMinor: priceMinor,
		Quantity:       atoiOr(qty, 1),
		Cycle:          domain.ItemCycle(cycle),
		AdHoc:          blockRef == "",
	}, nil
}

// taxStep collects tax rates after the line items are in.
func (r *wizardRunner) taxStep() error {
	d := r.session.Draft()
	for {
		var code, rate string
		form := themedForm(huh.NewGroup(
			huh.NewInput().Title("Tax code (Enter to finish)").Placeholder("VAT").Value(&code),
			huh.NewInput().Title("Rate in basis points").Placeholder("2000").Value(&rate).Validate(validateNonNegativeInt),
		))
		if err := form.Run(); err != nil {
			return err
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			d.RecomputeTotals()
			return nil
		}
		d.TaxRates = append(d.TaxRates, domain.TaxRate{Code: code, RateBps: atoiOr(rate, 0)})
		d.RecomputeTotals()
	}
}

func (r *wizardRunner) billingViewStep() error {
	d := r.session.Draft()
	fmt.Fprintf(r.out, "  Grand total: %s\n\n", formatter.Bold(domain.FormatMinor(d.Totals.GrandTotalMinor, d.Currency)))

	kind := string(d.PaymentPlan.Kind)
	form := themedForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Payment plan").
			Options(
				huh.NewOption("Everything upfront", string(domain.PlanUpfront)),
				huh.NewOption("Fixed installments", string(domain.PlanInstallments)),
				huh.NewOption("As billing falls due", string(domain.PlanAsDefined)),
			).
			Value(&kind),
	))
	if err := form.Run(); err != nil {
		return err
	}

	plan := domain.PaymentPlan{Kind: domain.PaymentPlanKind(kind)}
	if plan.Kind == domain.PlanInstallments {
		count := "6"
		if d.PaymentPlan.Installments > 1 {
			count = strconv.Itoa(d.PaymentPlan.Installments)
		}
		form := themedForm(huh.NewGroup(
			huh.NewInput().Title("Number of installments").Value(&count).Validate(validatePositiveInt),
		))
		if err := form.Run(); err != nil {
			return err
		}
		plan.Installments = atoiOr(count, 2)
	} else {
		plan.PerItem = d.PaymentPlan.PerItem
	}
	d.PaymentPlan = plan
	return nil
}

func (r *wizardRunner) evidenceStep() error {
	d := r.session.Draft()
	required := d.Evidence.Required
	if err := confirmForm("Require delivery evidence?", &required).Run(); err != nil {
		return err
	}
	d.Evidence.Required = required
	if !required {
		d.Evidence.Kinds = nil
		return nil
	}

	kinds := d.Evidence.Kinds
	notes := d.Evidence.Notes
	form := themedForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Accepted evidence").
			Options(
				huh.NewOption("Photo", "photo"),
				huh.NewOption("Document", "document"),
				huh.NewOption("Counterparty confirmation", "confirmation"),
			).
			Value(&kinds),
		huh.NewInput().Title("Notes (optional)").Value(&notes),
	))
	if err := form.Run(); err != nil {
		return err
	}
	d.Evidence.Kinds = kinds
	d.Evidence.Notes = strings.TrimSpace(notes)
	return nil
}

// eventsPreviewStep shows the projected schedule and lets the user move
// individual event dates.
func (r *wizardRunner) eventsPreviewStep() error {
	d := r.session.Draft()
	for {
		events := projection.ApplyOverrides(
			projection.Project(d.Timeline, d.LineItems, d.PaymentPlan, d.BillingCycle),
			d.EventOverrides,
		)
		if len(events) == 0 {
			fmt.Fprintln(r.out, formatter.Dim("No schedule to preview."))
			return nil
		}
		fmt.Fprint(r.out, formatter.RenderEvents(events, d.EventOverrides, d.Currency))

		var adjust bool
		if err := confirmForm("Move an event date?", &adjust).Run(); err != nil {
			return err
		}
		if !adjust {
			return nil
		}

		options := make([]huh.Option[string], 0, len(events))
		for _, ev := range events {
			label := fmt.Sprintf("%s %s (%s)", ev.Date.Format("2006-01-02"), ev.Kind, ev.ID)
			options = append(options, huh.NewOption(label, ev.ID))
		}
		var eventID, newDate string
		form := themedForm(huh.NewGroup(
			huh.NewSelect[string]().Title("Event").Options(options...).Value(&eventID),
			huh.NewInput().Title("New date").Placeholder("2026-04-15").Value(&newDate).Validate(validateDate),
		))
		if err := form.Run(); err != nil {
			return err
		}
		date, _ := time.Parse("2006-01-02", newDate)
		d.EventOverrides[eventID] = date
	}
}

// reviewStep renders the summary and collects the final go/no-go, plus
// an optional template save.
func (r *wizardRunner) reviewStep() error {
	d := r.session.Draft()
	fmt.Fprintln(r.out, formatter.RenderDraftSummary(d))

	var saveName string
	var submit bool
	form := themedForm(huh.NewGroup(
		huh.NewInput().Title("Save as template (blank to skip)").Value(&saveName),
		huh.NewConfirm().Title(submitLabel(d.Mode)).Affirmative("Yes").Negative("Not yet").Value(&submit),
	))
	if err := form.Run(); err != nil {
		return err
	}

	if name := strings.TrimSpace(saveName); name != "" {
		if _, err := r.app.Templates.SaveFromDraft(context.Background(), name, d); err != nil {
			fmt.Fprintln(r.out, formatter.Warn(fmt.Sprintf("template not saved: %v", err)))
		} else {
			fmt.Fprintln(r.out, formatter.Success(fmt.Sprintf("saved template %q", name)))
		}
	}
	if !submit {
		return errReviewDeclined
	}
	return nil
}

func submitLabel(m domain.Mode) string {
	if m == domain.ModeRFQ {
		return "Send to recipients?"
	}
	return "Issue this agreement?"
}
