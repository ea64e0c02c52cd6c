package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avendriel/accord/internal/cli/formatter"
	"github.com/avendriel/accord/internal/domain"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage saved draft templates",
	}

	cmd.AddCommand(
		newTemplateListCmd(app),
		newTemplateShowCmd(app),
		newTemplateDeleteCmd(app),
	)

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := app.Templates.List(context.Background())
			if err != nil {
				return err
			}

			if len(templates) == 0 {
				fmt.Println("No templates saved yet. Finish a draft with a template name to add one.")
				return nil
			}

			fmt.Print(formatter.RenderTemplates(templates))
			return nil
		},
	}
}

func newTemplateShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show template details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Templates.Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header("Template"))
			fmt.Printf("  Name:         %s\n", formatter.Bold(t.Name))
			fmt.Printf("  Type:         %s\n", string(t.Mode))
			if t.Classification != "" {
				fmt.Printf("  Relationship: %s\n", string(t.Classification))
			}
			if t.Acceptance != domain.AcceptanceUnset {
				fmt.Printf("  Acceptance:   %s\n", string(t.Acceptance))
			}
			if !t.Duration.IsZero() {
				fmt.Printf("  Duration:     %d %s\n", t.Duration.Value, t.Duration.Unit)
			}
			fmt.Printf("  Plan:         %s\n", string(t.PaymentPlan.Kind))
			fmt.Println()

			headers := []string{"Item", "Cycle", "Qty", "Amount"}
			rows := make([][]string, 0, len(t.LineItems))
			for _, li := range t.LineItems {
				rows = append(rows, []string{
					li.Description,
					string(li.Cycle),
					fmt.Sprintf("%d", li.Quantity),
					domain.FormatMinor(li.TermTotalMinor(), t.Currency),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func newTemplateDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Templates.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println(formatter.Success(fmt.Sprintf("deleted template %q", args[0])))
			return nil
		},
	}
}
