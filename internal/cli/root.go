package cli

import (
	"github.com/spf13/cobra"

	"github.com/avendriel/accord/internal/orchestrator"
	"github.com/avendriel/accord/internal/service"
)

// App holds the services CLI commands run against.
type App struct {
	Templates    service.TemplateService
	Orchestrator *orchestrator.Orchestrator

	// IsInteractive reports whether stdin is an interactive terminal.
	// The wizard refuses to run without one.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "accord" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "accord",
		Short: "Create agreements and requests for quotation",
	}

	root.AddCommand(
		newNewCmd(app),
		newTemplateCmd(app),
	)

	return root
}
