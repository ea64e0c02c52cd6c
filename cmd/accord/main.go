package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/avendriel/accord/internal/backend"
	"github.com/avendriel/accord/internal/cli"
	"github.com/avendriel/accord/internal/db"
	"github.com/avendriel/accord/internal/orchestrator"
	"github.com/avendriel/accord/internal/repository"
	"github.com/avendriel/accord/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.accord/templates.db
	dbPath := os.Getenv("ACCORD_DB")
	if dbPath == "" {
		var err error
		dbPath, err = db.DefaultPath()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	cfg, err := backend.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var observer backend.Observer = backend.NoopObserver{}
	var flowObserver orchestrator.FlowObserver = orchestrator.NoopFlowObserver{}
	var useCaseObservers []service.UseCaseObserver
	if cfg.LogCalls {
		observer = backend.NewLogObserver(os.Stderr)
		flowObserver = orchestrator.NewLogFlowObserver(os.Stderr)
		useCaseObservers = append(useCaseObservers, service.NewLogUseCaseObserver(os.Stderr))
	}

	api := backend.NewHTTPClient(cfg, observer)
	templateRepo := repository.NewSQLiteTemplateRepo(database)

	app := &cli.App{
		Templates:    service.NewTemplateService(templateRepo, useCaseObservers...),
		Orchestrator: orchestrator.New(api, orchestrator.WithFlowObserver(flowObserver)),
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
