package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"courseforge/internal/api"
	"courseforge/internal/config"
	"courseforge/internal/engine"
	"courseforge/internal/logging"
)

type App struct {
	ConfigPath string
	APIBaseURL string
	Token      string
	LogMode    string
	Format     string
	PrettyJSON bool
	Timeout    time.Duration
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "courseforge",
		Short:        "Course outline authoring CLI",
		SilenceUsage: true,
		Example: `
  # Print a course outline
  courseforge outline crs-101

  # Generate lessons for quests that have none
  courseforge generate lessons crs-101

  # Publish a draft course
  courseforge publish crs-101`,
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "config file (default ~/.config/courseforge/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.APIBaseURL, "api-url", "", "course service base URL")
	cmd.PersistentFlags().StringVar(&app.Token, "token", "", "bearer token for the course service")
	cmd.PersistentFlags().StringVar(&app.LogMode, "log-mode", "", "log mode: dev (default) or prod")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "tree", "output format: tree or json")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "pretty-print JSON output")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 0, "per-request timeout")

	cmd.AddCommand(newOutlineCmd(app))
	cmd.AddCommand(newQuestCmd(app))
	cmd.AddCommand(newGenerateCmd(app))
	cmd.AddCommand(newPublishCmd(app))

	return cmd
}

// newEngine builds a fully wired engine from the resolved config. The
// returned cleanup flushes logs and disposes the session.
func (app *App) newEngine() (*engine.Engine, func(), error) {
	cfg, err := config.Load(app.ConfigPath, config.Config{
		BaseURL: app.APIBaseURL,
		Token:   app.Token,
		LogMode: app.LogMode,
		Timeout: app.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	log, err := logging.New(cfg.LogMode)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	client, err := api.New(log, api.Config{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(engine.Config{Logger: log, API: client})
	cleanup := func() {
		eng.Dispose()
		log.Sync()
	}
	return eng, cleanup, nil
}
