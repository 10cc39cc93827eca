package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/sandeepkv93/flowstate/internal/scheduler"
	"github.com/sandeepkv93/flowstate/internal/update"
)

func runTUI(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.cfg.ShowCompleted && !s.ws.Tasks.Filter().ShowCompleted {
		if err := s.ws.SetShowCompleted(ctx, true); err != nil {
			return err
		}
	}

	model := update.NewModel(ctx, s.ws, s.cfg).WithLogger(s.log)
	if s.cfg.DueAlerts {
		engine := scheduler.NewEngine(s.cfg.SchedulerBuffer)
		engine.Start()
		defer func() {
			engine.Stop()
			if n := engine.Dropped(); n > 0 {
				s.log.Warn("due alerts dropped", "count", n)
			}
		}()
		model = model.WithScheduler(engine)
	}

	s.log.Info("tui started")
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	s.log.Info("tui stopped")
	return nil
}
