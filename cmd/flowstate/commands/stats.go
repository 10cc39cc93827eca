package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

// NewStatsCommand returns the stats subcommand.
func NewStatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show level, streak and achievements",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "achievements", Aliases: []string{"a"}, Usage: "List every achievement"},
		},
		Action: runStats,
	}
}

func runStats(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	eng := s.ws.Progress
	eng.CheckStreak()
	st := eng.State()
	counts := s.ws.Tasks.Counts(s.ws.Now())

	w := out(cmd)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Level\t%d\n", st.Level)
	fmt.Fprintf(tw, "XP\t%d (%d to next level, %.0f%%)\n", st.XP, eng.XPForNextLevel(), eng.LevelProgress()*100)
	fmt.Fprintf(tw, "Streak\t%d days\n", st.Streak)
	fmt.Fprintf(tw, "Today\t%d/%d tasks\n", st.TasksCompletedToday, s.cfg.DailyGoal)
	fmt.Fprintf(tw, "Completed\t%d tasks, %d focus sessions (%d min)\n", st.TotalTasksCompleted, st.FocusSessionsCompleted, st.TotalFocusMinutes)
	fmt.Fprintf(tw, "Open\t%d (%d in inbox, %d due today)\n", counts.Open, counts.Inbox, counts.DueToday)
	fmt.Fprintf(tw, "Completion rate\t%d%%\n", counts.CompletionRate)

	all := eng.Achievements()
	unlocked := 0
	for _, a := range all {
		if a.Unlocked {
			unlocked++
		}
	}
	fmt.Fprintf(tw, "Achievements\t%d/%d\n", unlocked, len(all))
	if cmd.Bool("achievements") {
		for _, a := range all {
			mark := "  "
			if a.Unlocked {
				mark = a.Icon
			}
			fmt.Fprintf(tw, "  %s %s\t%s\t%d/%d\n", mark, a.Name, a.Description, min(a.Current, a.Requirement), a.Requirement)
		}
	}
	return tw.Flush()
}
