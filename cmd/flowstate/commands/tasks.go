package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/sandeepkv93/flowstate/internal/model"
	"github.com/sandeepkv93/flowstate/internal/nlp"
	"github.com/sandeepkv93/flowstate/internal/progress"
	"github.com/sandeepkv93/flowstate/internal/tasks"
	"github.com/sandeepkv93/flowstate/internal/workspace"
)

// NewAddCommand returns the add subcommand.
func NewAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a task; dates like \"tomorrow\" and markers like !high are understood",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "due", Aliases: []string{"d"}, Usage: "Due date phrase (today, friday, in 3 days)"},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "low, medium, high or urgent"},
			&cli.StringFlag{Name: "project", Usage: "Project name"},
			&cli.StringSliceFlag{Name: "label", Aliases: []string{"l"}, Usage: "Label name (repeatable)"},
			&cli.StringFlag{Name: "description", Usage: "Markdown description"},
		},
		Action: runAdd,
	}
}

func runAdd(ctx context.Context, cmd *cli.Command) error {
	text := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if text == "" {
		return errors.New("usage: flowstate add <text>")
	}
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	defaults := tasks.NewTask{Description: cmd.String("description")}
	if v := cmd.String("priority"); v != "" {
		p, err := model.ParsePriority(v)
		if err != nil {
			return err
		}
		defaults.Priority = p
	}
	if v := cmd.String("due"); v != "" {
		due, ok := nlp.ParseDate(v, s.ws.Now())
		if !ok {
			return fmt.Errorf("unrecognized due date %q", v)
		}
		defaults.DueAt = &due
	}
	if v := cmd.String("project"); v != "" {
		p, ok := s.ws.Tasks.ProjectByName(v)
		if !ok {
			return fmt.Errorf("unknown project %q", v)
		}
		defaults.ProjectID = p.ID
	}
	for _, name := range cmd.StringSlice("label") {
		l, ok := s.ws.Tasks.LabelByName(name)
		if !ok {
			return fmt.Errorf("unknown label %q", name)
		}
		defaults.Labels = append(defaults.Labels, l.ID)
	}

	task, err := s.ws.AddFromText(ctx, text, defaults)
	if err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "added %s %s\n", task.ID, describe(task))
	return nil
}

// NewListCommand returns the list subcommand.
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List tasks grouped by due date",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Include completed tasks"},
			&cli.StringFlag{Name: "project", Usage: "Project name, or today / inbox"},
			&cli.StringFlag{Name: "label", Usage: "Label name"},
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Substring of title or description"},
		},
		Action: runList,
	}
}

func runList(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	// Filters here are for this listing only and are never persisted.
	store := s.ws.Tasks
	store.ClearFilters()
	store.SetShowCompleted(cmd.Bool("all"))
	store.SetSearchQuery(cmd.String("search"))
	if v := cmd.String("project"); v != "" {
		switch strings.ToLower(v) {
		case tasks.FilterToday, model.InboxProjectID:
			store.SetProjectFilter(strings.ToLower(v))
		default:
			p, ok := store.ProjectByName(v)
			if !ok {
				return fmt.Errorf("unknown project %q", v)
			}
			store.SetProjectFilter(p.ID)
		}
	}
	if v := cmd.String("label"); v != "" {
		l, ok := store.LabelByName(v)
		if !ok {
			return fmt.Errorf("unknown label %q", v)
		}
		store.SetLabelFilter(l.ID)
	}

	now := s.ws.Now()
	sections := store.Query(now).Sections()
	w := out(cmd)
	if len(sections) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, sec := range sections {
		fmt.Fprintf(tw, "%s (%d)\n", sec.Bucket, len(sec.Tasks))
		for _, t := range sec.Tasks {
			box := "[ ]"
			if t.Completed {
				box = "[x]"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", box, t.ID, t.Priority, t.Title, dueLabel(t.DueAt))
		}
	}
	return tw.Flush()
}

// NewNextCommand returns the next subcommand.
func NewNextCommand() *cli.Command {
	return &cli.Command{
		Name:   "next",
		Usage:  "Show the task to work on next",
		Action: runNext,
	}
}

func runNext(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	t, ok := s.ws.Tasks.NextTask()
	if !ok {
		fmt.Fprintln(out(cmd), "Nothing to do.")
		return nil
	}
	fmt.Fprintf(out(cmd), "%s %s\n", t.ID, describe(t))
	return nil
}

// NewDoneCommand returns the done subcommand.
func NewDoneCommand() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Toggle a task complete by id or id prefix",
		ArgsUsage: "<task_id>",
		Action:    runDone,
	}
}

func runDone(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return errors.New("usage: flowstate done <task_id>")
	}
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := s.ws.Tasks.FindByPrefix(id)
	if err != nil {
		return err
	}
	res, err := s.ws.ToggleComplete(ctx, t.ID)
	if err != nil {
		return err
	}
	printCompletion(cmd, res, s.ws)
	return nil
}

func printCompletion(cmd *cli.Command, res workspace.Completion, ws *workspace.Workspace) {
	w := out(cmd)
	if !res.Completed {
		fmt.Fprintf(w, "reopened %s\n", res.Task.Title)
		return
	}
	fmt.Fprintf(w, "completed %s (+%d xp)\n", res.Task.Title, res.Award.XP)
	printAward(w, *res.Award, ws.Progress.Catalog())
}

func printAward(w io.Writer, award progress.Award, catalog []model.Achievement) {
	if award.LeveledUp() {
		fmt.Fprintf(w, "level up! now level %d\n", award.LevelAfter)
	}
	for _, id := range award.Unlocked {
		for _, a := range catalog {
			if a.ID == id {
				fmt.Fprintf(w, "achievement unlocked: %s %s\n", a.Icon, a.Name)
			}
		}
	}
}

func describe(t model.Task) string {
	parts := []string{t.Title, "[" + string(t.Priority) + "]"}
	if t.DueAt != nil {
		parts = append(parts, "due "+dueLabel(t.DueAt))
	}
	return strings.Join(parts, " ")
}

func dueLabel(due *time.Time) string {
	if due == nil {
		return "-"
	}
	return due.Format("Mon Jan 2")
}
