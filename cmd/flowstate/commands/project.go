package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/sandeepkv93/flowstate/internal/model"
	"github.com/sandeepkv93/flowstate/internal/tasks"
)

// NewProjectCommand returns the project subcommand group.
func NewProjectCommand() *cli.Command {
	return &cli.Command{
		Name:  "project",
		Usage: "Manage projects",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List projects with open task counts",
				Action: runProjectList,
			},
			{
				Name:      "add",
				Usage:     "Create a project",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "color", Value: "#7aa2f7", Usage: "Hex color"},
					&cli.StringFlag{Name: "icon", Value: "📁", Usage: "Icon"},
				},
				Action: runProjectAdd,
			},
			{
				Name:      "rm",
				Usage:     "Delete a project; its tasks move to the inbox",
				ArgsUsage: "<name>",
				Action:    runProjectRemove,
			},
		},
	}
}

func runProjectList(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	counts := s.ws.Tasks.Counts(s.ws.Now())
	tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tOPEN")
	for _, p := range s.ws.Tasks.Projects() {
		n := counts.ByProject[p.ID]
		if p.ID == model.InboxProjectID {
			n = counts.Inbox
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%d\n", p.ID, p.Icon, p.Name, n)
	}
	return tw.Flush()
}

func runProjectAdd(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if name == "" {
		return errors.New("usage: flowstate project add <name>")
	}
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, ok := s.ws.Tasks.ProjectByName(name); ok {
		return fmt.Errorf("project %q already exists", name)
	}
	p, err := s.ws.AddProject(ctx, tasks.NewProject{Name: name, Color: cmd.String("color"), Icon: cmd.String("icon")})
	if err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "created project %s (%s)\n", p.Name, p.ID)
	return nil
}

func runProjectRemove(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if name == "" {
		return errors.New("usage: flowstate project rm <name>")
	}
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	p, ok := s.ws.Tasks.ProjectByName(name)
	if !ok {
		return fmt.Errorf("unknown project %q", name)
	}
	if err := s.ws.DeleteProject(ctx, p.ID); err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "deleted project %s\n", p.Name)
	return nil
}

// NewLabelCommand returns the label subcommand group.
func NewLabelCommand() *cli.Command {
	return &cli.Command{
		Name:  "label",
		Usage: "Manage labels",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List labels",
				Action: runLabelList,
			},
			{
				Name:      "add",
				Usage:     "Create a label",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "color", Value: "#bb9af7", Usage: "Hex color"},
				},
				Action: runLabelAdd,
			},
			{
				Name:      "rm",
				Usage:     "Delete a label and detach it from tasks",
				ArgsUsage: "<name>",
				Action:    runLabelRemove,
			},
		},
	}
}

func runLabelList(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	labels := s.ws.Tasks.Labels()
	if len(labels) == 0 {
		fmt.Fprintln(out(cmd), "No labels.")
		return nil
	}
	tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOLOR")
	for _, l := range labels {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.ID, l.Name, l.Color)
	}
	return tw.Flush()
}

func runLabelAdd(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.Args().First())
	if name == "" {
		return errors.New("usage: flowstate label add <name>")
	}
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, ok := s.ws.Tasks.LabelByName(name); ok {
		return fmt.Errorf("label %q already exists", name)
	}
	l, err := s.ws.AddLabel(ctx, tasks.NewLabel{Name: name, Color: cmd.String("color")})
	if err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "created label %s (%s)\n", l.Name, l.ID)
	return nil
}

func runLabelRemove(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.Args().First())
	if name == "" {
		return errors.New("usage: flowstate label rm <name>")
	}
	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	l, ok := s.ws.Tasks.LabelByName(name)
	if !ok {
		return fmt.Errorf("unknown label %q", name)
	}
	if err := s.ws.DeleteLabel(ctx, l.ID); err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "deleted label %s\n", l.Name)
	return nil
}
