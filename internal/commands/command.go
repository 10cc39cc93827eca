package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeDone    Type = "done"
	TypeSkip    Type = "skip"
	TypeProject Type = "project"
	TypeLabel   Type = "label"
	TypeFilter  Type = "filter"
	TypeSearch  Type = "search"
	TypeShow    Type = "show"
	TypeFocus   Type = "focus"
	TypeClear   Type = "clear"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs carries quick-add text; date and priority markers are resolved
// by the handler.
type AddArgs struct {
	Text string
}

// DoneArgs targets a task id prefix, or "focus" for the pinned task.
type DoneArgs struct {
	Target string
}

type SkipArgs struct{}

type CollectionAction string

const (
	ActionSelect CollectionAction = "select"
	ActionAdd    CollectionAction = "add"
	ActionDelete CollectionAction = "delete"
)

type ProjectArgs struct {
	Action CollectionAction
	Name   string
	Color  string
}

type LabelArgs struct {
	Action CollectionAction
	Name   string
	Color  string
}

// FilterArgs selects project and label filters. Empty fields are left
// unchanged; "all" clears the field.
type FilterArgs struct {
	Project string
	Label   string
}

type SearchArgs struct {
	Query string
}

type ShowArgs struct {
	Completed bool
}

// FocusArgs toggles focus mode. Minutes is zero when no duration was given.
type FocusArgs struct {
	Minutes int
}

type ClearArgs struct{}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Done    *DoneArgs
	Skip    *SkipArgs
	Project *ProjectArgs
	Label   *LabelArgs
	Filter  *FilterArgs
	Search  *SearchArgs
	Show    *ShowArgs
	Focus   *FocusArgs
	Clear   *ClearArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeSkip:
		return Command{Type: TypeSkip, Raw: input, Skip: &SkipArgs{}}, nil
	case TypeProject:
		action, name, color, err := parseCollection("project", args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeProject, Raw: input, Project: &ProjectArgs{Action: action, Name: name, Color: color}}, nil
	case TypeLabel:
		action, name, color, err := parseCollection("label", args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeLabel, Raw: input, Label: &LabelArgs{Action: action, Name: name, Color: color}}, nil
	case TypeFilter:
		return parseFilter(input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Query: strings.Join(args, " ")}}, nil
	case TypeShow:
		return parseShow(input, args)
	case TypeFocus:
		return parseFocus(input, args)
	case TypeClear:
		return Command{Type: TypeClear, Raw: input, Clear: &ClearArgs{}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text}}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("done requires one task id or \"focus\"")
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Target: strings.ToLower(args[0])}}, nil
}

// parseCollection handles "<name>", "add <name> [#color]" and "rm <name>".
func parseCollection(kind string, args []string) (CollectionAction, string, string, error) {
	if len(args) == 0 {
		return "", "", "", invalid("%s requires a name", kind)
	}
	action := ActionSelect
	switch strings.ToLower(args[0]) {
	case "add", "new":
		action = ActionAdd
		args = args[1:]
	case "rm", "delete", "del":
		action = ActionDelete
		args = args[1:]
	}
	color := ""
	if action == ActionAdd && len(args) > 1 && strings.HasPrefix(args[len(args)-1], "#") {
		color = args[len(args)-1]
		args = args[:len(args)-1]
	}
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return "", "", "", invalid("%s %s requires a name", kind, action)
	}
	return action, name, color, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("filter requires project:<name>, label:<name>, today, inbox or all")
	}
	out := FilterArgs{}
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "project:"):
			out.Project = strings.TrimSpace(arg[len("project:"):])
		case strings.HasPrefix(lower, "label:"):
			out.Label = strings.TrimSpace(arg[len("label:"):])
		case lower == "today" || lower == "inbox":
			out.Project = lower
		case lower == "all":
			out.Project, out.Label = "all", "all"
		default:
			return Command{}, invalid("unknown filter %q", arg)
		}
	}
	if out.Project == "" && out.Label == "" {
		return Command{}, invalid("filter value is empty")
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &out}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("show requires completed or open")
	}
	switch strings.ToLower(args[0]) {
	case "completed", "done", "all":
		return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Completed: true}}, nil
	case "open", "pending":
		return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Completed: false}}, nil
	default:
		return Command{}, invalid("show requires completed or open, got %q", args[0])
	}
}

func parseFocus(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Type: TypeFocus, Raw: raw, Focus: &FocusArgs{}}, nil
	}
	if len(args) > 1 {
		return Command{}, invalid("focus takes at most one duration")
	}
	minutes, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(args[0]), "m"))
	if err != nil || minutes <= 0 {
		return Command{}, invalid("focus duration must be minutes, got %q", args[0])
	}
	return Command{Type: TypeFocus, Raw: raw, Focus: &FocusArgs{Minutes: minutes}}, nil
}
