package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Done    func(DoneArgs) (Result, error)
	Skip    func(SkipArgs) (Result, error)
	Project func(ProjectArgs) (Result, error)
	Label   func(LabelArgs) (Result, error)
	Filter  func(FilterArgs) (Result, error)
	Search  func(SearchArgs) (Result, error)
	Show    func(ShowArgs) (Result, error)
	Focus   func(FocusArgs) (Result, error)
	Clear   func(ClearArgs) (Result, error)
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

func dispatch[A any](t Type, fn func(A) (Result, error), args *A) (Result, error) {
	if fn == nil {
		return Result{}, missing(t)
	}
	if args == nil {
		return Result{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s arguments missing", t)}
	}
	return fn(*args)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		return dispatch(cmd.Type, handlers.Add, cmd.Add)
	case TypeDone:
		return dispatch(cmd.Type, handlers.Done, cmd.Done)
	case TypeSkip:
		return dispatch(cmd.Type, handlers.Skip, cmd.Skip)
	case TypeProject:
		return dispatch(cmd.Type, handlers.Project, cmd.Project)
	case TypeLabel:
		return dispatch(cmd.Type, handlers.Label, cmd.Label)
	case TypeFilter:
		return dispatch(cmd.Type, handlers.Filter, cmd.Filter)
	case TypeSearch:
		return dispatch(cmd.Type, handlers.Search, cmd.Search)
	case TypeShow:
		return dispatch(cmd.Type, handlers.Show, cmd.Show)
	case TypeFocus:
		return dispatch(cmd.Type, handlers.Focus, cmd.Focus)
	case TypeClear:
		return dispatch(cmd.Type, handlers.Clear, cmd.Clear)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
