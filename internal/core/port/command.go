package port

import (
	"context"
	"slashbot/internal/core/domain"
)

// HandlerFunc runs a command. It receives the response context of the interaction and
// the resolved arguments in payload order.
type HandlerFunc func(ctx context.Context, c Context, args domain.Args) error

type Command struct {
	Path    domain.Path
	Aliases []domain.Path
	Handler HandlerFunc
	// Owner is the name of the collaborator that registered the command. It is set by the
	// registry.
	Owner string
}

// Collaborator is a loadable extension that contributes commands.
type Collaborator interface {
	// Name uniquely identifies the collaborator; registry entries are owned by it.
	Name() string
	// Commands enumerates the commands to register when the collaborator is loaded.
	Commands() []Command
}

type CommandRegistry interface {
	// Register adds all commands of one owner atomically, or none of them if any path or alias
	// is already taken.
	Register(owner string, cmds ...Command) error
	// Unregister removes every command owned by owner and returns the removed set.
	Unregister(owner string) []Command
	// Lookup resolves a path or alias to its registered command.
	Lookup(path domain.Path) (Command, error)
	// ListCommands returns the canonical paths of all registered commands.
	ListCommands() []domain.Path
}

type Extensions interface {
	Load(name string) error
	Unload(name string) error
	Reload(name string) error
	Loaded() []string
	Available() []string
}
