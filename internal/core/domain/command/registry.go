package command

import (
	"fmt"
	"slashbot/internal/core/domain"
	"slashbot/internal/core/port"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Registry maps command paths and their aliases to handlers. Dispatch only reads it;
// writes happen when a collaborator is loaded or unloaded.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]port.Command // canonical path key -> command
	index    map[string]string       // path or alias key -> canonical path key
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]port.Command),
		index:    make(map[string]string),
	}
}

func (r *Registry) Register(owner string, cmds ...port.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.commands == nil {
		r.commands = make(map[string]port.Command)
		r.index = make(map[string]string)
	}

	// validate the whole batch before touching the maps
	claimed := make(map[string]struct{})
	for _, cmd := range cmds {
		if cmd.Handler == nil {
			return fmt.Errorf("%w: %q has no handler", domain.ErrInvalidPath, cmd.Path)
		}
		for _, p := range append([]domain.Path{cmd.Path}, cmd.Aliases...) {
			if p.IsZero() {
				return fmt.Errorf("%w: owner %q", domain.ErrInvalidPath, owner)
			}
			key := p.Key()
			if _, ok := r.index[key]; ok {
				return fmt.Errorf("%w: %q", domain.ErrDuplicatePath, p)
			}
			if _, ok := claimed[key]; ok {
				return fmt.Errorf("%w: %q", domain.ErrDuplicatePath, p)
			}
			claimed[key] = struct{}{}
		}
	}

	for _, cmd := range cmds {
		cmd.Owner = owner
		key := cmd.Path.Key()
		r.commands[key] = cmd
		r.index[key] = key
		for _, alias := range cmd.Aliases {
			r.index[alias.Key()] = key
		}

		log.Info().
			Str("owner", owner).
			Str("path", cmd.Path.String()).
			Int("aliases", len(cmd.Aliases)).
			Msg("adding command handler to registry")
	}

	return nil
}

func (r *Registry) Unregister(owner string) []port.Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := make([]port.Command, 0)
	for key, cmd := range r.commands {
		if cmd.Owner != owner {
			continue
		}
		delete(r.commands, key)
		delete(r.index, key)
		for _, alias := range cmd.Aliases {
			delete(r.index, alias.Key())
		}
		removed = append(removed, cmd)
	}

	sort.Slice(removed, func(i, j int) bool {
		return removed[i].Path.String() < removed[j].Path.String()
	})

	log.Info().Str("owner", owner).Int("removed", len(removed)).Msg("removed command handlers from registry")

	return removed
}

func (r *Registry) Lookup(path domain.Path) (port.Command, error) {
	log.Debug().Str("path", path.String()).Msg("fetching command handler from registry")

	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.index[path.Key()]
	if !ok {
		return port.Command{}, fmt.Errorf("%w: %q", domain.ErrCommandNotFound, path)
	}

	return r.commands[key], nil
}

func (r *Registry) ListCommands() []domain.Path {
	r.mu.RLock()
	paths := lo.MapToSlice(r.commands, func(_ string, cmd port.Command) domain.Path {
		return cmd.Path
	})
	r.mu.RUnlock()

	sort.Slice(paths, func(i, j int) bool {
		return paths[i].String() < paths[j].String()
	})

	return paths
}
