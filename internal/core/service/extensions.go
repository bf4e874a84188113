package service

import (
	"errors"
	"fmt"
	"slashbot/internal/core/domain"
	"slashbot/internal/core/port"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Factory builds a fresh collaborator each time its extension is loaded.
type Factory func() (port.Collaborator, error)

// Extensions manages the lifecycle of collaborators. Loading one registers all of its commands
// under the extension name, unloading removes them again.
type Extensions struct {
	registry port.CommandRegistry

	mu        sync.Mutex
	factories map[string]Factory
	loaded    map[string]port.Collaborator
}

func NewExtensions(registry port.CommandRegistry) *Extensions {
	return &Extensions{
		registry:  registry,
		factories: make(map[string]Factory),
		loaded:    make(map[string]port.Collaborator),
	}
}

// Add makes an extension available for loading. Adding a name twice replaces its factory.
func (e *Extensions) Add(name string, f Factory) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.factories[name] = f
}

func (e *Extensions) Load(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.load(name)
}

func (e *Extensions) load(name string) error {
	f, ok := e.factories[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownExtension, name)
	}
	if _, ok := e.loaded[name]; ok {
		return fmt.Errorf("%w: %s", domain.ErrExtensionLoaded, name)
	}

	col, err := f()
	if err != nil {
		return fmt.Errorf("failed to build extension %s: %w", name, err)
	}

	if err := e.registry.Register(name, col.Commands()...); err != nil {
		return fmt.Errorf("failed to load extension %s: %w", name, err)
	}
	e.loaded[name] = col

	log.Info().Str("extension", name).Int("commands", len(col.Commands())).Msg("extension loaded")
	return nil
}

// LoadAll loads the named extensions in order. An extension that can not be loaded is skipped,
// except when its commands clash with ones already registered.
func (e *Extensions) LoadAll(names []string) error {
	for _, name := range names {
		err := e.Load(name)
		if errors.Is(err, domain.ErrDuplicatePath) {
			return err
		}
		if err != nil {
			log.Warn().Err(err).Str("extension", name).Msg("skipping extension")
		}
	}

	return nil
}

func (e *Extensions) Unload(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.unload(name)
}

func (e *Extensions) unload(name string) error {
	if _, ok := e.factories[name]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownExtension, name)
	}
	if _, ok := e.loaded[name]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrExtensionNotLoaded, name)
	}

	removed := e.registry.Unregister(name)
	delete(e.loaded, name)

	log.Info().Str("extension", name).Int("commands", len(removed)).Msg("extension unloaded")
	return nil
}

// Reload swaps an extension for a freshly built instance. If the new instance can not be
// registered the previous commands are restored.
func (e *Extensions) Reload(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	previous := e.loaded[name]
	if err := e.unload(name); err != nil {
		return err
	}

	err := e.load(name)
	if err == nil {
		return nil
	}

	if restoreErr := e.registry.Register(name, previous.Commands()...); restoreErr != nil {
		log.Error().Err(restoreErr).Str("extension", name).Msg("failed to restore extension after reload")
		return err
	}
	e.loaded[name] = previous

	return err
}

func (e *Extensions) Loaded() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := lo.Keys(e.loaded)
	sort.Strings(names)
	return names
}

func (e *Extensions) Available() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := lo.Keys(e.factories)
	sort.Strings(names)
	return names
}
