package service

import (
	"context"
	"errors"
	"slashbot/internal/core/domain"
	"slashbot/internal/core/domain/command"
	"slashbot/internal/core/port"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCollaborator struct {
	name string
	cmds []port.Command
}

func (s *stubCollaborator) Name() string {
	return s.name
}

func (s *stubCollaborator) Commands() []port.Command {
	return s.cmds
}

func noop(_ context.Context, _ port.Context, _ domain.Args) error {
	return nil
}

func factoryOf(name string, cmds ...port.Command) Factory {
	return func() (port.Collaborator, error) {
		return &stubCollaborator{name: name, cmds: cmds}, nil
	}
}

func TestExtensions_LoadRegistersCommands(t *testing.T) {
	registry := command.NewRegistry()
	ext := NewExtensions(registry)
	ext.Add("example", factoryOf("example", command.New("command", noop), command.New("group_command", noop)))

	require.NoError(t, ext.Load("example"))

	cmd, err := registry.Lookup(domain.NewPath("group", "command"))
	require.NoError(t, err)
	assert.Equal(t, "example", cmd.Owner)
	assert.Equal(t, []string{"example"}, ext.Loaded())
}

func TestExtensions_Errors(t *testing.T) {
	registry := command.NewRegistry()
	ext := NewExtensions(registry)
	ext.Add("example", factoryOf("example", command.New("command", noop)))
	ext.Add("clash", factoryOf("clash", command.New("command", noop)))
	ext.Add("broken", func() (port.Collaborator, error) { return nil, errors.New("no api key") })

	require.NoError(t, ext.Load("example"))

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{name: "load unknown", run: func() error { return ext.Load("missing") }, wantErr: domain.ErrUnknownExtension},
		{name: "load twice", run: func() error { return ext.Load("example") }, wantErr: domain.ErrExtensionLoaded},
		{name: "load clashing", run: func() error { return ext.Load("clash") }, wantErr: domain.ErrDuplicatePath},
		{name: "unload unknown", run: func() error { return ext.Unload("missing") }, wantErr: domain.ErrUnknownExtension},
		{name: "unload not loaded", run: func() error { return ext.Unload("clash") }, wantErr: domain.ErrExtensionNotLoaded},
		{name: "reload not loaded", run: func() error { return ext.Reload("clash") }, wantErr: domain.ErrExtensionNotLoaded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.wantErr)
		})
	}

	assert.Error(t, ext.Load("broken"))
	assert.Equal(t, []string{"example"}, ext.Loaded())
	assert.Equal(t, []string{"broken", "clash", "example"}, ext.Available())
}

func TestExtensions_Unload(t *testing.T) {
	registry := command.NewRegistry()
	ext := NewExtensions(registry)
	ext.Add("example", factoryOf("example", command.New("command", noop)))

	require.NoError(t, ext.Load("example"))
	require.NoError(t, ext.Unload("example"))

	_, err := registry.Lookup(domain.NewPath("command"))
	assert.ErrorIs(t, err, domain.ErrCommandNotFound)
	assert.Empty(t, ext.Loaded())

	require.NoError(t, ext.Load("example"), "an unloaded extension can be loaded again")
}

func TestExtensions_ReloadBuildsFreshInstance(t *testing.T) {
	registry := command.NewRegistry()
	ext := NewExtensions(registry)

	builds := 0
	ext.Add("example", func() (port.Collaborator, error) {
		builds++
		return &stubCollaborator{name: "example", cmds: []port.Command{command.New("command", noop)}}, nil
	})

	require.NoError(t, ext.Load("example"))
	require.NoError(t, ext.Reload("example"))

	assert.Equal(t, 2, builds)
	_, err := registry.Lookup(domain.NewPath("command"))
	assert.NoError(t, err)
}

func TestExtensions_FailedReloadRestoresPrevious(t *testing.T) {
	registry := command.NewRegistry()
	ext := NewExtensions(registry)

	fail := false
	ext.Add("example", func() (port.Collaborator, error) {
		if fail {
			return nil, errors.New("bad config")
		}
		return &stubCollaborator{name: "example", cmds: []port.Command{command.New("command", noop)}}, nil
	})

	require.NoError(t, ext.Load("example"))
	fail = true

	assert.Error(t, ext.Reload("example"))

	cmd, err := registry.Lookup(domain.NewPath("command"))
	require.NoError(t, err)
	assert.Equal(t, "example", cmd.Owner)
	assert.Equal(t, []string{"example"}, ext.Loaded())
}

func TestExtensions_LoadAll(t *testing.T) {
	tests := []struct {
		name       string
		load       []string
		wantErr    error
		wantLoaded []string
	}{
		{
			name:       "loads every extension",
			load:       []string{"example", "other"},
			wantLoaded: []string{"example", "other"},
		},
		{
			name:       "skips unknown extension",
			load:       []string{"nope", "example"},
			wantLoaded: []string{"example"},
		},
		{
			name:       "skips extension that fails to build",
			load:       []string{"broken", "example", "other"},
			wantLoaded: []string{"example", "other"},
		},
		{
			name:       "skips extension loaded twice",
			load:       []string{"example", "example"},
			wantLoaded: []string{"example"},
		},
		{
			name:       "stops on clashing commands",
			load:       []string{"example", "clash", "other"},
			wantErr:    domain.ErrDuplicatePath,
			wantLoaded: []string{"example"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := NewExtensions(command.NewRegistry())
			ext.Add("example", factoryOf("example", command.New("command", noop)))
			ext.Add("other", factoryOf("other", command.New("other", noop)))
			ext.Add("clash", factoryOf("clash", command.New("command", noop)))
			ext.Add("broken", func() (port.Collaborator, error) { return nil, errors.New("no api key") })

			err := ext.LoadAll(tt.load)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantLoaded, ext.Loaded())
		})
	}
}
