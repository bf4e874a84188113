package commands

import (
	"bytes"
	"errors"
	"fmt"
	"slashbot/internal/core/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDev_Ping(t *testing.T) {
	c := newMockContext("op")
	c.On("Send", mock.Anything, "Pong!", false).Return(nil).Once()

	d := NewDev(new(MockExtensions), allowAll(true))
	require.NoError(t, d.operator(d.ping)(t.Context(), c, nil))
	c.AssertExpectations(t)
}

func TestDev_RefusesNonOperators(t *testing.T) {
	c := newMockContext("someone")
	ext := new(MockExtensions)

	d := NewDev(ext, allowAll(false))
	for _, cmd := range d.Commands() {
		require.NoError(t, cmd.Handler(t.Context(), c, domain.Args{"example"}))
	}

	c.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	ext.AssertNotCalled(t, "Load", mock.Anything)
	ext.AssertNotCalled(t, "Unload", mock.Anything)
}

func TestDev_ClearConsole(t *testing.T) {
	var out bytes.Buffer
	c := newMockContext("op")
	c.On("Send", mock.Anything, "Done.", true).Return(nil).Once()

	d := NewDev(new(MockExtensions), allowAll(true))
	d.console = &out
	require.NoError(t, d.clearConsole(t.Context(), c, nil))

	assert.Equal(t, strings.Repeat("\n", 50)+"\033[0;37;40m\nDone!\n", out.String())
	c.AssertExpectations(t)
}

func TestDev_Debug(t *testing.T) {
	ext := new(MockExtensions)
	ext.On("Loaded").Return([]string{"dev", "example"})

	c := newMockContext("op")
	c.On("Send", mock.Anything, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "allocated mem:") &&
			strings.Contains(text, "goroutines running:") &&
			strings.Contains(text, "heap:") &&
			strings.Contains(text, "stack:") &&
			strings.Contains(text, "rss:") &&
			strings.Contains(text, "extensions: dev, example") &&
			strings.Contains(text, "compiled with")
	}), true).Return(nil).Once()

	d := NewDev(ext, allowAll(true))
	require.NoError(t, d.debug(t.Context(), c, nil))
	c.AssertExpectations(t)
}

func TestDev_Manage(t *testing.T) {
	tests := []struct {
		name     string
		run      func(d *Dev) func(c *MockContext) error
		setup    func(ext *MockExtensions)
		args     domain.Args
		wantText string
	}{
		{
			name: "load",
			run: func(d *Dev) func(c *MockContext) error {
				return func(c *MockContext) error { return d.load(t.Context(), c, domain.Args{"example"}) }
			},
			setup:    func(ext *MockExtensions) { ext.On("Load", "example").Return(nil) },
			wantText: "Extension `example`: load done.",
		},
		{
			name: "load unknown",
			run: func(d *Dev) func(c *MockContext) error {
				return func(c *MockContext) error { return d.load(t.Context(), c, domain.Args{"nope"}) }
			},
			setup: func(ext *MockExtensions) {
				ext.On("Load", "nope").Return(fmt.Errorf("%w: nope", domain.ErrUnknownExtension))
			},
			wantText: "Extension `nope`: load failed: unknown extension: nope",
		},
		{
			name: "reload fails",
			run: func(d *Dev) func(c *MockContext) error {
				return func(c *MockContext) error { return d.reload(t.Context(), c, domain.Args{"ask"}) }
			},
			setup:    func(ext *MockExtensions) { ext.On("Reload", "ask").Return(errors.New("no api key")) },
			wantText: "Extension `ask`: reload failed: no api key",
		},
		{
			name: "unload",
			run: func(d *Dev) func(c *MockContext) error {
				return func(c *MockContext) error { return d.unload(t.Context(), c, domain.Args{"example"}) }
			},
			setup:    func(ext *MockExtensions) { ext.On("Unload", "example").Return(nil) },
			wantText: "Extension `example`: unload done.",
		},
		{
			name: "unload dev is refused",
			run: func(d *Dev) func(c *MockContext) error {
				return func(c *MockContext) error { return d.unload(t.Context(), c, domain.Args{"dev"}) }
			},
			setup:    func(_ *MockExtensions) {},
			wantText: "The dev extension can not be unloaded.",
		},
		{
			name: "missing name",
			run: func(d *Dev) func(c *MockContext) error {
				return func(c *MockContext) error { return d.load(t.Context(), c, domain.Args{}) }
			},
			setup:    func(_ *MockExtensions) {},
			wantText: "Which extension?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := new(MockExtensions)
			tt.setup(ext)
			c := newMockContext("op")
			c.On("Send", mock.Anything, tt.wantText, true).Return(nil).Once()

			d := NewDev(ext, allowAll(true))
			require.NoError(t, tt.run(d)(c))

			c.AssertExpectations(t)
			ext.AssertExpectations(t)
		})
	}
}

func TestDev_List(t *testing.T) {
	ext := new(MockExtensions)
	ext.On("Loaded").Return([]string{"dev"})
	ext.On("Available").Return([]string{"ask", "dev"})

	c := newMockContext("op")
	c.On("Send", mock.Anything, mock.MatchedBy(func(text string) bool {
		return strings.HasPrefix(text, "```") &&
			strings.Contains(text, "Extension") &&
			strings.Contains(text, "ask") &&
			strings.Contains(text, "available") &&
			strings.Contains(text, "dev") &&
			strings.Contains(text, "loaded")
	}), true).Return(nil).Once()

	d := NewDev(ext, allowAll(true))
	require.NoError(t, d.list(t.Context(), c, nil))
	c.AssertExpectations(t)
}

func TestDev_CommandPaths(t *testing.T) {
	var paths []string
	for _, cmd := range NewDev(new(MockExtensions), allowAll(true)).Commands() {
		paths = append(paths, cmd.Path.String())
	}

	assert.ElementsMatch(t, []string{
		"ping", "debug", "console", "ext load", "ext unload", "ext reload", "ext list",
	}, paths)
}

func TestDev_ListEmpty(t *testing.T) {
	ext := new(MockExtensions)
	ext.On("Available").Return([]string{})

	c := newMockContext("op")
	c.On("Send", mock.Anything, "No extensions available.", true).Return(nil).Once()

	d := NewDev(ext, allowAll(true))
	require.NoError(t, d.list(t.Context(), c, nil))
	c.AssertExpectations(t)
}
