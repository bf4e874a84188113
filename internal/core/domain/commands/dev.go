package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/metrics"
	"slashbot/internal/core/domain"
	"slashbot/internal/core/domain/command"
	"slashbot/internal/core/port"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/process"
)

// DevName is the extension name of the operator tools. It can not unload itself.
const DevName = "dev"

// Dev holds operator-only commands: health checks and extension management.
type Dev struct {
	extensions port.Extensions
	auth       authorizer
	console    io.Writer
}

func NewDev(extensions port.Extensions, auth authorizer) *Dev {
	return &Dev{extensions: extensions, auth: auth, console: os.Stdout}
}

func (d *Dev) Name() string {
	return DevName
}

func (d *Dev) Commands() []port.Command {
	return []port.Command{
		command.New("ping", d.operator(d.ping)),
		command.New("debug", d.operator(d.debug)),
		command.New("console", d.operator(d.clearConsole)),
		command.New("ext_load", d.operator(d.load)),
		command.New("ext_unload", d.operator(d.unload)),
		command.New("ext_reload", d.operator(d.reload)),
		command.New("ext_list", d.operator(d.list)),
	}
}

func (d *Dev) operator(next port.HandlerFunc) port.HandlerFunc {
	return func(ctx context.Context, c port.Context, args domain.Args) error {
		if !d.auth.IsAuthorized(ctx, c) {
			return nil
		}
		return next(ctx, c, args)
	}
}

func (d *Dev) ping(ctx context.Context, c port.Context, _ domain.Args) error {
	return c.Send(ctx, "Pong!")
}

// clearConsole pushes earlier output off the operator's terminal and resets its colors.
func (d *Dev) clearConsole(ctx context.Context, c port.Context, _ domain.Args) error {
	if _, err := io.WriteString(d.console, strings.Repeat("\n", 50)+"\033[0;37;40m\nDone!\n"); err != nil {
		return fmt.Errorf("failed to clear console: %w", err)
	}

	l := logger(c)
	l.Info().Msg("console cleared")
	return c.Send(ctx, "Done.", domain.Ephemeral())
}

const kb = 1024
const debugTemplate = "```" + `
allocated mem: %d KB
goroutines running: %d
heap: %d KB
stack: %d KB
rss: %d KB
cpu: %.1f%%
extensions: %s
compiled with %s for %s-%s
` + "```"

func (d *Dev) debug(ctx context.Context, c port.Context, _ domain.Args) error {
	l := logger(c)

	data := []metrics.Sample{
		{Name: "/memory/classes/heap/objects:bytes"},
		{Name: "/memory/classes/heap/stacks:bytes"},
		{Name: "/memory/classes/total:bytes"},
	}
	metrics.Read(data)

	for _, sample := range data {
		if sample.Value.Kind() == metrics.KindUint64 {
			l.Debug().Str("name", sample.Name).Msgf("%d", sample.Value.Uint64())
		}
	}

	l.Info().Msg("handling request")

	rss, cpu := processStats()

	var goos, goarch string
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "GOOS":
				goos = setting.Value
			case "GOARCH":
				goarch = setting.Value
			}
		}
	}

	return c.Send(ctx, fmt.Sprintf(
		debugTemplate,
		uint64Of(data[2])/kb,
		runtime.NumGoroutine(),
		uint64Of(data[0])/kb,
		uint64Of(data[1])/kb,
		rss/kb,
		cpu,
		strings.Join(d.extensions.Loaded(), ", "),
		runtime.Version(), goos, goarch,
	), domain.Ephemeral())
}

func uint64Of(s metrics.Sample) uint64 {
	if s.Value.Kind() != metrics.KindUint64 {
		return 0
	}
	return s.Value.Uint64()
}

// processStats reports the resident memory and CPU usage of the bot process as the OS sees it.
func processStats() (uint64, float64) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Debug().Err(err).Msg("failed to inspect own process")
		return 0, 0
	}

	var rss uint64
	if mem, err := p.MemoryInfo(); err == nil && mem != nil {
		rss = mem.RSS
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		cpu = 0
	}

	return rss, cpu
}

func (d *Dev) load(ctx context.Context, c port.Context, args domain.Args) error {
	return d.manage(ctx, c, args, "load", d.extensions.Load)
}

func (d *Dev) unload(ctx context.Context, c port.Context, args domain.Args) error {
	name, _ := args.String(0)
	if name == DevName {
		return c.Send(ctx, "The dev extension can not be unloaded.", domain.Ephemeral())
	}
	return d.manage(ctx, c, args, "unload", d.extensions.Unload)
}

func (d *Dev) reload(ctx context.Context, c port.Context, args domain.Args) error {
	return d.manage(ctx, c, args, "reload", d.extensions.Reload)
}

// manage runs an extension operation and reports the outcome to the operator. Lifecycle
// errors are answers, not handler failures.
func (d *Dev) manage(ctx context.Context, c port.Context, args domain.Args, verb string,
	op func(name string) error) error {
	name, ok := args.String(0)
	if !ok || name == "" {
		return c.Send(ctx, "Which extension?", domain.Ephemeral())
	}

	l := logger(c).With().Str("extension", name).Str("op", verb).Logger()

	err := op(name)
	switch {
	case err == nil:
		l.Info().Msg("extension operation done")
		return c.Send(ctx, fmt.Sprintf("Extension `%s`: %s done.", name, verb), domain.Ephemeral())
	case errors.Is(err, domain.ErrUnknownExtension),
		errors.Is(err, domain.ErrExtensionLoaded),
		errors.Is(err, domain.ErrExtensionNotLoaded),
		errors.Is(err, domain.ErrDuplicatePath):
		l.Info().Err(err).Msg("extension operation refused")
	default:
		l.Error().Err(err).Msg("extension operation failed")
	}

	return c.Send(ctx, fmt.Sprintf("Extension `%s`: %s failed: %s", name, verb, err), domain.Ephemeral())
}

func (d *Dev) list(ctx context.Context, c port.Context, _ domain.Args) error {
	available := d.extensions.Available()
	if len(available) == 0 {
		return c.Send(ctx, "No extensions available.", domain.Ephemeral())
	}

	loaded := make(map[string]bool)
	for _, name := range d.extensions.Loaded() {
		loaded[name] = true
	}

	var b strings.Builder
	table := tablewriter.NewWriter(&b)
	table.SetHeader([]string{"Extension", "Status"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	for _, name := range available {
		status := "available"
		if loaded[name] {
			status = "loaded"
		}
		table.Append([]string{name, status})
	}
	table.Render()

	return c.Send(ctx, "```\n"+strings.TrimRight(b.String(), "\n")+"\n```", domain.Ephemeral())
}
