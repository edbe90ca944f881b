package overlay

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-mirror/common"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mirror/engine/settings"
	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
)

// ConsoleLineLimit is the number of output lines the console keeps.
const ConsoleLineLimit = 32

// consoleMargin is the space around the text block and the command line.
const consoleMargin = 10

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArguments   = errors.New("bad arguments")
)

// Command runs one console command. The returned text is echoed into the buffer.
type Command func(args []string) (string, error)

type commandEntry struct {
	usage string
	run   Command
}

// Console is the drop-down command console. While it is active it owns the keyboard;
// it slides into view with an elevation animation when opened.
type Console struct {
	mu         *sync.Mutex
	lines      []string
	input      []rune
	active     bool
	elevation  float32
	speed      float32
	height     int
	font       Font
	background TextureRef
	settings   *settings.Settings
	commands   map[string]commandEntry
}

// NewConsole creates a closed console. The built-in commands edit the settings given by
// WithSettings; without settings only help is registered.
//
// Parameters:
//   - opts: variadic list of ConsoleBuilderOption functions to configure the console
//
// Returns:
//   - *Console: the new console
func NewConsole(opts ...ConsoleBuilderOption) *Console {
	c := &Console{
		mu:       &sync.Mutex{},
		speed:    1500,
		font:     DefaultFont(),
		commands: make(map[string]commandEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.height == 0 {
		c.height = ConsoleLineLimit*c.font.LineHeight + 4*consoleMargin
	}
	c.elevation = float32(c.height)
	c.registerBuiltins()
	return c
}

// Register adds or replaces a command.
//
// Parameters:
//   - name: the command word
//   - usage: the help text shown by help
//   - run: the command
func (c *Console) Register(name, usage string, run Command) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands[name] = commandEntry{usage: usage, run: run}
}

// Toggle opens or closes the console. Opening starts the slide-in from fully hidden.
func (c *Console) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = !c.active
	if c.active {
		c.elevation = float32(c.height)
	}
}

// Active reports whether the console is open.
func (c *Console) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Elevation returns how many pixels of the console are still hidden above the window.
func (c *Console) Elevation() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elevation
}

// Height returns the console height in pixels.
func (c *Console) Height() int {
	return c.height
}

// Update advances the slide animation.
//
// Parameters:
//   - dt: elapsed seconds
func (c *Console) Update(dt float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	c.elevation = max(c.elevation-c.speed*dt, 0)
}

// HandleChar appends a typed character to the command line. The console toggle key
// is not echoed.
//
// Parameters:
//   - r: the character
func (c *Console) HandleChar(r rune) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active || r == '`' || r == '~' || r < ' ' {
		return
	}
	c.input = append(c.input, r)
}

// HandleKey processes an editing key: Enter runs the command line, Backspace deletes
// the last character and Escape closes the console.
//
// Parameters:
//   - key: the key code
func (c *Console) HandleKey(key int) {
	switch key {
	case common.KeyEnter:
		c.mu.Lock()
		line := string(c.input)
		c.input = c.input[:0]
		c.mu.Unlock()
		if strings.TrimSpace(line) != "" {
			c.Execute(line)
		}
	case common.KeyBackspace:
		c.mu.Lock()
		if n := len(c.input); n > 0 {
			c.input = c.input[:n-1]
		}
		c.mu.Unlock()
	case common.KeyEsc:
		c.mu.Lock()
		c.active = false
		c.mu.Unlock()
	}
}

// Input returns the command line being typed.
func (c *Console) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.input)
}

// Lines returns a copy of the output buffer, oldest first.
func (c *Console) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

// Printf appends formatted output to the buffer, one entry per line. Only the last
// ConsoleLineLimit lines are kept.
func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.print(fmt.Sprintf(format, args...))
}

func (c *Console) print(text string) {
	c.lines = append(c.lines, strings.Split(strings.TrimRight(text, "\n"), "\n")...)
	if over := len(c.lines) - ConsoleLineLimit; over > 0 {
		c.lines = append(c.lines[:0], c.lines[over:]...)
	}
}

// Execute parses and runs one command line, echoing it and its output into the buffer.
//
// Parameters:
//   - line: the command line
//
// Returns:
//   - error: ErrUnknownCommand, ErrBadArguments or the command's own error
func (c *Console) Execute(line string) error {
	c.Printf("> %s", line)

	words, err := shellwords.Parse(line)
	if err != nil {
		c.Printf("error: %v", err)
		return errors.Wrap(ErrBadArguments, err.Error())
	}
	if len(words) == 0 {
		return nil
	}

	c.mu.Lock()
	entry, ok := c.commands[strings.ToLower(words[0])]
	c.mu.Unlock()
	if !ok {
		c.Printf("error: unknown command %q, try help", words[0])
		return errors.Wrapf(ErrUnknownCommand, "%q", words[0])
	}

	out, err := entry.run(words[1:])
	if err != nil {
		c.Printf("error: %v", err)
		if errors.Is(err, ErrBadArguments) {
			c.Printf("usage: %s", entry.usage)
		}
		return err
	}
	if out != "" {
		c.Printf("%s", out)
	}
	return nil
}

// Draw renders the console at its current elevation.
//
// Parameters:
//   - r: the overlay renderer
//   - width: the window width
func (c *Console) Draw(r Renderer, width int) {
	c.mu.Lock()
	e := int(c.elevation)
	lines := strings.Join(c.lines, "\n")
	count := len(c.lines)
	cmd := "> " + string(c.input) + "_"
	c.mu.Unlock()

	if c.background != nil {
		r.DrawTexture(c.background, image.Rect(0, -e, width, c.height-e), White)
	}
	textPos := image.Pt(consoleMargin, consoleMargin/2+(ConsoleLineLimit-count)*c.font.LineHeight-e)
	r.DrawText(c.font, lines, textPos, White)
	cmdPos := image.Pt(consoleMargin, c.height-c.font.LineHeight-consoleMargin-e)
	r.DrawText(c.font, cmd, cmdPos, color.RGBA{160, 255, 160, 255})
}

func (c *Console) registerBuiltins() {
	c.commands["help"] = commandEntry{usage: "help", run: c.help}
	if c.settings == nil {
		return
	}

	c.commands["lights"] = commandEntry{usage: "lights N", run: c.intCommand(func(v *settings.Values, n int) {
		v.PointLightCount = n
	}, func(v settings.Values) string {
		return fmt.Sprintf("point lights: %d", v.PointLightCount)
	})}
	c.commands["dirlights"] = commandEntry{usage: "dirlights N", run: c.intCommand(func(v *settings.Values, n int) {
		v.DirLightCount = n
	}, func(v settings.Values) string {
		return fmt.Sprintf("directional lights: %d", v.DirLightCount)
	})}
	c.commands["fog"] = commandEntry{usage: "fog on|off", run: c.boolCommand("fog", func(v *settings.Values, on bool) {
		v.Fog.Enabled = on
	})}
	c.commands["vsync"] = commandEntry{usage: "vsync on|off", run: c.boolCommand("vsync", func(v *settings.Values, on bool) {
		v.VSync = on
	})}
	c.commands["reflections"] = commandEntry{usage: "reflections on|off", run: c.boolCommand("reflections", func(v *settings.Values, on bool) {
		v.DrawReflections = on
	})}
	c.commands["wireframe"] = commandEntry{usage: "wireframe on|off", run: c.boolCommand("wireframe", func(v *settings.Values, on bool) {
		v.SetWireframe(on)
	})}
	c.commands["msaa"] = commandEntry{usage: "msaa 1|4", run: c.msaa}
}

func (c *Console) help([]string) (string, error) {
	c.mu.Lock()
	usages := make([]string, 0, len(c.commands))
	for _, e := range c.commands {
		usages = append(usages, "  "+e.usage)
	}
	c.mu.Unlock()
	sort.Strings(usages)
	return "commands:\n" + strings.Join(usages, "\n"), nil
}

func (c *Console) intCommand(apply func(*settings.Values, int), report func(settings.Values) string) Command {
	return func(args []string) (string, error) {
		if len(args) != 1 {
			return "", ErrBadArguments
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return "", errors.Wrapf(ErrBadArguments, "%q is not a number", args[0])
		}
		v := c.settings.Update(func(v *settings.Values) { apply(v, n) })
		return report(v), nil
	}
}

func (c *Console) boolCommand(name string, apply func(*settings.Values, bool)) Command {
	return func(args []string) (string, error) {
		if len(args) != 1 {
			return "", ErrBadArguments
		}
		var on bool
		switch strings.ToLower(args[0]) {
		case "on", "1", "true":
			on = true
		case "off", "0", "false":
		default:
			return "", errors.Wrapf(ErrBadArguments, "expected on or off, got %q", args[0])
		}
		c.settings.Update(func(v *settings.Values) { apply(v, on) })
		return fmt.Sprintf("%s %s", name, strings.ToLower(args[0])), nil
	}
}

func (c *Console) msaa(args []string) (string, error) {
	if len(args) != 1 {
		return "", ErrBadArguments
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || !renderer.MSAASampleCount(n).Valid() {
		return "", errors.Wrapf(ErrBadArguments, "msaa must be 1 or 4, got %q", args[0])
	}
	c.settings.Update(func(v *settings.Values) { v.MSAA = renderer.MSAASampleCount(n) })
	return fmt.Sprintf("msaa x%d", n), nil
}
