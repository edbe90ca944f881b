package overlay

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/oxy-mirror/common"
	"github.com/Carmen-Shannon/oxy-mirror/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/states"
	"github.com/Carmen-Shannon/oxy-mirror/engine/settings"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textCall struct {
	content string
	pos     image.Point
	color   color.RGBA
}

type textureCall struct {
	rect image.Rectangle
	tint color.RGBA
}

// fakeRenderer records overlay draws.
type fakeRenderer struct {
	texts    []textCall
	textures []textureCall
}

func (f *fakeRenderer) DrawText(_ Font, content string, pos image.Point, c color.RGBA) {
	f.texts = append(f.texts, textCall{content: content, pos: pos, color: c})
}

func (f *fakeRenderer) DrawTexture(_ TextureRef, rect image.Rectangle, tint color.RGBA) {
	f.textures = append(f.textures, textureCall{rect: rect, tint: tint})
}

func TestConsoleKeepsLastLines(t *testing.T) {
	c := NewConsole()
	for i := range ConsoleLineLimit + 8 {
		c.Printf("line %d", i)
	}
	lines := c.Lines()
	require.Len(t, lines, ConsoleLineLimit)
	assert.Equal(t, "line 8", lines[0])
	assert.Equal(t, fmt.Sprintf("line %d", ConsoleLineLimit+7), lines[len(lines)-1])
}

func TestConsoleMultilinePrint(t *testing.T) {
	c := NewConsole()
	c.Printf("a\nb\n")
	assert.Equal(t, []string{"a", "b"}, c.Lines())
}

func TestConsoleCommandsEditSettings(t *testing.T) {
	s := settings.NewSettings()
	c := NewConsole(WithSettings(s))

	require.NoError(t, c.Execute("lights 10"))
	require.NoError(t, c.Execute("dirlights 3"))
	require.NoError(t, c.Execute("fog off"))
	require.NoError(t, c.Execute("vsync off"))
	require.NoError(t, c.Execute("reflections off"))
	require.NoError(t, c.Execute("msaa 1"))

	v := s.Snapshot()
	assert.Equal(t, 10, v.PointLightCount)
	assert.Equal(t, 3, v.DirLightCount)
	assert.False(t, v.Fog.Enabled)
	assert.False(t, v.VSync)
	assert.False(t, v.DrawReflections)
	assert.Equal(t, renderer.MSAAOff, v.MSAA)

	lines := c.Lines()
	assert.Contains(t, lines, "> lights 10")
	assert.Contains(t, lines, "point lights: 10")
}

func TestConsoleWireframeCommand(t *testing.T) {
	s := settings.NewSettings()
	c := NewConsole(WithSettings(s))

	require.NoError(t, c.Execute("wireframe on"))
	v := s.Snapshot()
	assert.True(t, v.Wireframe)
	assert.False(t, v.UseBlending)
	assert.Equal(t, states.RasterWireframe, v.Rasterizer)

	require.NoError(t, c.Execute("wireframe off"))
	assert.Equal(t, states.RasterSolid, s.Snapshot().Rasterizer)
}

func TestConsoleLightsAreClamped(t *testing.T) {
	s := settings.NewSettings()
	c := NewConsole(WithSettings(s))
	require.NoError(t, c.Execute("lights 500"))
	assert.Equal(t, 64, s.Snapshot().PointLightCount)
}

func TestConsoleErrors(t *testing.T) {
	s := settings.NewSettings()
	c := NewConsole(WithSettings(s))

	err := c.Execute("teleport home")
	assert.True(t, errors.Is(err, ErrUnknownCommand))

	err = c.Execute("msaa 3")
	assert.True(t, errors.Is(err, ErrBadArguments))
	assert.Equal(t, renderer.MSAA4x, s.Snapshot().MSAA)

	err = c.Execute("fog maybe")
	assert.True(t, errors.Is(err, ErrBadArguments))

	err = c.Execute("lights")
	assert.True(t, errors.Is(err, ErrBadArguments))
	assert.Contains(t, c.Lines(), "usage: lights N")

	err = c.Execute(`lights "unterminated`)
	assert.True(t, errors.Is(err, ErrBadArguments))
}

func TestConsoleHelpWithoutSettings(t *testing.T) {
	c := NewConsole()
	require.NoError(t, c.Execute("help"))
	assert.Contains(t, c.Lines(), "  help")
	assert.Error(t, c.Execute("lights 3"))
}

func TestConsoleRegisterCustomCommand(t *testing.T) {
	c := NewConsole()
	c.Register("echo", "echo WORDS", func(args []string) (string, error) {
		return fmt.Sprint(args), nil
	})
	require.NoError(t, c.Execute(`echo "two words" three`))
	assert.Contains(t, c.Lines(), "[two words three]")
}

func TestConsoleTyping(t *testing.T) {
	s := settings.NewSettings()
	c := NewConsole(WithSettings(s))

	c.HandleChar('x')
	assert.Empty(t, c.Input(), "closed console ignores typing")

	c.Toggle()
	for _, r := range "fog offf" {
		c.HandleChar(r)
	}
	c.HandleChar('`')
	c.HandleKey(common.KeyBackspace)
	assert.Equal(t, "fog off", c.Input())

	c.HandleKey(common.KeyEnter)
	assert.Empty(t, c.Input())
	assert.False(t, s.Snapshot().Fog.Enabled)

	c.HandleKey(common.KeyEsc)
	assert.False(t, c.Active())
}

func TestConsoleSlideAnimation(t *testing.T) {
	c := NewConsole(WithHeight(300), WithSlideSpeed(1000))
	assert.Equal(t, float32(300), c.Elevation())

	c.Update(0.1)
	assert.Equal(t, float32(300), c.Elevation(), "closed console does not move")

	c.Toggle()
	c.Update(0.1)
	assert.InDelta(t, 200, c.Elevation(), 1e-3)
	c.Update(1)
	assert.Zero(t, c.Elevation())

	c.Toggle()
	c.Toggle()
	assert.Equal(t, float32(300), c.Elevation(), "reopening starts hidden")
}

func TestConsoleDrawFollowsElevation(t *testing.T) {
	c := NewConsole(WithHeight(300), WithBackground(image.NewRGBA(image.Rect(0, 0, 4, 4))))
	c.Toggle()
	c.Update(0.1)

	r := &fakeRenderer{}
	c.Draw(r, 800)
	require.Len(t, r.textures, 1)
	e := int(c.Elevation())
	assert.Equal(t, image.Rect(0, -e, 800, 300-e), r.textures[0].rect)
	require.Len(t, r.texts, 2)
	assert.Equal(t, "> _", r.texts[1].content)
}

func TestProfilerViewCycle(t *testing.T) {
	v := NewProfilerView()
	assert.False(t, v.Active())
	v.Cycle()
	assert.Equal(t, ViewCPU, v.Mode())
	v.Cycle()
	assert.Equal(t, ViewFrame, v.Mode())
	v.Cycle()
	assert.Equal(t, ViewOff, v.Mode())
}

func TestProfilerViewDraw(t *testing.T) {
	p := profiler.NewProfiler()
	p.Start("Draw")
	p.End(1_000_000)
	v := NewProfilerView(
		WithProfiler(p),
		WithFrameStats(profiler.NewFrameStats(profiler.WithMemoryStats(false))),
		WithDescription(func() string { return "test gpu" }),
	)

	r := &fakeRenderer{}
	v.Draw(r, 800)
	assert.Empty(t, r.texts, "off draws nothing")

	v.Cycle()
	v.Draw(r, 800)
	require.Len(t, r.texts, 2)
	assert.Contains(t, r.texts[0].content, " GPU : test gpu")
	assert.Contains(t, r.texts[0].content, "FPS : ")
	assert.Equal(t, Yellow, r.texts[0].color)
	assert.Contains(t, r.texts[1].content, "Draw: 1.000 ms")

	r = &fakeRenderer{}
	v.Cycle()
	v.Draw(r, 800)
	require.Len(t, r.texts, 1)
	assert.Contains(t, r.texts[0].content, "Heap : ")
}

func TestHUDText(t *testing.T) {
	h := NewHUD(DefaultFont())
	r := &fakeRenderer{}
	h.Draw(r, 7)
	require.Len(t, r.texts, 1)
	assert.Equal(t, " Number of point lights : 7", r.texts[0].content)
	assert.Equal(t, image.Pt(10, 10), r.texts[0].pos)
}

func TestCanvasText(t *testing.T) {
	c := NewCanvas(64, 32)
	assert.False(t, c.Drawn())

	c.DrawText(DefaultFont(), "Hi", image.Pt(2, 2), White)
	assert.True(t, c.Drawn())
	assert.Contains(t, c.Image().Pix, uint8(255))

	c.Begin(64, 32)
	assert.False(t, c.Drawn())
	assert.NotContains(t, c.Image().Pix, uint8(255))

	c.Begin(10, 20)
	w, h := c.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 20, h)
}

func TestCanvasTextureTint(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	c := NewCanvas(8, 8)
	c.DrawTexture(src, image.Rect(0, 0, 4, 4), color.RGBA{255, 0, 0, 255})
	assert.True(t, c.Drawn())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, c.Image().RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{}, c.Image().RGBAAt(6, 6))

	c.Begin(8, 8)
	c.DrawTexture(src, image.Rect(20, 20, 30, 30), White)
	assert.False(t, c.Drawn(), "off-canvas draws are skipped")
}

func TestFontMeasure(t *testing.T) {
	f := DefaultFont()
	size := f.Measure("abc\nde")
	assert.Equal(t, 21, size.X)
	assert.Equal(t, 2*f.LineHeight, size.Y)
}

func TestConsoleBackground(t *testing.T) {
	img := ConsoleBackground(32, 16)
	assert.Equal(t, image.Rect(0, 0, 32, 16), img.Bounds())
}
