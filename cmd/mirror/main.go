// Command mirror runs the planar reflection demo: a lit scene standing on a textured
// grid that mirrors it through the stencil buffer.
package main

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-mirror/engine"
	"github.com/Carmen-Shannon/oxy-mirror/engine/camera"
	"github.com/Carmen-Shannon/oxy-mirror/engine/geometry"
	"github.com/Carmen-Shannon/oxy-mirror/engine/input"
	"github.com/Carmen-Shannon/oxy-mirror/engine/light"
	"github.com/Carmen-Shannon/oxy-mirror/engine/loader"
	"github.com/Carmen-Shannon/oxy-mirror/engine/orchestrator"
	"github.com/Carmen-Shannon/oxy-mirror/engine/overlay"
	"github.com/Carmen-Shannon/oxy-mirror/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-mirror/engine/scene"
	"github.com/Carmen-Shannon/oxy-mirror/engine/settings"
	"github.com/Carmen-Shannon/oxy-mirror/engine/window"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "config/mirror.yaml", "settings file, created on the first save")
	meshPath := pflag.StringP("mesh", "m", "assets/car.mesh", "binary mesh drawn on the box; empty to skip")
	msaa := pflag.Int("msaa", 0, "MSAA sample count (1 or 4); 0 keeps the configured value")
	width := pflag.Int("width", 1280, "window width")
	height := pflag.Int("height", 720, "window height")
	maxFPS := pflag.Float64("max-fps", 0, "cap the render loop; 0 is uncapped (vsync still applies)")
	profile := pflag.BoolP("profile", "p", false, "log frame statistics once per second")
	fixedSize := pflag.Bool("fixed-size", false, "disable interactive window resizing")
	software := pflag.Bool("software", false, "force the software fallback adapter")
	uniformKB := pflag.Int("uniform-kb", 0, "per-frame constant ring size in KiB; 0 keeps the default")
	pflag.Parse()

	// ── Settings ────────────────────────────────────────────────────────
	cfg, err := settings.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	if *msaa != 0 {
		count := renderer.MSAASampleCount(*msaa)
		if !count.Valid() {
			log.Fatalf("invalid -msaa %d: want 1 or 4", *msaa)
		}
		cfg.Update(func(v *settings.Values) { v.MSAA = count })
	}
	if err := cfg.Watch(nil); err != nil {
		log.Printf("[Settings] hot reload disabled: %v", err)
	}
	defer cfg.Close()
	initial := cfg.Snapshot()

	// ── Window + Device ─────────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle("Oxy Mirror"),
		window.WithWidth(*width),
		window.WithHeight(*height),
		window.WithResizable(!*fixedSize),
	)
	defer win.Close()

	dev, err := renderer.NewDevice(win,
		renderer.WithPresentMode(renderer.PresentModeFor(initial.VSync)),
		renderer.WithMSAA(initial.MSAA),
		renderer.WithForceSoftwareRenderer(*software),
		renderer.WithUniformSpace(uint64(max(*uniformKB, 0))<<10),
	)
	if err != nil {
		log.Fatalf("failed to create device: %v", err)
	}
	defer dev.Release()
	log.Printf("[Renderer] %s", dev.Description())

	// ── Geometry ────────────────────────────────────────────────────────
	var geoOpts []geometry.ProviderBuilderOption
	if *meshPath != "" {
		meshes := loader.NewLoader(loader.BackendTypeMesh)
		geoOpts = append(geoOpts, geometry.WithMesh(func() (geometry.MeshData[geometry.Vertex], error) {
			return meshes.Load(*meshPath)
		}))
	}
	geo, err := geometry.Build(geoOpts...)
	if err != nil {
		log.Fatalf("failed to build geometry: %v", err)
	}
	if err := dev.UploadGeometry(geo); err != nil {
		log.Fatalf("failed to upload geometry: %v", err)
	}

	// ── Effects ─────────────────────────────────────────────────────────
	basic, err := effect.NewEffect(effect.NameBasic, effect.BasicSource)
	if err != nil {
		log.Fatalf("failed to compile %s effect: %v", effect.NameBasic, err)
	}
	colorFx, err := effect.NewEffect(effect.NameColor, effect.ColorSource)
	if err != nil {
		log.Fatalf("failed to compile %s effect: %v", effect.NameColor, err)
	}

	// ── Lights + Scene + Camera ─────────────────────────────────────────
	rig := light.NewRig(dev,
		light.WithActiveCount(initial.PointLightCount),
		light.WithDirectionalCount(initial.DirLightCount),
	)
	defer rig.Release()

	sc, err := scene.New(dev, scene.WithMeshRotation(initial.MeshQuat()))
	if err != nil {
		log.Fatalf("failed to create scene: %v", err)
	}
	defer sc.Release()

	cam := camera.NewCamera()

	// ── Overlays ────────────────────────────────────────────────────────
	prof := profiler.NewProfiler()
	stats := profiler.NewFrameStats(profiler.WithLogging(*profile))

	font := overlay.DefaultFont()
	console := overlay.NewConsole(
		overlay.WithConsoleFont(font),
		overlay.WithSettings(cfg),
		overlay.WithBackground(overlay.ConsoleBackground(512, 256)),
	)
	console.Printf("Oxy Mirror - type help for commands")
	view := overlay.NewProfilerView(
		overlay.WithViewFont(font),
		overlay.WithProfiler(prof),
		overlay.WithFrameStats(stats),
		overlay.WithDescription(dev.Description),
	)

	orch := orchestrator.New(
		orchestrator.WithDevice(dev),
		orchestrator.WithGeometry(geo),
		orchestrator.WithEffects(basic, colorFx),
		orchestrator.WithRig(rig),
		orchestrator.WithCamera(cam),
		orchestrator.WithSettings(cfg),
		orchestrator.WithProfiler(prof),
		orchestrator.WithScene(sc),
		orchestrator.WithConsole(console),
		orchestrator.WithProfilerView(view),
		orchestrator.WithHUD(overlay.NewHUD(font)),
		orchestrator.WithCanvas(overlay.NewCanvas(win.Width(), win.Height())),
		orchestrator.WithSize(win.Width(), win.Height()),
	)

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithFrame(orch),
		engine.WithProfiler(prof),
		engine.WithFrameStats(stats),
		engine.WithTickRate(60),
		engine.WithRenderFrameLimit(*maxFPS),
		engine.WithTickCallback(console.Update),
	)

	// ── Input Handling ──────────────────────────────────────────────────
	keys := input.NewController(cfg,
		input.WithConsole(console),
		input.WithProfilerView(view),
		input.WithQuit(eng.Quit),
	)
	setupInput(win, keys, cam.Controller())

	fmt.Println("╔══════════════════════════════════════════════════════╗")
	fmt.Println("║  Oxy Mirror                                          ║")
	fmt.Println("╠══════════════════════════════════════════════════════╣")
	fmt.Println("║  Camera: Left-drag=Orbit  Right-drag/Scroll=Zoom     ║")
	fmt.Println("║  Lights: 0-3=Directional  +/-=Point                  ║")
	fmt.Println("║  Toggle: W R F T B V  States: S A L U I O P M        ║")
	fmt.Println("║  F1=Profiler  `=Console  F5=Save  Esc=Quit           ║")
	fmt.Println("╚══════════════════════════════════════════════════════╝")

	log.Println("Starting Oxy Mirror")
	eng.Run()
}

// setupInput routes window events: keys and text to the key map, mouse drags and the
// wheel to the camera.
//
// Parameters:
//   - win: the window providing the callbacks
//   - keys: the key map
//   - ctrl: the orbit controller
func setupInput(win window.Window, keys *input.Controller, ctrl camera.CameraController) {
	win.SetKeyDownCallback(keys.KeyDown)
	win.SetKeyUpCallback(keys.KeyUp)
	win.SetCharCallback(keys.Char)

	win.SetMouseButtonCallback(func(button window.MouseButton, pressed bool, x, y int32) {
		if !pressed {
			ctrl.EndDrag()
			return
		}
		switch button {
		case window.MouseButtonLeft:
			ctrl.BeginDrag(camera.DragOrbit, x, y)
		case window.MouseButtonRight:
			ctrl.BeginDrag(camera.DragZoom, x, y)
		}
	})
	win.SetMouseMoveCallback(ctrl.MouseMove)
	win.SetScrollCallback(ctrl.Scroll)
}
