// Package settings holds the runtime-toggleable render settings. Values are loaded from
// and saved to a YAML file, hot reloaded when the file changes, and read by the frame
// through Snapshot.
package settings

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/Carmen-Shannon/oxy-mirror/common"
	"github.com/Carmen-Shannon/oxy-mirror/engine/light"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/states"
	"github.com/chewxy/math32"
	"github.com/fsnotify/fsnotify"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Fog limits.
const (
	MinFogStart = 10
	MaxFogStart = 100
	MinFogRange = 20
	MaxFogRange = 500
)

// Fog is the distance fog configuration.
type Fog struct {
	Enabled bool       `yaml:"enabled"`
	Color   mgl32.Vec4 `yaml:"color"`
	Start   float32    `yaml:"start"`
	Range   float32    `yaml:"range"`
}

// Values is one consistent set of settings. It is a plain value; Snapshot hands out copies.
type Values struct {
	VSync           bool                     `yaml:"vsync"`
	Wireframe       bool                     `yaml:"wireframe"`
	DrawReflections bool                     `yaml:"draw_reflections"`
	UseTexture      bool                     `yaml:"use_texture"`
	UseBlending     bool                     `yaml:"use_blending"`
	Fog             Fog                      `yaml:"fog"`
	BlendFactor     mgl32.Vec4               `yaml:"blend_factor"`
	PointLightCount int                      `yaml:"point_lights"`
	DirLightCount   int                      `yaml:"dir_lights"`
	Rasterizer      states.RasterizerName    `yaml:"rasterizer"`
	Blend           states.BlendName         `yaml:"blend"`
	Sampler         string                   `yaml:"sampler"`
	MSAA            renderer.MSAASampleCount `yaml:"msaa"`

	// MeshRotation is the imported mesh orientation as a quaternion (x, y, z, w).
	MeshRotation mgl32.Vec4 `yaml:"mesh_rotation"`
}

// Defaults returns the settings the demo starts with when no file exists.
//
// Returns:
//   - Values: the default settings
func Defaults() Values {
	return Values{
		VSync:           true,
		DrawReflections: true,
		UseTexture:      true,
		UseBlending:     true,
		Fog: Fog{
			Enabled: true,
			Color:   mgl32.Vec4{0.75, 0.75, 0.75, 1},
			Start:   15,
			Range:   175,
		},
		BlendFactor:     mgl32.Vec4{0.5, 0.5, 0.5, 1},
		PointLightCount: 3,
		DirLightCount:   1,
		Rasterizer:      states.RasterSolid,
		Blend:           states.BlendOpaque,
		Sampler:         common.SamplerAnisotropic,
		MSAA:            renderer.MSAA4x,
		MeshRotation:    mgl32.Vec4{0, 0, 0, 1},
	}
}

// Normalize clamps every value into its valid range and replaces unknown names with
// the defaults.
//
// Returns:
//   - Values: the clamped settings
func (v Values) Normalize() Values {
	d := Defaults()

	v.Fog.Start = mgl32.Clamp(v.Fog.Start, MinFogStart, MaxFogStart)
	v.Fog.Range = mgl32.Clamp(v.Fog.Range, MinFogRange, MaxFogRange)
	for i := range v.Fog.Color {
		v.Fog.Color[i] = mgl32.Clamp(v.Fog.Color[i], 0, 1)
	}
	for i := range v.BlendFactor {
		v.BlendFactor[i] = mgl32.Clamp(v.BlendFactor[i], 0, 1)
	}
	v.PointLightCount = min(max(v.PointLightCount, 0), light.MaxPointLights)
	v.DirLightCount = min(max(v.DirLightCount, 0), light.DirectionalLightCount)

	if _, err := states.Rasterizer(v.Rasterizer); err != nil {
		v.Rasterizer = d.Rasterizer
	}
	if _, err := states.Blend(v.Blend); err != nil {
		v.Blend = d.Blend
	}
	if _, ok := common.SamplerByName(v.Sampler); !ok {
		v.Sampler = d.Sampler
	}
	if !v.MSAA.Valid() {
		v.MSAA = d.MSAA
	}
	if v.MeshRotation.Len() < 1e-6 || math32.IsNaN(v.MeshRotation.Len()) {
		v.MeshRotation = d.MeshRotation
	}
	return v
}

// MeshQuat returns MeshRotation as a unit quaternion.
//
// Returns:
//   - mgl32.Quat: the rotation
func (v Values) MeshQuat() mgl32.Quat {
	r := v.MeshRotation
	if r.Len() < 1e-6 {
		return mgl32.QuatIdent()
	}
	return mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
}

// SetWireframe turns wireframe on or off. Turning it on also disables blending and
// selects the wireframe rasterizer and the opaque blend; turning it off selects the
// solid rasterizer.
//
// Parameters:
//   - on: the new wireframe state
func (v *Values) SetWireframe(on bool) {
	v.Wireframe = on
	if on {
		v.UseBlending = false
		v.Rasterizer = states.RasterWireframe
		v.Blend = states.BlendOpaque
		return
	}
	v.Rasterizer = states.RasterSolid
}

// Settings is the mutex-guarded owner of the current Values and their file.
type Settings struct {
	mu      *sync.RWMutex
	values  Values
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      *sync.WaitGroup
}

// NewSettings creates a Settings holding the defaults, or the values given by options.
//
// Parameters:
//   - opts: variadic list of SettingsBuilderOption functions to configure the settings
//
// Returns:
//   - *Settings: the new settings
func NewSettings(opts ...SettingsBuilderOption) *Settings {
	s := &Settings{
		mu:     &sync.RWMutex{},
		values: Defaults(),
		wg:     &sync.WaitGroup{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.values = s.values.Normalize()
	return s
}

// Load reads the settings file at path. A missing file yields the defaults and is
// created on the first Save.
//
// Parameters:
//   - path: the YAML file
//
// Returns:
//   - *Settings: the loaded settings bound to path
//   - error: error if the file exists but cannot be read or parsed
func Load(path string) (*Settings, error) {
	s := NewSettings(WithPath(path))
	if err := s.Reload(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	return s, nil
}

// Path returns the file the settings are bound to, or "" if none.
func (s *Settings) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Snapshot returns a copy of the current values.
//
// Returns:
//   - Values: the current settings
func (s *Settings) Snapshot() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values
}

// Update applies fn to the current values under the lock and clamps the result.
//
// Parameters:
//   - fn: the mutation
//
// Returns:
//   - Values: the values after the update
func (s *Settings) Update(fn func(v *Values)) Values {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.values
	fn(&v)
	s.values = v.Normalize()
	return s.values
}

// Reload re-reads the bound file. Keys missing from the file keep their current values.
// A changed wireframe flag is applied through SetWireframe.
//
// Returns:
//   - error: error if no path is bound or the file cannot be read or parsed
func (s *Settings) Reload() error {
	path := s.Path()
	if path == "" {
		return errors.New("settings: no file bound")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read settings %s", path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.values
	if err := yaml.Unmarshal(data, &v); err != nil {
		return errors.Wrapf(err, "failed to parse settings %s", path)
	}
	if v.Wireframe != s.values.Wireframe {
		v.SetWireframe(v.Wireframe)
	}
	s.values = v.Normalize()
	return nil
}

// Save writes the current values to the bound file.
//
// Returns:
//   - error: error if no path is bound or the file cannot be written
func (s *Settings) Save() error {
	s.mu.RLock()
	path, v := s.path, s.values
	s.mu.RUnlock()

	if path == "" {
		return errors.New("settings: no file bound")
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to encode settings")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create settings directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write settings %s", path)
	}
	return nil
}

// Watch starts reloading the bound file whenever it is written or replaced. The
// directory is watched so editors that save by rename are picked up. onReload, if not
// nil, is called after each successful reload.
//
// Parameters:
//   - onReload: optional callback receiving the reloaded values
//
// Returns:
//   - error: error if no path is bound, a watch is already running or the watcher fails
func (s *Settings) Watch(onReload func(Values)) error {
	path := s.Path()
	if path == "" {
		return errors.New("settings: no file bound")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		return errors.New("settings: already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create settings watcher")
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(path))
	}
	s.watcher = watcher
	s.done = make(chan struct{})

	s.wg.Add(1)
	go s.watch(watcher, s.done, filepath.Clean(path), onReload)
	return nil
}

func (s *Settings) watch(watcher *fsnotify.Watcher, done chan struct{}, path string, onReload func(Values)) {
	defer s.wg.Done()
	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				log.Printf("[Settings] reload failed: %v", err)
				continue
			}
			log.Printf("[Settings] reloaded %s", path)
			if onReload != nil {
				onReload(s.Snapshot())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[Settings] watcher error: %v", err)
		}
	}
}

// Close stops the file watcher if one is running.
func (s *Settings) Close() error {
	s.mu.Lock()
	watcher, done := s.watcher, s.done
	s.watcher, s.done = nil, nil
	s.mu.Unlock()

	if watcher == nil {
		return nil
	}
	close(done)
	err := watcher.Close()
	s.wg.Wait()
	return err
}
