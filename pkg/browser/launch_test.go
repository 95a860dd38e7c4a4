package browser

import (
	"errors"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEngine(t *testing.T) {
	tests := []struct {
		input   string
		want    Engine
		channel string
	}{
		{"chrome", EngineChrome, "chrome"},
		{"CHROME", EngineChrome, "chrome"},
		{" msedge ", EngineMSEdge, "msedge"},
		{"chromium", EngineChromium, ""},
		{"Firefox", EngineFirefox, ""},
		{"\twebkit\n", EngineWebKit, ""},
	}

	for _, tt := range tests {
		got, err := ParseEngine(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
		assert.Equal(t, tt.channel, got.Channel(), tt.input)
	}

	_, err := ParseEngine("safari")
	assert.True(t, errors.Is(err, ErrUnsupportedBrowser))
}

func TestEngineStrings(t *testing.T) {
	for name, engine := range engineNames {
		assert.Equal(t, name, engine.String())
	}
	assert.Equal(t, "chromium", FamilyChromium.String())
	assert.Equal(t, "firefox", EngineFirefox.Family().String())
	assert.Equal(t, "webkit", EngineWebKit.Family().String())
	assert.Equal(t, "running", StateRunning.String())
}

func TestBuildLaunchConfig(t *testing.T) {
	tests := []struct {
		name      string
		engine    Engine
		headless  bool
		maximize  bool
		channel   string
		maximized bool
	}{
		{"chrome maximized", EngineChrome, false, true, "chrome", true},
		{"chrome windowed", EngineChrome, false, false, "chrome", false},
		// Only the literal chrome selection receives --start-maximized.
		{"msedge maximized", EngineMSEdge, false, true, "msedge", false},
		{"chromium maximized", EngineChromium, true, true, "", false},
		{"firefox maximized", EngineFirefox, true, true, "", false},
		{"webkit maximized", EngineWebKit, false, true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := BuildLaunchConfig(tt.engine, tt.headless, tt.maximize)

			assert.Equal(t, tt.headless, cfg.Headless)
			assert.Equal(t, tt.channel, cfg.Channel)
			assert.Equal(t, tt.maximized, cfg.HasArg(StartMaximizedArg))

			opts := cfg.Options()
			require.NotNil(t, opts.Headless)
			assert.Equal(t, tt.headless, *opts.Headless)
			if tt.channel == "" {
				assert.Nil(t, opts.Channel)
			} else {
				require.NotNil(t, opts.Channel)
				assert.Equal(t, tt.channel, *opts.Channel)
			}
			if !tt.maximized {
				assert.Empty(t, opts.Args)
			}
		})
	}
}

func TestBuildLaunchConfigIsDeterministic(t *testing.T) {
	a := BuildLaunchConfig(EngineChrome, true, true)
	b := BuildLaunchConfig(EngineChrome, true, true)
	assert.Equal(t, a, b)

	// Options must not alias the config's argument slice
	opts := a.Options()
	opts.Args[0] = "--mutated"
	assert.Equal(t, StartMaximizedArg, a.Args[0])
}

func TestLaunchConfigString(t *testing.T) {
	assert.Equal(t, "headless=true", BuildLaunchConfig(EngineFirefox, true, true).String())
	assert.Equal(t, "headless=false channel=chrome args=--start-maximized", BuildLaunchConfig(EngineChrome, false, true).String())
}

func TestViewportKindFor(t *testing.T) {
	tests := []struct {
		engine   Engine
		maximize bool
		want     ViewportKind
	}{
		{EngineChrome, false, ViewportFixedDefault},
		{EngineFirefox, false, ViewportFixedDefault},
		{EngineChrome, true, ViewportNativeMaximize},
		{EngineMSEdge, true, ViewportNativeMaximize},
		{EngineChromium, true, ViewportScreenSize},
		{EngineFirefox, true, ViewportScreenSize},
		{EngineWebKit, true, ViewportScreenSize},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ViewportKindFor(tt.engine, tt.maximize), "%s maximize=%t", tt.engine, tt.maximize)
	}
}

func TestViewportPolicyContextOptions(t *testing.T) {
	opts := ViewportPolicy{Kind: ViewportScreenSize, Size: Size{Width: 1440, Height: 900}}.ContextOptions()
	require.NotNil(t, opts.Viewport)
	assert.Equal(t, playwright.Size{Width: 1440, Height: 900}, *opts.Viewport)
	assert.Nil(t, opts.NoViewport)

	opts = ViewportPolicy{Kind: ViewportNativeMaximize}.ContextOptions()
	assert.Nil(t, opts.Viewport)
	require.NotNil(t, opts.NoViewport)
	assert.True(t, *opts.NoViewport)

	opts = ViewportPolicy{Kind: ViewportFixedDefault}.ContextOptions()
	assert.Nil(t, opts.Viewport)
	assert.Nil(t, opts.NoViewport)
}

func TestParseScreenResult(t *testing.T) {
	size, err := parseScreenResult(map[string]interface{}{"width": 1920, "height": float64(1200)})
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 1920, Height: 1200}, size)

	_, err = parseScreenResult("nope")
	assert.Error(t, err)

	_, err = parseScreenResult(map[string]interface{}{"width": 0, "height": 10})
	assert.Error(t, err)
}

func TestFallbackScreen(t *testing.T) {
	failing := &countingProbe{err: errBoom}
	working := &countingProbe{size: Size{Width: 800, Height: 600}}

	size, err := FallbackScreen{Probes: []ScreenProbe{failing, working}}.ScreenSize(nil)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 800, Height: 600}, size)

	size, err = FallbackScreen{
		Probes:  []ScreenProbe{failing},
		Default: Size{Width: 1024, Height: 768},
	}.ScreenSize(nil)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 1024, Height: 768}, size)

	_, err = FallbackScreen{Probes: []ScreenProbe{failing}}.ScreenSize(nil)
	assert.ErrorIs(t, err, errBoom)
}

func TestDefaultScreenProbe(t *testing.T) {
	// Configured size wins without touching the browser
	size, err := DefaultScreenProbe(1366, 768).ScreenSize(nil)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 1366, Height: 768}, size)

	// Without a browser the window probe fails and the default applies
	size, err = DefaultScreenProbe(0, 0).ScreenSize(nil)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: DefaultScreenWidth, Height: DefaultScreenHeight}, size)
}
