package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	v := New()
	require.NoError(t, ReadFile(v, ""))
	c, err := Resolve(v)
	require.NoError(t, err)
	require.Equal(t, "inference_results.json", c.Input)
	require.Equal(t, "trajectory_plot.png", c.Output)
	require.Equal(t, 100.0, c.DPI)
	require.Equal(t, 10.0, c.WidthIn)
	require.Equal(t, 6.0, c.HeightIn)
	require.False(t, c.ShowResilience)
	require.Equal(t, 200*time.Millisecond, c.WatchDebounce)

	pc := c.Plot()
	require.Equal(t, c.Input, pc.Input)
	require.Equal(t, 100.0, pc.Render.DPI)
}

func TestPrecedenceFileEnvFlag(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("trajplot.yaml", []byte("dpi: 120\ncaption: from-file\nshow_resilience: true\noutput: file.png\n"), 0o644))
	t.Setenv("TRAJPLOT_DPI", "150")

	v := New()
	require.NoError(t, ReadFile(v, ""))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("output", "trajectory_plot.png", "")
	fs.Float64("dpi", 100, "")
	require.NoError(t, BindFlags(v, fs))
	require.NoError(t, fs.Parse([]string{"--output", "flag.png"}))

	c, err := Resolve(v)
	require.NoError(t, err)
	require.Equal(t, "flag.png", c.Output, "set flag wins over file")
	require.Equal(t, 150.0, c.DPI, "env wins over file when flag unset")
	require.Equal(t, "from-file", c.Caption)
	require.True(t, c.ShowResilience)
}

func TestExplicitConfigFileMustExist(t *testing.T) {
	chdir(t, t.TempDir())
	v := New()
	require.Error(t, ReadFile(v, "nope.yaml"))
}

func TestLoadEnvFile(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, LoadEnvFile("")) // absent is fine
	require.NoError(t, os.WriteFile(".env", []byte("TRAJPLOT_CAPTION=from-dotenv\n"), 0o644))
	t.Setenv("TRAJPLOT_CAPTION", "")
	os.Unsetenv("TRAJPLOT_CAPTION")
	require.NoError(t, LoadEnvFile(""))
	c, err := Resolve(New())
	require.NoError(t, err)
	require.Equal(t, "from-dotenv", c.Caption)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	base, err := Resolve(New())
	require.NoError(t, err)

	bad := base
	bad.DPI = 0
	bad.Output = " "
	err = bad.Validate()
	require.ErrorContains(t, err, "dpi must be positive")
	require.ErrorContains(t, err, "output path is empty")

	bad = base
	bad.WidthIn = -1
	require.ErrorContains(t, bad.Validate(), "figure size")

	bad = base
	bad.WatchDebounce = -time.Second
	require.Error(t, bad.Validate())
}
