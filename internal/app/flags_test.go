package app

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.ini")
	require.NoError(t, os.WriteFile(path, []byte(`
[geometry]
num-layers = 5

[world]
scene = rain
seed = 3
`), 0o644))

	c := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.Bind(fs)
	require.NoError(t, fs.Parse([]string{"-config", path, "-seed", "11", "-draw", "outline"}))
	require.NoError(t, c.Resolve(fs))

	assert.Equal(t, 5, c.World.Geometry.NumLayers)
	assert.Equal(t, "rain", c.World.Scene)
	assert.Equal(t, int64(11), c.World.Seed)
	assert.Equal(t, "outline", c.DrawMode)
}

func TestResolveRejectsBadInput(t *testing.T) {
	c := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.Bind(fs)
	require.NoError(t, fs.Parse([]string{"-draw", "sketch"}))
	assert.Error(t, c.Resolve(fs))

	c = NewConfig()
	c.ConfigFile = filepath.Join(t.TempDir(), "missing.ini")
	assert.Error(t, c.Resolve(flag.NewFlagSet("empty", flag.ContinueOnError)))
}

func TestDefaults(t *testing.T) {
	c := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.Bind(fs)
	require.NoError(t, fs.Parse(nil))
	require.NoError(t, c.Resolve(fs))
	assert.Equal(t, "planet", c.World.Scene)
	assert.Equal(t, "textured", c.DrawMode)
	assert.Equal(t, 1, c.LOD)
}
