package plugin

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name    string
	initErr error
	log     *[]string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Initialize(EngineAPI) error {
	*r.log = append(*r.log, "init "+r.name)
	return r.initErr
}

func (r *recorder) Shutdown() error {
	*r.log = append(*r.log, "shutdown "+r.name)
	return nil
}

func TestManagerLifecycle(t *testing.T) {
	var log []string
	m := NewManager()
	require.NoError(t, m.Register(&recorder{name: "b", log: &log}))
	require.NoError(t, m.Register(&recorder{name: "a", log: &log}))
	require.NoError(t, m.Register(&recorder{name: "broken", initErr: errors.New("boom"), log: &log}))

	assert.Error(t, m.Register(&recorder{name: "a", log: &log}), "duplicate name")
	assert.Error(t, m.Register(&recorder{name: "", log: &log}), "empty name")
	assert.Equal(t, []string{"a", "b", "broken"}, m.Names())

	m.InitializePlugins(nil)
	m.ShutdownPlugins()
	assert.Equal(t, []string{
		"init a", "init b", "init broken",
		"shutdown b", "shutdown a",
	}, log)

	m.ShutdownPlugins()
	assert.Len(t, log, 5, "second shutdown is a no-op")
}

func TestDecodeConfig(t *testing.T) {
	type settings struct {
		Enabled  bool          `mapstructure:"enabled"`
		Path     string        `mapstructure:"path"`
		Interval time.Duration `mapstructure:"interval"`
		Limit    int           `mapstructure:"limit"`
	}

	s := settings{Interval: time.Minute}
	require.NoError(t, DecodeConfig(map[string]any{
		"enabled":  true,
		"path":     "deck.yaml",
		"interval": "5s",
		"limit":    int64(3),
	}, &s))
	assert.Equal(t, settings{Enabled: true, Path: "deck.yaml", Interval: 5 * time.Second, Limit: 3}, s)

	keep := settings{Path: "x"}
	require.NoError(t, DecodeConfig(nil, &keep))
	assert.Equal(t, "x", keep.Path)

	assert.Error(t, DecodeConfig(map[string]any{"interval": "soon"}, &s))
	assert.Error(t, DecodeConfig(map[string]any{"unknown": 1}, &s))
}
