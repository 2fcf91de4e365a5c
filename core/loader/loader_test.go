package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	loadErr error
	loaded  bool
}

func (f *stubFeature) Name() string      { return f.name }
func (f *stubFeature) IsEnabled() bool   { return f.enabled }
func (f *stubFeature) Load(fiber.Router) error {
	f.loaded = true
	return f.loadErr
}

func TestLoadAllSkipsDisabled(t *testing.T) {
	enabled := &stubFeature{name: "on", enabled: true}
	disabled := &stubFeature{name: "off"}

	mgr := NewManager()
	mgr.Register(enabled)
	mgr.Register(disabled)

	err := mgr.LoadAll(fiber.New())
	assert.NoError(t, err)
	assert.True(t, enabled.loaded)
	assert.False(t, disabled.loaded)
}

func TestLoadAllStopsOnError(t *testing.T) {
	failing := &stubFeature{name: "bad", enabled: true, loadErr: errors.New("boom")}
	after := &stubFeature{name: "later", enabled: true}

	mgr := NewManager()
	mgr.Register(failing)
	mgr.Register(after)

	err := mgr.LoadAll(fiber.New())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	assert.False(t, after.loaded)
}
