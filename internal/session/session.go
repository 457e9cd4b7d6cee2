// Package session holds the state of the running measurement session: which
// scene the user is measuring over, which rendering backend hosts it, and
// which mode is active. It also feeds dynamic log context.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/eric-ce/mapmeasure/pkg/core"
)

// Scene describes the surface measurements are drawn on.
type Scene struct {
	Name      string
	Renderer  string
	StartedAt time.Time
}

// Context holds the current scene and active mode.
type Context struct {
	mu    sync.RWMutex
	scene *Scene
	mode  core.Mode
}

// NewContext creates a Context with default values.
func NewContext() *Context {
	return &Context{
		scene: &Scene{Name: "no scene loaded"},
	}
}

// GetScene returns the current scene.
func (c *Context) GetScene() *Scene {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scene
}

// SetScene sets the current scene and stamps its start time if unset.
func (c *Context) SetScene(scene *Scene) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if scene.StartedAt.IsZero() {
		scene.StartedAt = time.Now()
	}
	c.scene = scene
}

// GetMode returns the active measurement mode.
func (c *Context) GetMode() core.Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// SetMode records the active measurement mode.
func (c *Context) SetMode(mode core.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
}

// LogAttrs returns the session attributes injected into every log record.
// Pass this to logging.NewContextHandler.
func (c *Context) LogAttrs() []slog.Attr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	attrs := []slog.Attr{
		slog.String("scene", c.scene.Name),
	}
	if c.scene.Renderer != "" {
		attrs = append(attrs, slog.String("renderer", c.scene.Renderer))
	}
	if c.mode != "" {
		attrs = append(attrs, slog.String("mode", string(c.mode)))
	}
	return attrs
}
