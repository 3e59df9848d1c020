// Package scene indexes the scenes of a package and materializes them into a
// live world.
package scene

import (
	"errors"
	"fmt"

	"github.com/plus3/redback/pack"
)

// DefaultSceneName is the scene started first when present.
const DefaultSceneName = "Default"

var ErrDuplicateScene = errors.New("duplicate scene name")

// Catalogue is a read-only index of scenes by name.
type Catalogue struct {
	scenes  map[string]*pack.SceneConfig
	order   []string
	scripts map[string]string
}

// NewCatalogue indexes data. Scene names must be unique.
func NewCatalogue(data *pack.RuntimeData) (*Catalogue, error) {
	c := &Catalogue{
		scenes:  make(map[string]*pack.SceneConfig, len(data.Scenes)),
		scripts: data.Scripts,
	}
	for i := range data.Scenes {
		scene := &data.Scenes[i]
		if _, ok := c.scenes[scene.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateScene, scene.Name)
		}
		c.scenes[scene.Name] = scene
		c.order = append(c.order, scene.Name)
	}
	return c, nil
}

func (c *Catalogue) Lookup(name string) (*pack.SceneConfig, bool) {
	scene, ok := c.scenes[name]
	return scene, ok
}

// DefaultSceneName returns "Default" if such a scene exists, otherwise the
// first declared scene. It returns false for an empty catalogue.
func (c *Catalogue) DefaultSceneName() (string, bool) {
	if _, ok := c.scenes[DefaultSceneName]; ok {
		return DefaultSceneName, true
	}
	if len(c.order) == 0 {
		return "", false
	}
	return c.order[0], true
}

// Names returns scene names in declaration order.
func (c *Catalogue) Names() []string {
	return append([]string(nil), c.order...)
}

// Scripts returns the script sources by name. Callers must not modify it.
func (c *Catalogue) Scripts() map[string]string {
	return c.scripts
}

func (c *Catalogue) Len() int {
	return len(c.order)
}
