package plugin

import "fmt"

// Registry holds the known plugins in registration order.
type Registry struct {
	plugins []Plugin
	byName  map[string]Plugin
}

// NewRegistry returns a registry populated with the given plugins. It
// panics on duplicate names; registration happens at startup with a fixed
// plugin set, so a duplicate is a programming error.
func NewRegistry(plugins ...Plugin) *Registry {
	r := &Registry{byName: make(map[string]Plugin)}
	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a plugin to the registry.
func (r *Registry) Register(p Plugin) error {
	name := p.Descriptor().Name
	if name == "" {
		return fmt.Errorf("cannot register plugin without a name")
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("plugin %q already registered", name)
	}
	r.byName[name] = p
	r.plugins = append(r.plugins, p)
	return nil
}

// Plugins returns the registered plugins in registration order.
func (r *Registry) Plugins() []Plugin {
	return r.plugins
}

// Find returns the plugin registered under the given name.
func (r *Registry) Find(name string) (Plugin, bool) {
	p, ok := r.byName[name]
	return p, ok
}
