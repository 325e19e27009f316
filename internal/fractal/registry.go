package fractal

import (
	"fmt"
	"sort"
)

// Registry maps fractal names to default parameter factories.
type Registry struct {
	params map[string]func() Params
}

func NewRegistry() *Registry {
	r := &Registry{params: make(map[string]func() Params)}

	r.params["mandelbrot"] = DefaultMandelbrot
	r.params["julia"] = DefaultJulia

	return r
}

func (r *Registry) Get(name string) (Params, error) {
	fn, ok := r.params[name]
	if !ok {
		return Params{}, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.params))
	for name := range r.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
