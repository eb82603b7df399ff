package beans

import (
	"errors"
	"fmt"
)

// Factory builds a fully realized singleton. The Creation argument carries
// the current construction path: a Factory that needs another singleton must
// request it through the Creation, otherwise cycles in the object graph can
// not be detected.
type Factory func(c *Creation) (interface{}, error)

// Creation tracks the names on the current construction path.
// A Creation is handed to every Factory; it must not be retained
// after the Factory returns.
type Creation struct {
	registry *SingletonRegistry
	path     []string
}

// Registry returns the SingletonRegistry this creation runs in.
func (c *Creation) Registry() *SingletonRegistry {
	return c.registry
}

// Path returns the names on the construction path, in order.
func (c *Creation) Path() []string {
	path := make([]string, len(c.path))
	copy(path, c.path)
	return path
}

// GetOrCreateSingleton requests a singleton from inside a Factory.
// It behaves like SingletonRegistry.GetOrCreateSingleton but keeps track of
// the construction path, so that a graph that loops back on itself fails
// with a *CurrentlyInCreationError instead of hanging.
func (c *Creation) GetOrCreateSingleton(name string, factory Factory) (interface{}, error) {
	return c.registry.getOrCreateSingleton(c, name, factory)
}

func (c *Creation) onPath(name string) bool {
	for _, n := range c.path {
		if n == name {
			return true
		}
	}
	return false
}

// GetOrCreateSingleton returns the singleton registered under the given
// name, creating it with the factory if needed. The factory is invoked at
// most once per name for the registry's lifetime, no matter how many
// goroutines request the singleton concurrently.
//
// Top-level creations are serialized: while a factory runs, other callers of
// GetOrCreateSingleton wait, whatever the name they request. Singletons that
// the factory needs must be requested through the Creation it receives.
//
// It fails with a *CreationNotAllowedError while DestroySingletons is
// running, and with a *CurrentlyInCreationError when the construction loops
// back on a name already on the construction path.
func (r *SingletonRegistry) GetOrCreateSingleton(name string, factory Factory) (interface{}, error) {
	name = r.CanonicalName(name)

	// Common case first: the singleton already exists.
	r.m.RLock()
	object, ok := r.singletonObjects[name]
	r.m.RUnlock()
	if ok {
		return object, nil
	}

	r.creationM.Lock()
	defer r.creationM.Unlock()

	return r.getOrCreateSingleton(&Creation{registry: r}, name, factory)
}

func (r *SingletonRegistry) getOrCreateSingleton(c *Creation, name string, factory Factory) (interface{}, error) {
	if factory == nil {
		return nil, fmt.Errorf("could not create `%s`: the factory is nil", name)
	}

	name = r.CanonicalName(name)

	r.m.Lock()

	if object, ok := r.singletonObjects[name]; ok {
		r.m.Unlock()
		return object, nil
	}

	if r.inDestruction {
		r.m.Unlock()
		return nil, &CreationNotAllowedError{Name: name}
	}

	_, excluded := r.inCreationExclusions[name]

	if !excluded {
		if c.onPath(name) {
			err := &CurrentlyInCreationError{
				Name: name,
				Path: append(c.Path(), name),
			}
			r.m.Unlock()
			return nil, err
		}
		r.inCreation[name] = struct{}{}
	}

	// The first creation on the path owns the suppressed-error set.
	record := !r.recordingSuppressed
	if record {
		r.recordingSuppressed = true
		r.suppressedErrors = nil
	}

	r.m.Unlock()

	if !excluded {
		c.path = append(c.path, name)
	}

	object, err := invokeFactory(c, name, factory)

	r.m.Lock()
	defer r.m.Unlock()

	if !excluded {
		c.path = c.path[:len(c.path)-1]
		delete(r.inCreation, name)
	}

	created := err == nil

	if err != nil {
		// A registration conflict can mean that the singleton appeared
		// through an implicit side channel while the factory was
		// running. Re-check before propagating.
		var conflict *RegistrationConflictError
		if errors.As(err, &conflict) {
			if existing, ok := r.singletonObjects[name]; ok {
				object, err = existing, nil
			}
		}
	}

	if err != nil && record && len(r.suppressedErrors) > 0 {
		err = &CreationError{
			Name:    name,
			Cause:   err,
			Related: r.suppressedErrors,
		}
	}

	if record {
		r.recordingSuppressed = false
		r.suppressedErrors = nil
	}

	if err != nil {
		// The attempt may have registered an early reference or a
		// pending factory before failing. Purge them so that a retry
		// starts from a clean slate instead of reviving a stale
		// reference.
		r.removeSingleton(name)
		return nil, err
	}

	if created {
		// Destruction may have started while the factory was running.
		// Promoting the object now would resurrect it after the bulk
		// clear, so refuse it like a creation arriving late.
		if r.inDestruction {
			r.removeSingleton(name)
			return nil, &CreationNotAllowedError{Name: name}
		}
		r.addSingleton(name, object)
	}

	return object, nil
}

// invokeFactory runs the factory, turning a panic into an error.
func invokeFactory(c *Creation, name string, factory Factory) (object interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("could not create `%s` because the factory panicked: %+v", name, rec)
		}
	}()

	return factory(c)
}
