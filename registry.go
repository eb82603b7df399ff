package beans

import (
	"errors"
	"sync"
)

// ObjectFactory produces the early reference of a singleton that is still
// under construction. It is registered with AddSingletonFactory and consumed
// at most once.
type ObjectFactory func() interface{}

// Disposable is the destruction callback attached to a singleton with
// RegisterDisposable. It matches io.Closer so that any closeable object can
// be registered directly.
type Disposable interface {
	Close() error
}

// DisposableFunc makes a plain function usable as a Disposable.
type DisposableFunc func() error

func (f DisposableFunc) Close() error { return f() }

// suppressedErrorsLimit bounds the number of errors kept aside during one
// top-level creation attempt, to avoid unbounded growth on failure storms.
const suppressedErrorsLimit = 100

// SingletonRegistry caches at most one object instance per name.
//
// While an object is being created, the registry can expose an early
// reference to it, so that circular graphs can be wired without building a
// second, divergent instance. The registry also keeps track of which
// singleton depends on which, and destroys dependents before the singletons
// they depend on.
//
// Names pass through the embedded AliasRegistry, so a singleton registered
// under a canonical name can be retrieved through any of its aliases.
//
// A SingletonRegistry must be created with NewSingletonRegistry.
// All its methods are safe for concurrent use.
type SingletonRegistry struct {
	*AliasRegistry

	// m guards the three instance tiers, the registered-name set and the
	// creation/destruction flags. Everything that extends a creation
	// phase must synchronize on this lock, never on a second one that
	// could nest in the opposite order.
	m sync.RWMutex

	// singletonObjects contains the fully realized singletons.
	singletonObjects map[string]interface{}

	// earlySingletonObjects contains singletons exposed before the end of
	// their construction to break a circular reference.
	earlySingletonObjects map[string]interface{}

	// singletonFactories contains the factories able to produce the early
	// reference of a singleton. An entry is consumed at most once.
	singletonFactories map[string]ObjectFactory

	// registeredSingletons contains the registered names in
	// registration order.
	registeredSingletons *orderedSet

	// inCreation contains the names currently inside a creation call.
	inCreation map[string]struct{}

	// inCreationExclusions contains the names exempted from
	// creation checks.
	inCreationExclusions map[string]struct{}

	// suppressedErrors collects the errors set aside during the current
	// top-level creation attempt. recordingSuppressed is true while such
	// an attempt is running.
	suppressedErrors    []error
	recordingSuppressed bool

	// inDestruction is true while DestroySingletons is running.
	inDestruction bool

	// creationM serializes top-level singleton creations. It is never
	// acquired by nested creations, which go through a Creation.
	creationM sync.Mutex

	// disposables contains the destruction callbacks
	// in registration order.
	disposablesM    sync.Mutex
	disposables     map[string]Disposable
	disposableNames *orderedSet

	// graphs guards the three dependency maps below.
	graphs sync.Mutex

	// dependentBeans maps a name to the names depending on it.
	// Dependents are destroyed first.
	dependentBeans map[string]map[string]struct{}

	// beanDependencies is the mirror of dependentBeans:
	// it maps a name to the names it depends on.
	beanDependencies map[string]map[string]struct{}

	// containedBeans maps a name to the names it structurally contains.
	containedBeans map[string]map[string]struct{}

	logger Logger
}

// NewSingletonRegistry creates an empty SingletonRegistry.
// Destruction errors are logged with a BasicLogger;
// use SetLogger to change that.
func NewSingletonRegistry() *SingletonRegistry {
	return &SingletonRegistry{
		AliasRegistry:         NewAliasRegistry(),
		singletonObjects:      map[string]interface{}{},
		earlySingletonObjects: map[string]interface{}{},
		singletonFactories:    map[string]ObjectFactory{},
		registeredSingletons:  newOrderedSet(),
		inCreation:            map[string]struct{}{},
		inCreationExclusions:  map[string]struct{}{},
		disposables:           map[string]Disposable{},
		disposableNames:       newOrderedSet(),
		dependentBeans:        map[string]map[string]struct{}{},
		beanDependencies:      map[string]map[string]struct{}{},
		containedBeans:        map[string]map[string]struct{}{},
		logger:                &BasicLogger{},
	}
}

// SetLogger changes the Logger used to report destruction errors.
func (r *SingletonRegistry) SetLogger(logger Logger) {
	if logger == nil {
		logger = &MuteLogger{}
	}
	r.m.Lock()
	r.logger = logger
	r.m.Unlock()
}

// RegisterSingleton registers an already built object under the given name.
// It returns a *RegistrationConflictError if the name is already bound,
// even to the same object.
func (r *SingletonRegistry) RegisterSingleton(name string, object interface{}) error {
	if name == "" {
		return errors.New("name can not be empty")
	}
	if object == nil {
		return errors.New("object can not be nil")
	}

	name = r.CanonicalName(name)

	r.m.Lock()
	defer r.m.Unlock()

	if existing, ok := r.singletonObjects[name]; ok {
		return &RegistrationConflictError{
			Name:     name,
			Existing: existing,
			Object:   object,
		}
	}

	r.addSingleton(name, object)

	return nil
}

// addSingleton promotes an object into the fully realized tier and removes
// any early or factory-pending trace of the same name.
// It must be called with the registry lock held.
func (r *SingletonRegistry) addSingleton(name string, object interface{}) {
	r.singletonObjects[name] = object
	delete(r.singletonFactories, name)
	delete(r.earlySingletonObjects, name)
	r.registeredSingletons.Add(name)
}

// AddSingletonFactory registers a factory able to produce the early
// reference of the named singleton. It does nothing if the singleton is
// already fully realized.
//
// It is meant to be called right after a new instance has been allocated,
// before its fields are populated, so that circular dependents resolve to a
// consistent reference instead of building a duplicate.
func (r *SingletonRegistry) AddSingletonFactory(name string, factory ObjectFactory) {
	if factory == nil {
		return
	}

	name = r.CanonicalName(name)

	r.m.Lock()
	defer r.m.Unlock()

	if _, ok := r.singletonObjects[name]; ok {
		return
	}

	r.singletonFactories[name] = factory
	delete(r.earlySingletonObjects, name)
	r.registeredSingletons.Add(name)
}

// GetSingleton returns the fully realized singleton registered under the
// given name. It does not create anything and does not return early
// references: the second return value is false if the name is absent or
// still under construction.
func (r *SingletonRegistry) GetSingleton(name string) (interface{}, bool) {
	name = r.CanonicalName(name)

	r.m.RLock()
	defer r.m.RUnlock()

	object, ok := r.singletonObjects[name]
	return object, ok
}

// GetSingletonEarly returns the singleton registered under the given name,
// accepting an incomplete instance if the name is currently in creation.
//
// If allowEarlyReference is true and an early-reference factory has been
// registered for the name, the factory is consumed to produce the early
// reference. This is the mechanism that hands a not-yet-complete object to a
// concurrently constructing dependent.
func (r *SingletonRegistry) GetSingletonEarly(name string, allowEarlyReference bool) (interface{}, bool) {
	name = r.CanonicalName(name)

	r.m.RLock()
	if object, ok := r.singletonObjects[name]; ok {
		r.m.RUnlock()
		return object, true
	}
	if _, creating := r.inCreation[name]; !creating {
		r.m.RUnlock()
		return nil, false
	}
	if object, ok := r.earlySingletonObjects[name]; ok {
		r.m.RUnlock()
		return object, true
	}
	r.m.RUnlock()

	if !allowEarlyReference {
		return nil, false
	}

	r.m.Lock()
	defer r.m.Unlock()

	// Re-read all three tiers now that the full lock is held: the name may
	// have moved between tiers since the unlocked checks above. Dropping
	// any of these re-reads reintroduces a duplicate-early-reference bug
	// under contention.
	if object, ok := r.singletonObjects[name]; ok {
		return object, true
	}
	if object, ok := r.earlySingletonObjects[name]; ok {
		return object, true
	}
	factory, ok := r.singletonFactories[name]
	if !ok {
		return nil, false
	}

	object := factory()
	r.earlySingletonObjects[name] = object
	delete(r.singletonFactories, name)

	return object, true
}

// RemoveSingleton removes the name from every tier of the registry.
// It is used to unwind a failed eager registration;
// to destroy a singleton properly, use DestroySingleton.
func (r *SingletonRegistry) RemoveSingleton(name string) {
	name = r.CanonicalName(name)

	r.m.Lock()
	r.removeSingleton(name)
	r.m.Unlock()
}

// removeSingleton must be called with the registry lock held.
func (r *SingletonRegistry) removeSingleton(name string) {
	delete(r.singletonObjects, name)
	delete(r.singletonFactories, name)
	delete(r.earlySingletonObjects, name)
	r.registeredSingletons.Remove(name)
}

// ContainsSingleton returns true if a fully realized singleton
// is registered under the given name.
func (r *SingletonRegistry) ContainsSingleton(name string) bool {
	name = r.CanonicalName(name)

	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.singletonObjects[name]
	return ok
}

// SingletonNames returns the registered names in registration order,
// including the names that only have an early reference so far.
func (r *SingletonRegistry) SingletonNames() []string {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.registeredSingletons.Names()
}

// SingletonCount returns the number of registered names.
func (r *SingletonRegistry) SingletonCount() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.registeredSingletons.Len()
}

// IsCurrentlyInCreation returns true if the named singleton
// is currently inside a creation call.
func (r *SingletonRegistry) IsCurrentlyInCreation(name string) bool {
	name = r.CanonicalName(name)

	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.inCreation[name]
	return ok
}

// SetCurrentlyInCreation includes or excludes a name from creation checks.
// A name excluded with inCreation=false can re-enter its own creation
// without tripping the cycle detection.
func (r *SingletonRegistry) SetCurrentlyInCreation(name string, inCreation bool) {
	name = r.CanonicalName(name)

	r.m.Lock()
	defer r.m.Unlock()

	if inCreation {
		delete(r.inCreationExclusions, name)
	} else {
		r.inCreationExclusions[name] = struct{}{}
	}
}

// OnSuppressedError records an error encountered during the current
// top-level creation attempt, typically from a sibling branch of the object
// graph. The recorded errors are attached to the error that ultimately
// aborts the attempt, as the Related field of a *CreationError.
// At most suppressedErrorsLimit errors are kept.
func (r *SingletonRegistry) OnSuppressedError(err error) {
	if err == nil {
		return
	}

	r.m.Lock()
	defer r.m.Unlock()

	if r.recordingSuppressed && len(r.suppressedErrors) < suppressedErrorsLimit {
		r.suppressedErrors = append(r.suppressedErrors, err)
	}
}
