package beans

import (
	"fmt"
	"runtime/debug"
)

// RegisterDisposable attaches a destruction callback to the given name.
// The callback is invoked when the singleton is destroyed, either
// individually with DestroySingleton or during DestroySingletons.
// Registration order matters: DestroySingletons processes the callbacks in
// reverse registration order.
func (r *SingletonRegistry) RegisterDisposable(name string, disposable Disposable) {
	if disposable == nil {
		return
	}

	name = r.CanonicalName(name)

	r.disposablesM.Lock()
	r.disposables[name] = disposable
	r.disposableNames.Add(name)
	r.disposablesM.Unlock()
}

// DestroySingleton removes the named singleton from the registry and runs
// its destruction callback, after having destroyed its dependents.
// Destruction errors are logged, never propagated: a misbehaving callback
// must not prevent the rest of the graph from being torn down.
func (r *SingletonRegistry) DestroySingleton(name string) {
	name = r.CanonicalName(name)

	r.m.Lock()
	r.removeSingleton(name)
	r.m.Unlock()

	r.disposablesM.Lock()
	disposable := r.disposables[name]
	delete(r.disposables, name)
	r.disposableNames.Remove(name)
	r.disposablesM.Unlock()

	r.destroyBean(name, disposable)
}

// destroyBean destroys the dependents of the name, then runs its destruction
// callback, then destroys the singletons it contains, and finally prunes the
// name from the dependency graphs.
func (r *SingletonRegistry) destroyBean(name string, disposable Disposable) {
	// Dependents first; detach their set before recursing
	// so that a dependency cycle can not recurse forever.
	r.graphs.Lock()
	dependents := copyNames(r.dependentBeans[name])
	delete(r.dependentBeans, name)
	r.graphs.Unlock()

	for _, dependent := range dependents {
		r.DestroySingleton(dependent)
	}

	if disposable != nil {
		r.closeDisposable(name, disposable)
	}

	r.graphs.Lock()
	contained := copyNames(r.containedBeans[name])
	delete(r.containedBeans, name)
	r.graphs.Unlock()

	for _, containedName := range contained {
		r.DestroySingleton(containedName)
	}

	r.graphs.Lock()
	for other, dependentSet := range r.dependentBeans {
		delete(dependentSet, name)
		if len(dependentSet) == 0 {
			delete(r.dependentBeans, other)
		}
	}
	delete(r.beanDependencies, name)
	r.graphs.Unlock()
}

// closeDisposable runs a destruction callback,
// logging its error or panic instead of propagating it.
func (r *SingletonRegistry) closeDisposable(name string, disposable Disposable) {
	r.m.RLock()
	logger := r.logger
	r.m.RUnlock()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error(fmt.Sprintf(
				"could not destroy `%s` err=%v stack=%s",
				name, rec, debug.Stack(),
			))
		}
	}()

	if err := disposable.Close(); err != nil {
		logger.Error(fmt.Sprintf("could not destroy `%s` err=%v", name, err))
	}
}

// DestroySingletons destroys every registered singleton. The destruction
// callbacks run in reverse registration order, dependents still being
// destroyed before the singletons they depend on. While the destruction is
// running, GetOrCreateSingleton refuses to create anything.
//
// Calling DestroySingletons on an empty registry is a no-op,
// so calling it twice in a row is safe.
func (r *SingletonRegistry) DestroySingletons() {
	r.m.Lock()
	r.inDestruction = true
	r.m.Unlock()

	r.disposablesM.Lock()
	names := r.disposableNames.Names()
	r.disposablesM.Unlock()

	for i := len(names) - 1; i >= 0; i-- {
		r.DestroySingleton(names[i])
	}

	r.graphs.Lock()
	r.dependentBeans = map[string]map[string]struct{}{}
	r.beanDependencies = map[string]map[string]struct{}{}
	r.containedBeans = map[string]map[string]struct{}{}
	r.graphs.Unlock()

	r.m.Lock()
	r.singletonObjects = map[string]interface{}{}
	r.earlySingletonObjects = map[string]interface{}{}
	r.singletonFactories = map[string]ObjectFactory{}
	r.registeredSingletons.Clear()
	r.inDestruction = false
	r.m.Unlock()
}
