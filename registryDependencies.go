package beans

import "sort"

// RegisterDependentBean records that dependentName depends on name.
// When the named singleton is destroyed, its dependents are destroyed first.
func (r *SingletonRegistry) RegisterDependentBean(name, dependentName string) {
	name = r.CanonicalName(name)
	dependentName = r.CanonicalName(dependentName)

	r.graphs.Lock()
	defer r.graphs.Unlock()

	addEdge(r.dependentBeans, name, dependentName)
	addEdge(r.beanDependencies, dependentName, name)
}

// RegisterContainedBean records that containingName structurally contains
// containedName, an outer composite and one of its inner parts for example.
// Containment implies a dependency in the same direction: the containing
// singleton is destroyed before the contained one.
func (r *SingletonRegistry) RegisterContainedBean(containedName, containingName string) {
	containedName = r.CanonicalName(containedName)
	containingName = r.CanonicalName(containingName)

	r.graphs.Lock()
	addEdge(r.containedBeans, containingName, containedName)
	r.graphs.Unlock()

	r.RegisterDependentBean(containedName, containingName)
}

// IsDependent returns true if dependentName depends on name,
// directly or transitively.
func (r *SingletonRegistry) IsDependent(name, dependentName string) bool {
	name = r.CanonicalName(name)
	dependentName = r.CanonicalName(dependentName)

	r.graphs.Lock()
	defer r.graphs.Unlock()

	return r.isDependent(name, dependentName, map[string]struct{}{})
}

// isDependent must be called with the graphs lock held. The seen set guards
// against dependency graphs that loop back on themselves.
func (r *SingletonRegistry) isDependent(name, dependentName string, seen map[string]struct{}) bool {
	if _, ok := seen[name]; ok {
		return false
	}
	seen[name] = struct{}{}

	dependents, ok := r.dependentBeans[name]
	if !ok {
		return false
	}
	if _, ok := dependents[dependentName]; ok {
		return true
	}
	for dependent := range dependents {
		if r.isDependent(dependent, dependentName, seen) {
			return true
		}
	}

	return false
}

// HasDependentBean returns true if at least one singleton
// depends on the given name.
func (r *SingletonRegistry) HasDependentBean(name string) bool {
	name = r.CanonicalName(name)

	r.graphs.Lock()
	defer r.graphs.Unlock()

	return len(r.dependentBeans[name]) > 0
}

// DependentBeans returns the names of the singletons depending on the given
// name. It returns an empty slice, never nil, when there is none.
func (r *SingletonRegistry) DependentBeans(name string) []string {
	name = r.CanonicalName(name)

	r.graphs.Lock()
	defer r.graphs.Unlock()

	return sortedNames(r.dependentBeans[name])
}

// DependenciesForBean returns the names of the singletons the given name
// depends on. It returns an empty slice, never nil, when there is none.
func (r *SingletonRegistry) DependenciesForBean(name string) []string {
	name = r.CanonicalName(name)

	r.graphs.Lock()
	defer r.graphs.Unlock()

	return sortedNames(r.beanDependencies[name])
}

func addEdge(graph map[string]map[string]struct{}, from, to string) {
	set, ok := graph[from]
	if !ok {
		set = map[string]struct{}{}
		graph[from] = set
	}
	set[to] = struct{}{}
}

func sortedNames(set map[string]struct{}) []string {
	names := copyNames(set)
	sort.Strings(names)
	return names
}
