// Package beans provides a registry of named singleton objects with support
// for circular-reference resolution and dependency-ordered destruction.
//
// The SingletonRegistry caches at most one instance per name. While an object
// is being created, the registry can hand out an early reference to it so
// that two objects depending on each other can still be wired together.
// When the registry is destroyed, objects are closed before the objects they
// depend on, and in reverse registration order otherwise.
//
// The FactoryBean type complements the registry: it wraps a creation
// strategy and exposes either a cached singleton or a fresh instance per
// call, with an optional early-reference hook for circular graphs.
package beans
