package beans

import (
	"fmt"
	"strings"
)

// RegistrationConflictError is returned when an object is registered under a
// name that is already bound to another object. The first registration wins,
// even if both registrations carry the same object.
type RegistrationConflictError struct {
	// Name is the singleton name that is already bound.
	Name string
	// Existing is the object currently bound to the name.
	Existing interface{}
	// Object is the object whose registration was rejected.
	Object interface{}
}

func (e *RegistrationConflictError) Error() string {
	return fmt.Sprintf(
		"could not register object [%v] under name `%s`: object [%v] is already bound",
		e.Object, e.Name, e.Existing,
	)
}

// CurrentlyInCreationError is returned when the creation of a singleton
// re-enters itself, directly or through intermediate singletons. The registry
// cannot break such a cycle on its own; one of the objects involved has to be
// rewired, for example by exposing an early reference with
// AddSingletonFactory.
type CurrentlyInCreationError struct {
	// Name is the singleton whose creation was re-entered.
	Name string
	// Path contains the names on the construction path, in order,
	// ending with the re-entered name.
	Path []string
}

func (e *CurrentlyInCreationError) Error() string {
	return fmt.Sprintf(
		"could not create `%s` because it is already in creation (path [%s])",
		e.Name, strings.Join(e.Path, " -> "),
	)
}

// CreationNotAllowedError is returned by GetOrCreateSingleton while the
// registry is destroying its singletons. Do not request a singleton from a
// Close function: the registry refuses to resurrect state that is being torn
// down.
type CreationNotAllowedError struct {
	Name string
}

func (e *CreationNotAllowedError) Error() string {
	return fmt.Sprintf(
		"could not create `%s` because the registry is currently destroying its singletons",
		e.Name,
	)
}

// NotInitializedError is returned by a FactoryBean when its product is
// requested before initialization and no early reference can be built,
// or when an early reference is asked to resolve its target too soon.
type NotInitializedError struct {
	// Reason describes the unsupported condition.
	Reason string
}

func (e *NotInitializedError) Error() string {
	return "factory bean is not initialized: " + e.Reason
}

// CreationError wraps the error that aborted a singleton creation together
// with the errors that were suppressed during the same top-level creation
// attempt, for example failures from sibling branches of the object graph.
// The number of related errors is capped; see OnSuppressedError.
type CreationError struct {
	// Name is the singleton whose creation failed.
	Name string
	// Cause is the error raised by the creation function.
	Cause error
	// Related contains the errors suppressed during the attempt.
	Related []error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf(
		"could not create `%s`: %v (%d related errors)",
		e.Name, e.Cause, len(e.Related),
	)
}

// Unwrap returns the error raised by the creation function.
func (e *CreationError) Unwrap() error {
	return e.Cause
}
