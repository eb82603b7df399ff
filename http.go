package beans

import (
	"context"
	"net/http"
)

// RegistryKey is the type used to store a SingletonRegistry
// in the context.Context of an http.Request.
// By default, it is used in the R function and the HTTPMiddleware.
type RegistryKey string

// HTTPMiddleware adds the registry in the request context,
// so that handlers can retrieve singletons with R or Get.
func HTTPMiddleware(h http.HandlerFunc, registry *SingletonRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r.WithContext(
			context.WithValue(r.Context(), RegistryKey("beans"), registry),
		))
	}
}

// R retrieves a SingletonRegistry from an interface.
// The function panics if the registry can not be retrieved.
//
// The interface can be :
//   - a *SingletonRegistry
//   - an *http.Request containing a *SingletonRegistry in its context.Context
//     for the RegistryKey("beans") key.
var R = func(i interface{}) *SingletonRegistry {
	if r, ok := i.(*SingletonRegistry); ok {
		return r
	}

	req, ok := i.(*http.Request)
	if !ok {
		panic("could not get the registry with R()")
	}

	r, ok := req.Context().Value(RegistryKey("beans")).(*SingletonRegistry)
	if !ok {
		panic("could not get the registry from the given *http.Request")
	}

	return r
}

// Get is a shortcut for R(i).GetSingleton(name).
// It panics if the singleton is not registered.
func Get(i interface{}, name string) interface{} {
	obj, ok := R(i).GetSingleton(name)
	if !ok {
		panic("could not get `" + name + "` because it is not registered")
	}
	return obj
}
