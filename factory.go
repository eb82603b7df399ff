package beans

import (
	"errors"
	"sync"
)

// FactoryBean wraps a deferred construction strategy.
//
// In singleton mode (the default), the product is built once, usually at
// initialization time with Init, and cached forever. In prototype mode
// (Prototype set to true), every call to Object builds a fresh instance and
// nothing is cached or destroyed.
//
// When a circular reference reaches back into a singleton FactoryBean whose
// product is not finished yet, Object returns an early reference built by
// the EarlyReference hook instead of blocking or re-entering the
// construction. Go has no dynamic proxies, so the hook has to build the
// stand-in by hand: it receives a resolve function and should return a value
// of the product's interface type that forwards every call to the object
// returned by resolve. The resolve function fails with a
// *NotInitializedError until Init has completed, and returns the real
// product forever after. Without a hook, an early request fails with a
// *NotInitializedError rather than pretending to support a circular
// reference it structurally can not satisfy.
type FactoryBean struct {
	// Create builds the product. Its error is propagated unmodified.
	Create func() (interface{}, error)

	// Destroy releases the product. Optional. It only ever runs in
	// singleton mode, at most once, from Close.
	Destroy func(object interface{}) error

	// Prototype makes Object build a fresh instance on every call.
	Prototype bool

	// EarlyReference builds the stand-in handed out for a product still
	// under construction. Optional.
	EarlyReference func(resolve func() (interface{}, error)) interface{}

	m            sync.Mutex
	initializing bool
	initialized  bool
	object       interface{}
	early        interface{}
	earlyBuilt   bool
	closed       bool
}

// IsSingleton returns true if the FactoryBean caches a single product.
func (f *FactoryBean) IsSingleton() bool {
	return !f.Prototype
}

// Init eagerly builds the singleton product. It runs the Create strategy at
// most once; further calls are no-ops, including calls made while a Create is
// already in flight. It does nothing in prototype mode.
//
// Create runs outside the FactoryBean lock: a circular reference that reaches
// back into Object while the construction is running gets the early reference
// instead of blocking.
func (f *FactoryBean) Init() error {
	if f.Prototype {
		return nil
	}
	if f.Create == nil {
		return errors.New("FactoryBean requires a Create function")
	}

	f.m.Lock()
	if f.initialized || f.initializing {
		f.m.Unlock()
		return nil
	}
	f.initializing = true
	f.m.Unlock()

	object, err := f.Create()

	f.m.Lock()
	defer f.m.Unlock()

	f.initializing = false

	if err != nil {
		return err
	}

	f.object = object
	f.initialized = true

	// The early reference is not needed anymore: from now on every
	// forwarded call resolves to the real product.
	f.early = nil
	f.earlyBuilt = false

	return nil
}

// Object returns the product of the FactoryBean.
//
// Singleton mode: the cached product once Init has completed, an early
// reference before that. Prototype mode: a fresh instance on every call.
func (f *FactoryBean) Object() (interface{}, error) {
	if f.Create == nil {
		return nil, errors.New("FactoryBean requires a Create function")
	}

	if f.Prototype {
		return f.Create()
	}

	f.m.Lock()
	defer f.m.Unlock()

	if f.initialized {
		return f.object, nil
	}

	if f.EarlyReference == nil {
		return nil, &NotInitializedError{
			Reason: "the product is still under construction and no EarlyReference hook is set",
		}
	}

	if !f.earlyBuilt {
		f.early = f.EarlyReference(f.resolve)
		f.earlyBuilt = true
	}

	return f.early, nil
}

// resolve is the accessor handed to the EarlyReference hook.
// It must not be called from inside the hook itself.
func (f *FactoryBean) resolve() (interface{}, error) {
	f.m.Lock()
	defer f.m.Unlock()

	if !f.initialized {
		return nil, &NotInitializedError{
			Reason: "the early reference was used before the end of the construction",
		}
	}

	return f.object, nil
}

// Close runs the Destroy strategy on the singleton product, at most once.
// Unlike the registry's destruction loop, Close propagates the error of the
// Destroy strategy to its caller. It does nothing in prototype mode or when
// the product was never initialized.
func (f *FactoryBean) Close() error {
	if f.Prototype {
		return nil
	}

	f.m.Lock()
	defer f.m.Unlock()

	if f.closed || !f.initialized {
		f.closed = true
		return nil
	}
	f.closed = true

	if f.Destroy == nil {
		return nil
	}

	return f.Destroy(f.object)
}
