package beans

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// greeter is the product interface used in the factory bean tests.
type greeter interface {
	Greet() string
}

type simpleGreeter struct {
	greeting string
}

func (g *simpleGreeter) Greet() string { return g.greeting }

// forwardingGreeter is a hand-written stand-in for a greeter that is still
// under construction. Every call resolves the real product first.
type forwardingGreeter struct {
	resolve func() (interface{}, error)
}

func (g *forwardingGreeter) Greet() string {
	target, err := g.resolve()
	if err != nil {
		panic(err)
	}
	return target.(greeter).Greet()
}

func TestFactoryBeanSingleton(t *testing.T) {
	calls := 0

	f := &FactoryBean{
		Create: func() (interface{}, error) {
			calls++
			return &simpleGreeter{greeting: "hello"}, nil
		},
	}

	require.True(t, f.IsSingleton())

	require.Nil(t, f.Init())
	require.Nil(t, f.Init(), "Init is idempotent")
	require.Equal(t, 1, calls)

	obj1, err := f.Object()
	require.Nil(t, err)
	obj2, err := f.Object()
	require.Nil(t, err)

	require.Same(t, obj1, obj2)
	require.Equal(t, "hello", obj1.(greeter).Greet())
	require.Equal(t, 1, calls)
}

func TestFactoryBeanPrototype(t *testing.T) {
	calls := 0

	f := &FactoryBean{
		Prototype: true,
		Create: func() (interface{}, error) {
			calls++
			return &simpleGreeter{greeting: fmt.Sprintf("hello %d", calls)}, nil
		},
	}

	require.False(t, f.IsSingleton())
	require.Nil(t, f.Init(), "Init does nothing in prototype mode")
	require.Equal(t, 0, calls)

	obj1, err := f.Object()
	require.Nil(t, err)
	obj2, err := f.Object()
	require.Nil(t, err)

	require.NotSame(t, obj1, obj2)
	require.Equal(t, "hello 1", obj1.(greeter).Greet())
	require.Equal(t, "hello 2", obj2.(greeter).Greet())
}

func TestFactoryBeanCreateError(t *testing.T) {
	boom := errors.New("boom")

	f := &FactoryBean{
		Create: func() (interface{}, error) {
			return nil, boom
		},
	}

	require.Same(t, boom, f.Init(), "the creation error is propagated unmodified")

	f = &FactoryBean{}
	require.NotNil(t, f.Init())
	_, err := f.Object()
	require.NotNil(t, err)
}

func TestFactoryBeanEarlyReferenceWithoutHook(t *testing.T) {
	f := &FactoryBean{
		Create: func() (interface{}, error) {
			return &simpleGreeter{}, nil
		},
	}

	// the product is requested before Init and no hook is set
	_, err := f.Object()
	require.NotNil(t, err)

	var notInitialized *NotInitializedError
	require.True(t, errors.As(err, &notInitialized))
}

func TestFactoryBeanEarlyReference(t *testing.T) {
	f := &FactoryBean{
		Create: func() (interface{}, error) {
			return &simpleGreeter{greeting: "hello"}, nil
		},
		EarlyReference: func(resolve func() (interface{}, error)) interface{} {
			return &forwardingGreeter{resolve: resolve}
		},
	}

	early1, err := f.Object()
	require.Nil(t, err)
	early2, err := f.Object()
	require.Nil(t, err)
	require.Same(t, early1, early2, "the early reference is built once")

	// forwarding before the end of the construction fails
	require.Panics(t, func() {
		early1.(greeter).Greet()
	})

	require.Nil(t, f.Init())

	// the same early reference now reaches the real product
	require.Equal(t, "hello", early1.(greeter).Greet())

	// once initialized, Object returns the product itself
	obj, err := f.Object()
	require.Nil(t, err)
	require.NotSame(t, early1, obj)
	require.Equal(t, "hello", obj.(greeter).Greet())
}

// TestFactoryBeanReentrantDuringInit covers a construction that loops back
// into the factory bean: Create requests the product it is itself building.
// The request must yield the early reference instead of blocking on the
// factory bean lock.
func TestFactoryBeanReentrantDuringInit(t *testing.T) {
	var early interface{}

	f := &FactoryBean{
		EarlyReference: func(resolve func() (interface{}, error)) interface{} {
			return &forwardingGreeter{resolve: resolve}
		},
	}
	f.Create = func() (interface{}, error) {
		obj, err := f.Object()
		if err != nil {
			return nil, err
		}
		early = obj

		require.Nil(t, f.Init(), "a nested Init is a no-op, not a recursion")

		return &simpleGreeter{greeting: "hello"}, nil
	}

	require.Nil(t, f.Init())

	require.NotNil(t, early)
	require.Equal(t, "hello", early.(greeter).Greet(), "the reference handed out during the construction forwards to the finished product")

	obj, err := f.Object()
	require.Nil(t, err)
	require.Equal(t, "hello", obj.(greeter).Greet())
}

func TestFactoryBeanClose(t *testing.T) {
	destroyed := 0

	f := &FactoryBean{
		Create: func() (interface{}, error) {
			return &simpleGreeter{greeting: "hello"}, nil
		},
		Destroy: func(object interface{}) error {
			destroyed++
			require.Equal(t, "hello", object.(greeter).Greet())
			return nil
		},
	}

	// nothing to destroy before initialization
	require.Nil(t, f.Close())
	require.Equal(t, 0, destroyed)
}

func TestFactoryBeanCloseOnce(t *testing.T) {
	destroyed := 0

	f := &FactoryBean{
		Create: func() (interface{}, error) {
			return &simpleGreeter{}, nil
		},
		Destroy: func(object interface{}) error {
			destroyed++
			return nil
		},
	}

	require.Nil(t, f.Init())
	require.Nil(t, f.Close())
	require.Nil(t, f.Close(), "Close is idempotent")
	require.Equal(t, 1, destroyed)
}

func TestFactoryBeanCloseError(t *testing.T) {
	boom := errors.New("boom")

	f := &FactoryBean{
		Create: func() (interface{}, error) {
			return &simpleGreeter{}, nil
		},
		Destroy: func(object interface{}) error {
			return boom
		},
	}

	require.Nil(t, f.Init())

	// unlike the registry's destruction loop,
	// Close propagates the error to its caller
	require.Same(t, boom, f.Close())
}

func TestFactoryBeanPrototypeClose(t *testing.T) {
	destroyed := false

	f := &FactoryBean{
		Prototype: true,
		Create: func() (interface{}, error) {
			return &simpleGreeter{}, nil
		},
		Destroy: func(object interface{}) error {
			destroyed = true
			return nil
		},
	}

	_, err := f.Object()
	require.Nil(t, err)
	require.Nil(t, f.Close())
	require.False(t, destroyed, "prototype instances are not destroyed by the factory")
}

// TestFactoryBeanWithRegistry wires a FactoryBean into a SingletonRegistry
// and runs the full circular scenario: the construction of "service"
// exposes the factory's early reference, "handler" grabs it, and both end
// up seeing the same product.
func TestFactoryBeanWithRegistry(t *testing.T) {
	r := newTestRegistry()

	f := &FactoryBean{
		Create: func() (interface{}, error) {
			return &simpleGreeter{greeting: "hi"}, nil
		},
		EarlyReference: func(resolve func() (interface{}, error)) interface{} {
			return &forwardingGreeter{resolve: resolve}
		},
	}

	var earlySeen interface{}

	service, err := r.GetOrCreateSingleton("service", func(c *Creation) (interface{}, error) {
		r.AddSingletonFactory("service", func() interface{} {
			obj, _ := f.Object() // not initialized: this is the early reference
			return obj
		})

		_, err := c.GetOrCreateSingleton("handler", func(c *Creation) (interface{}, error) {
			early, ok := r.GetSingletonEarly("service", true)
			if !ok {
				return nil, errors.New("no early reference")
			}
			earlySeen = early
			return &mockObject{Name: "handler"}, nil
		})
		if err != nil {
			return nil, err
		}

		if err := f.Init(); err != nil {
			return nil, err
		}
		return f.Object()
	})

	require.Nil(t, err)
	r.RegisterDisposable("service", f)

	require.Equal(t, "hi", service.(greeter).Greet())
	require.Equal(t, "hi", earlySeen.(greeter).Greet(), "the early reference forwards to the finished product")

	r.DestroySingletons()
	require.Equal(t, 0, r.SingletonCount())
}
