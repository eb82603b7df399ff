package beans

import (
	"errors"
	"fmt"
	"sync"
)

// AliasRegistry maps alias names to canonical names.
// Aliases can be chained: if `b` is an alias for `a` and `c` an alias
// for `b`, then `c` resolves to `a`. Chains that would loop back on
// themselves are rejected at registration time.
type AliasRegistry struct {
	m sync.RWMutex

	// aliases maps an alias to the name it stands for.
	aliases map[string]string

	// allowOverriding determines whether an alias
	// may be re-bound to a different name.
	allowOverriding bool
}

// NewAliasRegistry creates an empty AliasRegistry.
// Alias overriding is allowed by default;
// it can be disabled with SetAllowAliasOverriding.
func NewAliasRegistry() *AliasRegistry {
	return &AliasRegistry{
		aliases:         map[string]string{},
		allowOverriding: true,
	}
}

// SetAllowAliasOverriding determines whether RegisterAlias may re-bind an
// existing alias to a different name.
func (r *AliasRegistry) SetAllowAliasOverriding(allow bool) {
	r.m.Lock()
	r.allowOverriding = allow
	r.m.Unlock()
}

// RegisterAlias registers alias as another name for name.
// Registering a name as an alias for itself just removes
// any alias previously registered under that name.
func (r *AliasRegistry) RegisterAlias(name, alias string) error {
	if name == "" {
		return errors.New("name can not be empty")
	}
	if alias == "" {
		return errors.New("alias can not be empty")
	}

	r.m.Lock()
	defer r.m.Unlock()

	if alias == name {
		delete(r.aliases, alias)
		return nil
	}

	if registered, ok := r.aliases[alias]; ok {
		if registered == name {
			return nil
		}
		if !r.allowOverriding {
			return fmt.Errorf(
				"could not register alias `%s` for `%s`: it is already registered for `%s`",
				alias, name, registered,
			)
		}
	}

	if r.hasAlias(alias, name) {
		return fmt.Errorf(
			"could not register alias `%s` for `%s`: `%s` is already an alias for `%s`, the chain would loop",
			alias, name, name, alias,
		)
	}

	r.aliases[alias] = name

	return nil
}

// RemoveAlias removes the given alias.
// It returns false if the alias was not registered.
func (r *AliasRegistry) RemoveAlias(alias string) bool {
	r.m.Lock()
	defer r.m.Unlock()

	if _, ok := r.aliases[alias]; !ok {
		return false
	}

	delete(r.aliases, alias)

	return true
}

// IsAlias returns true if the given name is registered as an alias.
func (r *AliasRegistry) IsAlias(name string) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.aliases[name]
	return ok
}

// Aliases returns all the aliases resolving to the given name,
// directly or through other aliases.
func (r *AliasRegistry) Aliases(name string) []string {
	r.m.RLock()
	defer r.m.RUnlock()

	aliases := []string{}
	r.collectAliases(name, &aliases)
	return aliases
}

func (r *AliasRegistry) collectAliases(name string, aliases *[]string) {
	for alias, registered := range r.aliases {
		if registered == name {
			*aliases = append(*aliases, alias)
			r.collectAliases(alias, aliases)
		}
	}
}

// CanonicalName follows the alias chain starting at the given name
// and returns the name at the end of the chain.
// If the name is not an alias, it is returned unchanged.
func (r *AliasRegistry) CanonicalName(name string) string {
	r.m.RLock()
	defer r.m.RUnlock()

	canonical := name

	for {
		resolved, ok := r.aliases[canonical]
		if !ok {
			return canonical
		}
		canonical = resolved
	}
}

// hasAlias returns true if name is registered as an alias for rootName,
// directly or through a chain of aliases.
// It must be called with the lock held.
func (r *AliasRegistry) hasAlias(rootName, name string) bool {
	registered, ok := r.aliases[name]
	if !ok {
		return false
	}
	if registered == rootName {
		return true
	}
	return r.hasAlias(rootName, registered)
}
