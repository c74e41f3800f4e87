package operation

import "fmt"

// Registry is an immutable, code-keyed collection of operations of one
// category. It is resolved once at startup; lookups of unregistered
// codes fail fast.
type Registry[T Operation] struct {
	codes []string
	ops   map[string]T
}

// NewRegistry builds a registry from ops, rejecting duplicate codes.
func NewRegistry[T Operation](ops ...T) (*Registry[T], error) {
	r := &Registry[T]{
		codes: make([]string, 0, len(ops)),
		ops:   make(map[string]T, len(ops)),
	}
	for _, op := range ops {
		code := op.Code()
		if _, exists := r.ops[code]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCode, code)
		}
		r.ops[code] = op
		r.codes = append(r.codes, code)
	}
	return r, nil
}

// MustNewRegistry is NewRegistry that panics on duplicate codes. Used
// for registries assembled from compile-time constants at startup.
func MustNewRegistry[T Operation](ops ...T) *Registry[T] {
	r, err := NewRegistry(ops...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the operation registered under code.
func (r *Registry[T]) Get(code string) (T, error) {
	op, ok := r.ops[code]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrUnknownOperation, code)
	}
	return op, nil
}

// Has reports whether code is registered.
func (r *Registry[T]) Has(code string) bool {
	_, ok := r.ops[code]
	return ok
}

// All returns the registered operations in declaration order.
func (r *Registry[T]) All() []T {
	out := make([]T, 0, len(r.codes))
	for _, code := range r.codes {
		out = append(out, r.ops[code])
	}
	return out
}
