package feature

import "sync"

// Ref is an opaque, monotonically increasing handle standing in for a weak
// pointer to a Feature. Go provides no safe, pre-stabilization weak
// pointer; cached generator callbacks that would otherwise capture a raw
// *Feature instead capture a Ref plus the Registry that issued it, and
// resolve lazily through Registry.Resolve, mirroring a
// std::enable_shared_from_this/weak_from_this pattern without unsafe
// pointer tricks.
type Ref struct {
	id uint64
}

// Valid reports whether r was ever issued by a Registry (the zero Ref is
// never valid).
func (r Ref) Valid() bool { return r.id != 0 }

// Registry assigns and resolves Refs. It holds a strong *Feature for every
// registered Ref until Forget is called, so a registered Feature stays
// reachable through it; only Forget makes the Ref resolve to (nil, false)
// from that point on, as a weak pointer would after its referent is
// destroyed.
type Registry struct {
	mu      sync.Mutex
	next    uint64
	byRef   map[uint64]*Feature
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byRef: make(map[uint64]*Feature)}
}

// Register assigns f a fresh Ref and records it. Calling Register on a
// Feature that already has a valid ID from this registry is a no-op that
// returns the existing Ref.
func (r *Registry) Register(f *Feature) Ref {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID.Valid() {
		if existing, ok := r.byRef[f.ID.id]; ok && existing == f {
			return f.ID
		}
	}
	r.next++
	ref := Ref{id: r.next}
	f.ID = ref
	r.byRef[ref.id] = f
	return ref
}

// Resolve returns the Feature a Ref points to, and false if it was never
// registered or has since been Forgotten.
func (r *Registry) Resolve(ref Ref) (*Feature, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byRef[ref.id]
	return f, ok
}

// Forget removes a Feature from the registry, causing future Resolve calls
// against its Ref to fail, as if the Feature had been destroyed.
func (r *Registry) Forget(ref Ref) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byRef, ref.id)
}
