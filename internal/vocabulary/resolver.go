package vocabulary

import (
	"context"
	"fmt"
)

// CanonicalSource provides the current canonical vocabulary.
type CanonicalSource interface {
	Snapshot() *Snapshot
}

// Resolver locates terms across the canonical vocabulary and user-added terms.
type Resolver struct {
	canonical CanonicalSource
	userTerms UserTermRepository
}

// NewResolver creates a new Resolver. userTerms may be nil.
func NewResolver(canonical CanonicalSource, userTerms UserTermRepository) *Resolver {
	return &Resolver{
		canonical: canonical,
		userTerms: userTerms,
	}
}

// Resolve returns the term for id. Canonical terms match on id first and
// legacy id second; user-added terms are consulted last.
func (r *Resolver) Resolve(ctx context.Context, id string) (Term, error) {
	if id == "" {
		return Term{}, fmt.Errorf("%w: empty id", ErrTermNotFound)
	}
	if snapshot := r.canonical.Snapshot(); snapshot != nil {
		if term, ok := snapshot.FindByID(id); ok {
			return term, nil
		}
	}
	if r.userTerms != nil {
		term, err := r.userTerms.FindByID(ctx, id)
		if err != nil {
			return Term{}, fmt.Errorf("userTerms.FindByID(%s) > %w", id, err)
		}
		if term != nil {
			return *term, nil
		}
	}
	return Term{}, fmt.Errorf("%w: %s", ErrTermNotFound, id)
}
