package unitofwork

import "context"

// RepositoryFactory hands out unit-of-work scopes. Services hold the
// factory, not a concrete UoW, so tests can substitute fakes.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
