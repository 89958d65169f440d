package ledger

import "bankledger/internal/domain"

// Guard resolves an already-verified caller identity (a user id extracted
// from the transport's token) to a user record and enforces status and role
// checks. It runs before the engine, never after.
type Guard struct {
	repo *Repository
}

// NewGuard returns a guard reading from repo.
func NewGuard(repo *Repository) *Guard {
	return &Guard{repo: repo}
}

// ResolveCaller looks up the user behind the identity. Unknown users and
// deactivated users both fail with ErrUnauthenticated; the caller learns
// nothing about which case it was.
func (g *Guard) ResolveCaller(userID uint) (domain.User, error) {
	u, err := g.repo.FindUserByID(userID)
	if err != nil {
		return domain.User{}, ErrUnauthenticated
	}
	if !u.IsActive {
		return domain.User{}, ErrUnauthenticated
	}
	return u, nil
}

// RequireRole fails with ErrForbidden unless the user holds the role.
func (g *Guard) RequireRole(u domain.User, role domain.Role) error {
	if u.Role != role {
		return ErrForbidden
	}
	return nil
}
