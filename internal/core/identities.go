package core

import (
	"context"
	"fmt"
)

// ListIdentities returns every registered identity in persisted order.
func (s *Store) ListIdentities(ctx context.Context) ([]Identity, error) {
	s.identitiesMu.Lock()
	defer s.identitiesMu.Unlock()

	return loadCollection[Identity](ctx, s, CollectionIdentities)
}

// IsRegistered reports whether an identity with this email exists,
// ignoring case.
func (s *Store) IsRegistered(ctx context.Context, email string) (bool, error) {
	s.identitiesMu.Lock()
	defer s.identitiesMu.Unlock()

	ids, err := loadCollection[Identity](ctx, s, CollectionIdentities)
	if err != nil {
		return false, err
	}
	return containsEmail(ids, email), nil
}

// RegisterIdentity adds a new identity. It returns ErrMissingField when name
// or email is blank and ErrDuplicateIdentity when the email is taken.
func (s *Store) RegisterIdentity(ctx context.Context, name, email string) error {
	name, email, err := cleanIdentity(name, email)
	if err != nil {
		s.observer.RegistrationRejected("missing_field")
		return err
	}

	s.identitiesMu.Lock()
	defer s.identitiesMu.Unlock()

	ids, err := loadCollection[Identity](ctx, s, CollectionIdentities)
	if err != nil {
		return err
	}
	if containsEmail(ids, email) {
		s.observer.RegistrationRejected("duplicate")
		return fmt.Errorf("register %q: %w", email, ErrDuplicateIdentity)
	}

	ids = append(ids, Identity{Name: name, Email: email})
	if err := saveCollection(ctx, s, CollectionIdentities, ids); err != nil {
		return err
	}

	s.observer.IdentityRegistered()
	return nil
}

// ClearIdentities removes every registered identity. It is irreversible;
// confirmation belongs to the caller.
func (s *Store) ClearIdentities(ctx context.Context) error {
	s.identitiesMu.Lock()
	defer s.identitiesMu.Unlock()

	return s.clearCollection(ctx, CollectionIdentities)
}

func containsEmail(ids []Identity, email string) bool {
	key := emailKey(email)
	for _, id := range ids {
		if emailKey(id.Email) == key {
			return true
		}
	}
	return false
}
