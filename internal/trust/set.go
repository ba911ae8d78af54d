package trust

import "stringphone/internal/identity"

// Set maps participant ID to signing public key. The zero value is an
// empty, ready-to-use set. Set is not safe for concurrent use; callers
// needing concurrent access must provide their own mutual exclusion.
type Set struct {
	keys map[identity.ID][]byte
}

// NewSet returns an empty trust set.
func NewSet() *Set {
	return &Set{keys: make(map[identity.ID][]byte)}
}

// Add records signingPub as trusted, keyed by its derived participant ID.
// Adding an already-present ID is a no-op beyond overwriting it with an
// identical key.
func (s *Set) Add(signingPub []byte) (identity.ID, error) {
	id, err := identity.FromSigningPublicKey(signingPub)
	if err != nil {
		return identity.ID{}, err
	}
	if s.keys == nil {
		s.keys = make(map[identity.ID][]byte)
	}
	s.keys[id] = append([]byte(nil), signingPub...)
	return id, nil
}

// Remove deletes id from the set. It is a no-op if id is absent.
func (s *Set) Remove(id identity.ID) {
	delete(s.keys, id)
}

// Lookup returns the signing public key trusted for id, if any.
func (s *Set) Lookup(id identity.ID) ([]byte, bool) {
	key, ok := s.keys[id]
	return key, ok
}

// Participants returns a copy of the full id-to-key mapping, for callers
// that want to persist and later restore the trust set.
func (s *Set) Participants() map[identity.ID][]byte {
	out := make(map[identity.ID][]byte, len(s.keys))
	for id, key := range s.keys {
		out[id] = append([]byte(nil), key...)
	}
	return out
}
