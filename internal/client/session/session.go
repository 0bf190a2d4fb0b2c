package session

import (
	"encoding/json"
	"errors"
	"time"

	"go-leave/internal/role"
)

// Session is the proof of one successful login. A zero ExpiresAt never
// expires.
type Session struct {
	Role        role.Role
	Identity    Identity
	AccessToken string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type sessionRecord struct {
	Role        role.Role       `json:"role"`
	Kind        role.Role       `json:"kind"`
	Identity    json.RawMessage `json:"identity"`
	AccessToken string          `json:"accessToken"`
	IssuedAt    time.Time       `json:"issuedAt"`
	ExpiresAt   time.Time       `json:"expiresAt,omitempty"`
}

func (s Session) MarshalJSON() ([]byte, error) {
	if s.Identity == nil {
		return nil, errors.New("session without identity")
	}
	raw, err := json.Marshal(s.Identity)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sessionRecord{
		Role:        s.Role,
		Kind:        s.Identity.Role(),
		Identity:    raw,
		AccessToken: s.AccessToken,
		IssuedAt:    s.IssuedAt,
		ExpiresAt:   s.ExpiresAt,
	})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.Kind != rec.Role {
		return errors.New("identity kind does not match session role")
	}
	id, err := decodeIdentity(rec.Kind, rec.Identity)
	if err != nil {
		return err
	}
	*s = Session{
		Role:        rec.Role,
		Identity:    id,
		AccessToken: rec.AccessToken,
		IssuedAt:    rec.IssuedAt,
		ExpiresAt:   rec.ExpiresAt,
	}
	return nil
}
