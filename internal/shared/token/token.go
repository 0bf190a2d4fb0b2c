package token

import (
	"errors"
	"fmt"
	"time"

	"go-leave/internal/role"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalid = errors.New("invalid token")
	ErrExpired = errors.New("token expired")
)

// Claims carry the authenticated employee and the role the token was
// issued for. A token never grants more than one role.
type Claims struct {
	EmployeeCode string    `json:"employee_code"`
	EmployeeID   string    `json:"employee_id"`
	Role         role.Role `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock is used by tests that need stable timestamps.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	cp := *m
	cp.now = now
	return &cp
}

func (m *Manager) Issue(employeeCode, employeeID string, r role.Role) (string, *Claims, error) {
	issuedAt := m.now().UTC().Truncate(time.Second)
	claims := &Claims{
		EmployeeCode: employeeCode,
		EmployeeID:   employeeID,
		Role:         r,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   employeeCode,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

func (m *Manager) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !tok.Valid || claims.EmployeeCode == "" || !claims.Role.Valid() {
		return nil, ErrInvalid
	}
	return claims, nil
}
