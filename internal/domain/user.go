package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User.
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrNegativeExp         = errors.New("experience cannot be negative")
	ErrInvalidLevel        = errors.New("level must be at least 1")
)

// User represents a registered learner. Besides the authentication fields it
// carries the gamification state mutated by the experience ledger and the
// streak tracker: cumulative experience, current level, and the consecutive
// study-day streak.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Password       string     `json:"-"` // Plaintext, only set transiently during registration
	HashedPassword string     `json:"-"` // Never exposed in JSON
	Exp            int        `json:"exp"`
	Level          int        `json:"level"`
	StreakCount    int        `json:"streak_count"`
	StreakLastDate *time.Time `json:"streak_last_date,omitempty"` // Calendar date of last credited study day
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewUser creates a User with the given email and plaintext password.
// Gamification state starts at level 1 with zero experience and no streak.
// The caller is responsible for hashing the password before storage.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Password:  password,
		Exp:       0,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 { // bcrypt's practical limit
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	if u.Exp < 0 {
		return ErrNegativeExp
	}

	if u.Level < 1 {
		return ErrInvalidLevel
	}

	return nil
}

// validEmailFormat performs a minimal structural check: one @ with a dotted
// domain after it. Full RFC 5322 validation is left to the request boundary.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
