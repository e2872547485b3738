package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskhive/db"
	"taskhive/models"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateEmail is returned when the email is already registered
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so a caller cannot distinguish which one occurred
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrPasswordMismatch is returned when the confirmation does not match
	ErrPasswordMismatch = errors.New("passwords do not match")
)

type AuthService struct {
	userRepo   db.UserRepository
	bcryptCost int

	// dummyHash is compared against when the email is unknown, so the
	// authenticate path takes roughly the same time either way. It is
	// generated at the same cost as real password hashes.
	dummyHash []byte
}

func NewAuthService(userRepo db.UserRepository, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	dummyHash, _ := bcrypt.GenerateFromPassword([]byte("taskhive-dummy"), bcryptCost)
	return &AuthService{userRepo: userRepo, bcryptCost: bcryptCost, dummyHash: dummyHash}
}

// Register creates a new user after checking that the email is unused.
// The uniqueness check inspects email only; the username column still
// carries a UNIQUE constraint at the schema level.
// No session is established here.
func (s *AuthService) Register(ctx context.Context, email, username, password, passwordConfirm string) (*models.User, error) {
	if password != passwordConfirm {
		return nil, ErrPasswordMismatch
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("error checking existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	return s.userRepo.Create(ctx, user)
}

// Authenticate verifies credentials and returns the matching user.
// Unknown email and wrong password produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
