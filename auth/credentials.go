package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"cineblog/common"
	"cineblog/models"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Both wrap ErrInvalidCredentials; they only differ in the message shown.
	ErrEmailNotFound = fmt.Errorf("%w: email not registered", ErrInvalidCredentials)
	ErrWrongPassword = fmt.Errorf("%w: wrong password", ErrInvalidCredentials)
)

// CredentialStore keeps user identities and their password hashes.
type CredentialStore struct {
	db *gorm.DB

	// checked against on unknown emails so both Verify failures cost one derivation
	dummyHash string
}

const dummyPassword = "cineblog-dummy-password"

func NewCredentialStore(db *gorm.DB) *CredentialStore {
	dummyHash, err := hashPassword(dummyPassword)
	if err != nil {
		// crypto/rand failing leaves nothing sensible to do
		panic(fmt.Sprintf("hashing dummy password: %v", err))
	}
	return &CredentialStore{db: db, dummyHash: dummyHash}
}

// Register creates a user unless the email is already taken.
func (s *CredentialStore) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.TrimSpace(email)

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(name),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		return tx.Create(&user).Error
	})
	switch {
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, ErrDuplicateEmail
	case err != nil:
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return &user, nil
}

// Verify returns the user owning email when password matches.
func (s *CredentialStore) Verify(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// burn the same PBKDF2 work as a real check
			checkPasswordHash(password, s.dummyHash)
			return nil, ErrEmailNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !checkPasswordHash(password, user.PasswordHash) {
		return nil, ErrWrongPassword
	}
	return user, nil
}

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := common.Quiet(s.db).WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *CredentialStore) FindByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := common.Quiet(s.db).WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
