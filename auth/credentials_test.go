package auth

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cineblog/models"
)

func TestPasswordHashing(t *testing.T) {
	password := "testpassword"

	hash, err := hashPassword(password)
	assert.NoError(t, err)
	assert.Regexp(t, `^pbkdf2:sha256:\d+\$[A-Za-z0-9]{16}\$[0-9a-f]{64}$`, hash)

	valid := checkPasswordHash(password, hash)
	assert.True(t, valid)

	invalid := checkPasswordHash("wrongpassword", hash)
	assert.False(t, invalid)
}

func TestPasswordHashing_SaltsDiffer(t *testing.T) {
	first, err := hashPassword("same")
	require.NoError(t, err)
	second, err := hashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCheckPasswordHash_StoredFormats(t *testing.T) {
	digest := pbkdf2.Key([]byte("secret"), []byte("abcdefgh"), 2000, sha256.Size, sha256.New)
	pbkdf2Hash := fmt.Sprintf("pbkdf2:sha256:2000$abcdefgh$%s", hex.EncodeToString(digest))

	bcryptHash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name   string
		stored string
		want   bool
	}{
		{"pbkdf2 sha256", pbkdf2Hash, true},
		{"bcrypt", string(bcryptHash), true},
		{"unknown method", "scrypt:32768:8:1$salt$abcd", false},
		{"malformed", "not-a-hash", false},
		{"bad iterations", "pbkdf2:sha256:x$abcdefgh$00", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkPasswordHash("secret", tt.stored))
		})
	}
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	store := NewCredentialStore(db)

	user, err := store.Register(t.Context(), " leto@arrakis.com ", "password123", "Leto")

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "leto@arrakis.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	store := NewCredentialStore(db)

	_, err := store.Register(t.Context(), "leto@arrakis.com", "password123", "Leto")
	require.NoError(t, err)

	user, err := store.Register(t.Context(), "leto@arrakis.com", "other", "Leto II")

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Nil(t, user)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestVerify(t *testing.T) {
	store := NewCredentialStore(setupTestDB(t))
	registered, err := store.Register(t.Context(), "jessica@arrakis.com", "bene-gesserit", "Jessica")
	require.NoError(t, err)

	user, err := store.Verify(t.Context(), "jessica@arrakis.com", "bene-gesserit")

	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestVerify_Failures(t *testing.T) {
	store := NewCredentialStore(setupTestDB(t))
	_, err := store.Register(t.Context(), "jessica@arrakis.com", "bene-gesserit", "Jessica")
	require.NoError(t, err)

	user, err := store.Verify(t.Context(), "jessica@arrakis.com", "wrong")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err = store.Verify(t.Context(), "nobody@arrakis.com", "bene-gesserit")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailNotFound)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestNewCredentialStore_DummyHash(t *testing.T) {
	store := NewCredentialStore(setupTestDB(t))

	assert.True(t, strings.HasPrefix(store.dummyHash, fmt.Sprintf("pbkdf2:sha256:%d$", hashIterations)))
	assert.True(t, checkPasswordHash(dummyPassword, store.dummyHash))
}

func TestVerify_MissesAreNotLogged(t *testing.T) {
	var buf bytes.Buffer
	db := setupTestDB(t).Session(&gorm.Session{
		Logger: logger.New(log.New(&buf, "", 0), logger.Config{LogLevel: logger.Warn}),
	})
	store := NewCredentialStore(db)

	_, err := store.Verify(t.Context(), "nobody@arrakis.com", "bene-gesserit")
	assert.ErrorIs(t, err, ErrEmailNotFound)
	_, err = store.FindByID(t.Context(), 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.Empty(t, buf.String())
}
