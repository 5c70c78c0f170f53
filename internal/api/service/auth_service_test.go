package service

import (
	"context"
	"testing"
	"time"

	"skillhub/internal/api/models"
	"skillhub/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: 24 * time.Hour,
	}
	authService := NewAuthService(mockUserRepo, cfg)

	mockUserRepo.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := authService.Register(context.Background(), "Ada", "ada@example.com", "password123")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "STUDENT", user.Role)
	assert.NotEqual(t, "password123", user.Password)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_EmailExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := &config.Config{JWTSecret: "test-secret"}
	authService := NewAuthService(mockUserRepo, cfg)

	existingUser := &models.User{Email: "ada@example.com"}
	mockUserRepo.On("FindByEmail", mock.Anything, "ada@example.com").Return(existingUser, nil)

	user, err := authService.Register(context.Background(), "Ada", "ada@example.com", "password123")

	assert.ErrorIs(t, err, ErrEmailInUse)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: 24 * time.Hour,
	}
	authService := NewAuthService(mockUserRepo, cfg)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-id",
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: string(hashedPassword),
		Role:     "STUDENT",
	}

	mockUserRepo.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)

	accessToken, returnedUser, err := authService.Login(context.Background(), "ada@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.Equal(t, user.Email, returnedUser.Email)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_InvalidPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := &config.Config{JWTSecret: "test-secret"}
	authService := NewAuthService(mockUserRepo, cfg)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-id",
		Email:    "ada@example.com",
		Password: string(hashedPassword),
	}

	mockUserRepo.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)

	accessToken, returnedUser, err := authService.Login(context.Background(), "ada@example.com", "wrongpassword")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, accessToken)
	assert.Nil(t, returnedUser)
}

func TestLogin_UserNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := &config.Config{JWTSecret: "test-secret"}
	authService := NewAuthService(mockUserRepo, cfg)

	mockUserRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	accessToken, user, err := authService.Login(context.Background(), "nobody@example.com", "password123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, accessToken)
	assert.Nil(t, user)
}

func TestValidateToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		AccessTokenTTL: 24 * time.Hour,
	}
	authService := NewAuthService(mockUserRepo, cfg)

	claims := Claims{
		UserID: "user-id",
		Email:  "ada@example.com",
		Role:   "STUDENT",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

	validated, err := authService.ValidateToken(tokenString)

	assert.NoError(t, err)
	assert.NotNil(t, validated)
	assert.Equal(t, "user-id", validated.UserID)
	assert.Equal(t, "STUDENT", validated.Role)
}

func TestValidateToken_Expired(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := &config.Config{JWTSecret: "test-secret"}
	authService := NewAuthService(mockUserRepo, cfg)

	claims := Claims{
		UserID: "user-id",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(cfg.JWTSecret))

	validated, err := authService.ValidateToken(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, validated)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := &config.Config{JWTSecret: "test-secret"}
	authService := NewAuthService(mockUserRepo, cfg)

	claims := Claims{
		UserID: "user-id",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte("another-secret"))

	validated, err := authService.ValidateToken(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, validated)
}

func TestValidateToken_Garbage(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	cfg := &config.Config{JWTSecret: "test-secret"}
	authService := NewAuthService(mockUserRepo, cfg)

	validated, err := authService.ValidateToken("not.a.token")

	assert.Error(t, err)
	assert.Nil(t, validated)
}
