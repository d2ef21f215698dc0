package authenticating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/vfg2006/sales-analytics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-analytics-api/internal/config"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.Auth{Secret: "test-secret"},
	}
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginUser_IssuesVerifiableToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userRepo := mocks.NewMockUserRepository(ctrl)
	userRepo.EXPECT().GetUserByEmail(gomock.Any(), "alice@example.com").Return(&domain.User{
		ID:           7,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: hashOf(t, "s3cret"),
		Active:       true,
	}, nil)

	service := NewService(userRepo, testConfig())

	token, err := service.LoginUser(context.Background(), " Alice@Example.com ", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "Alice", claims.UserName)
	assert.Equal(t, "alice@example.com", claims.UserEmail)
}

func TestLoginUser_Failures(t *testing.T) {
	tests := []struct {
		name     string
		user     *domain.User
		password string
		expected error
	}{
		{
			name:     "unknown user",
			user:     nil,
			password: "whatever",
			expected: ErrUserNotFound,
		},
		{
			name: "disabled user",
			user: &domain.User{
				Email:  "alice@example.com",
				Active: false,
			},
			password: "s3cret",
			expected: ErrUserDisabled,
		},
		{
			name: "wrong password",
			user: &domain.User{
				Email:  "alice@example.com",
				Active: true,
			},
			password: "wrong",
			expected: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			if tt.user != nil && tt.user.PasswordHash == "" {
				tt.user.PasswordHash = hashOf(t, "s3cret")
			}

			userRepo := mocks.NewMockUserRepository(ctrl)
			userRepo.EXPECT().GetUserByEmail(gomock.Any(), "alice@example.com").Return(tt.user, nil)

			service := NewService(userRepo, testConfig())

			token, err := service.LoginUser(context.Background(), "alice@example.com", tt.password)
			assert.Empty(t, token)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewService(mocks.NewMockUserRepository(ctrl), testConfig())

	_, err := service.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreateUser(t *testing.T) {
	t.Run("hashes the password and activates the user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userRepo := mocks.NewMockUserRepository(ctrl)
		userRepo.EXPECT().GetUserByEmail(gomock.Any(), "bob@example.com").Return(nil, nil)
		userRepo.EXPECT().
			CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
				assert.True(t, user.Active)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
				user.ID = 3
				return user, nil
			})

		service := NewService(userRepo, testConfig())

		created, err := service.CreateUser(context.Background(), &domain.User{
			Name:  "Bob",
			Email: "Bob@Example.com",
		}, "s3cret")
		require.NoError(t, err)
		assert.Equal(t, 3, created.ID)
		assert.Equal(t, "bob@example.com", created.Email)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		userRepo := mocks.NewMockUserRepository(ctrl)
		userRepo.EXPECT().GetUserByEmail(gomock.Any(), "bob@example.com").Return(&domain.User{ID: 1}, nil)

		service := NewService(userRepo, testConfig())

		_, err := service.CreateUser(context.Background(), &domain.User{
			Name:  "Bob",
			Email: "bob@example.com",
		}, "s3cret")
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewService(mocks.NewMockUserRepository(ctrl), testConfig())

		_, err := service.CreateUser(context.Background(), &domain.User{Name: "Bob"}, "")
		assert.ErrorIs(t, err, ErrMissingRequiredData)
	})
}
