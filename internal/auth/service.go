// internal/auth/service.go
// Identity resolver: turns a bearer credential into a user identity.
// Also owns signup/login and Google ID-token sign-in so tokens can be issued
// without a separate identity product.

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/yourspacelabs/yourspace-backend/internal/common/apperr"
	"github.com/yourspacelabs/yourspace-backend/internal/common/utils"
)

// Service is the auth contract the rest of the app depends on
type Service interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	GoogleAuth(ctx context.Context, req *GoogleAuthRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)

	// Verify resolves a bearer token to an identity or ErrUnauthenticated.
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Config holds service configuration
type Config struct {
	JWTSecret           string
	AccessTokenExpiry   time.Duration
	RefreshTokenExpiry  time.Duration
	BCryptCost          int
	EnableOAuth         bool
	GoogleOAuthClientID string
}

type service struct {
	repo   Repository
	config *Config
}

// NewService creates a new auth service
func NewService(repo Repository, config *Config) Service {
	return &service{repo: repo, config: config}
}

func (s *service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrValidation, err.Error())
	}

	handle := strings.ToLower(strings.TrimSpace(req.Handle))
	if taken, err := s.repo.IsHandleTaken(ctx, handle); err != nil {
		return nil, apperr.Storagef("failed to check handle: %v", err)
	} else if taken {
		return nil, apperr.Validationf("handle %q is already taken", handle)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashedStr := string(hashed)

	var email *string
	if req.Email != nil && *req.Email != "" {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		email = &normalized
	}

	user := &User{
		Handle:       handle,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: &hashedStr,
		Provider:     "local",
	}

	if err := s.repo.CreateUser(ctx, user, req.DisplayName); err != nil {
		return nil, apperr.Storagef("failed to create user: %v", err)
	}

	return s.issueTokens(user)
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrValidation, err.Error())
	}

	var user *User
	var err error
	if strings.Contains(req.HandleOrEmail, "@") {
		user, err = s.repo.GetUserByEmail(ctx, req.HandleOrEmail)
	} else {
		user, err = s.repo.GetUserByHandle(ctx, req.HandleOrEmail)
	}
	if err != nil {
		return nil, apperr.Storagef("failed to look up user: %v", err)
	}
	if user == nil || user.PasswordHash == nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthenticated)
	}

	return s.issueTokens(user)
}

// GoogleAuth verifies a Google ID token and creates the account on first sign-in
func (s *service) GoogleAuth(ctx context.Context, req *GoogleAuthRequest) (*AuthResponse, error) {
	if !s.config.EnableOAuth {
		return nil, apperr.Validationf("OAuth sign-in is disabled")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrValidation, err.Error())
	}

	oauth2Service, err := oauth2.NewService(ctx, option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	tokenInfo, err := oauth2Service.Tokeninfo().IdToken(req.IDToken).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid Google token", apperr.ErrUnauthenticated)
	}
	if s.config.GoogleOAuthClientID != "" && tokenInfo.Audience != s.config.GoogleOAuthClientID {
		return nil, fmt.Errorf("%w: token issued for another client", apperr.ErrUnauthenticated)
	}

	user, err := s.repo.GetUserByEmail(ctx, tokenInfo.Email)
	if err != nil {
		return nil, apperr.Storagef("failed to look up user: %v", err)
	}

	if user == nil {
		handle := handleFromEmail(tokenInfo.Email)
		email := strings.ToLower(tokenInfo.Email)
		user = &User{
			Handle:     handle,
			Email:      &email,
			Provider:   "google",
			ProviderID: &tokenInfo.UserId,
		}
		if err := s.repo.CreateUser(ctx, user, handle); err != nil {
			return nil, apperr.Storagef("failed to create user: %v", err)
		}
	} else if user.Provider == "local" {
		// Link the Google identity to the existing local account.
		if err := s.repo.UpdateProvider(ctx, user.ID, "google", tokenInfo.UserId); err != nil {
			return nil, apperr.Storagef("failed to link provider: %v", err)
		}
	}

	return s.issueTokens(user)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateJWT(refreshToken, s.config.JWTSecret)
	if err != nil || claims.Type != "refresh" {
		return nil, fmt.Errorf("%w: invalid refresh token", apperr.ErrUnauthenticated)
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Storagef("failed to look up user: %v", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: account no longer exists", apperr.ErrUnauthenticated)
	}

	return s.issueTokens(user)
}

// Verify resolves a bearer token to a user identity.
// No session state is held locally; every call revalidates the token.
func (s *service) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrUnauthenticated, "invalid or expired token")
	}
	if claims.Type != "access" {
		return nil, fmt.Errorf("%w: invalid token type", apperr.ErrUnauthenticated)
	}
	return &Identity{UserID: claims.UserID, Handle: claims.Handle}, nil
}

func (s *service) issueTokens(user *User) (*AuthResponse, error) {
	now := time.Now()

	access, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.ID,
		Handle:    user.Handle,
		Type:      "access",
		ExpiresAt: now.Add(s.config.AccessTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "yourspace",
		Subject:   fmt.Sprintf("%d", user.ID),
	}, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	refresh, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.ID,
		Handle:    user.Handle,
		Type:      "refresh",
		ExpiresAt: now.Add(s.config.RefreshTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "yourspace",
		Subject:   fmt.Sprintf("%d", user.ID),
	}, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
	}, nil
}

func handleFromEmail(email string) string {
	local := strings.SplitN(strings.ToLower(email), "@", 2)[0]
	cleaned := make([]rune, 0, len(local))
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			cleaned = append(cleaned, r)
		}
	}
	return fmt.Sprintf("%s%d", string(cleaned), time.Now().Unix()%10000)
}
