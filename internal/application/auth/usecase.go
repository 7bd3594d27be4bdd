package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de sesión: login, logout y consulta de la sesión vigente.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
	sessions  ports.SessionStore
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, storeRepo repository.StoreRepository, sessions ports.SessionStore, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, storeRepo: storeRepo, sessions: sessions, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y password incorrecto responden igual (ErrUnauthorized).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	token, exp, err := issueToken(uc.jwtCfg, user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      *toUserResponse(user),
	}, nil
}

// Logout marca la sesión como revocada hasta que el token expire.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if sessionID == "" {
		return domain.ErrUnauthorized
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return uc.sessions.Revoke(ctx, sessionID, ttl)
}

// Session devuelve el usuario autenticado y su tienda.
func (uc *AuthUseCase) Session(ctx context.Context, claims *jwt.Claims) (*dto.SessionResponse, error) {
	revoked, err := uc.sessions.IsRevoked(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.ErrSessionRevoked
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := &dto.SessionResponse{User: *toUserResponse(user), ExpiresAt: claims.ExpiresAtTime()}
	if user.StoreID != "" {
		store, err := uc.storeRepo.GetByID(ctx, user.StoreID)
		if err != nil {
			return nil, err
		}
		out.Store = toStoreResponse(store)
	}
	return out, nil
}

// issueToken firma un JWT con un id de sesión nuevo.
func issueToken(cfg JWTConfig, user *entity.User) (string, time.Time, error) {
	sessionID := uuid.New().String()
	token, err := jwt.Generate(cfg.Secret, sessionID, user.ID, user.StoreID, user.Role, cfg.Issuer, cfg.ExpMinutes)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, time.Now().Add(time.Duration(cfg.ExpMinutes) * time.Minute), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		StoreID:   u.StoreID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	if s == nil {
		return nil
	}
	return &dto.StoreResponse{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		LogoURL:     s.LogoURL,
		BannerURL:   s.BannerURL,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
