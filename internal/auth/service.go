package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRefresh     = errors.New("refresh token invalid or expired")
	ErrNotFound           = errors.New("not found")
)

const refreshTokenTTL = 7 * 24 * time.Hour

// WelcomeMailer sends the post-registration mail. Failures are logged, not
// surfaced: registration must not depend on SMTP being up.
type WelcomeMailer interface {
	SendWelcome(email, nome, nomeTenant string) error
}

type Service struct {
	DB     *gorm.DB
	JWT    *JWT
	Mailer WelcomeMailer
	Log    zerolog.Logger
}

type RegisterTenantInput struct {
	NomeTenant   string
	EmailTenant  string
	Cnpj         *string
	NomeUsuario  string
	EmailUsuario string
	Senha        string
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
	User         User
}

func (s *Service) RegisterTenant(ctx context.Context, in RegisterTenantInput) (Tokens, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&Tenant{}).Where("email = ?", in.EmailTenant).Count(&count).Error; err != nil {
		return Tokens{}, err
	}
	if count > 0 {
		return Tokens{}, ErrEmailTaken
	}

	hash, err := HashPassword(in.Senha)
	if err != nil {
		return Tokens{}, err
	}

	var user User
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenant := Tenant{Nome: in.NomeTenant, Email: in.EmailTenant, Cnpj: in.Cnpj}
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		user = User{
			TenantID:     tenant.ID,
			Nome:         in.NomeUsuario,
			Email:        in.EmailUsuario,
			PasswordHash: hash,
			Role:         RoleSocio,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return Tokens{}, err
	}

	if s.Mailer != nil {
		if err := s.Mailer.SendWelcome(user.Email, user.Nome, in.NomeTenant); err != nil {
			s.Log.Warn().Err(err).Str("email", user.Email).Msg("welcome mail failed")
		}
	}

	return s.issueTokens(ctx, user, nil, nil)
}

func (s *Service) Login(ctx context.Context, email, senha string, ip, userAgent *string) (Tokens, error) {
	var user User
	err := s.DB.WithContext(ctx).
		Preload("Tenant").
		Where("email = ? AND ativo = true", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Tokens{}, ErrInvalidCredentials
		}
		return Tokens{}, err
	}
	if !user.Tenant.Ativo {
		return Tokens{}, ErrInvalidCredentials
	}
	if !ComparePassword(user.PasswordHash, senha) {
		return Tokens{}, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user, ip, userAgent)
}

// Refresh rotates the presented token: the stored row is revoked and a fresh
// pair is issued. A revoked or expired token is rejected outright.
func (s *Service) Refresh(ctx context.Context, rawToken string) (Tokens, error) {
	tokenHash := HashToken(rawToken)

	var stored RefreshToken
	err := s.DB.WithContext(ctx).
		Preload("User").
		Where("token_hash = ? AND revogado = false", tokenHash).
		First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Tokens{}, ErrInvalidRefresh
		}
		return Tokens{}, err
	}
	if stored.ExpiresAt.Before(time.Now()) {
		return Tokens{}, ErrInvalidRefresh
	}

	if err := s.DB.WithContext(ctx).Model(&RefreshToken{}).
		Where("id = ?", stored.ID).
		Update("revogado", true).Error; err != nil {
		return Tokens{}, err
	}

	return s.issueTokens(ctx, stored.User, nil, nil)
}

func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.DB.WithContext(ctx).Model(&RefreshToken{}).
		Where("user_id = ? AND revogado = false", userID).
		Update("revogado", true).Error
}

func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.DB.WithContext(ctx).Preload("Tenant").Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (s *Service) issueTokens(ctx context.Context, user User, ip, userAgent *string) (Tokens, error) {
	access, err := s.JWT.Sign(Identity{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Email:    user.Email,
		Role:     user.Role,
	})
	if err != nil {
		return Tokens{}, err
	}

	raw := make([]byte, 40)
	if _, err := rand.Read(raw); err != nil {
		return Tokens{}, err
	}
	rawToken := hex.EncodeToString(raw)

	rt := RefreshToken{
		UserID:    user.ID,
		TokenHash: HashToken(rawToken),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.DB.WithContext(ctx).Create(&rt).Error; err != nil {
		return Tokens{}, err
	}

	return Tokens{AccessToken: access, RefreshToken: rawToken, User: user}, nil
}

func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
