package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type CreateUserInput struct {
	Nome  string
	Email string
	Senha string
	Role  string
}

type UpdateUserInput struct {
	Nome  *string
	Senha *string
	Role  *string
	Ativo *bool
}

func (s *Service) ListUsers(ctx context.Context, tenantID string) ([]User, error) {
	var users []User
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("nome asc").
		Find(&users).Error
	return users, err
}

func (s *Service) CreateUser(ctx context.Context, tenantID string, in CreateUserInput) (User, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&User{}).
		Where("tenant_id = ? AND email = ?", tenantID, in.Email).
		Count(&count).Error; err != nil {
		return User{}, err
	}
	if count > 0 {
		return User{}, ErrEmailTaken
	}

	hash, err := HashPassword(in.Senha)
	if err != nil {
		return User{}, err
	}

	user := User{
		TenantID:     tenantID,
		Nome:         in.Nome,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, tenantID, id string, in UpdateUserInput) (User, error) {
	var user User
	err := s.DB.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	patch := map[string]any{}
	if in.Nome != nil {
		patch["nome"] = *in.Nome
	}
	if in.Role != nil {
		patch["role"] = *in.Role
	}
	if in.Ativo != nil {
		patch["ativo"] = *in.Ativo
	}
	if in.Senha != nil {
		hash, err := HashPassword(*in.Senha)
		if err != nil {
			return User{}, err
		}
		patch["password_hash"] = hash
	}
	if len(patch) == 0 {
		return user, nil
	}

	if err := s.DB.WithContext(ctx).Model(&user).Updates(patch).Error; err != nil {
		return User{}, err
	}
	return user, nil
}

// DeactivateUser is the delete operation: rows are kept, logins stop.
func (s *Service) DeactivateUser(ctx context.Context, tenantID, id string) error {
	res := s.DB.WithContext(ctx).Model(&User{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("ativo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
