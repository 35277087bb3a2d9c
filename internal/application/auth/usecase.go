package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
	"github.com/alumasa/almoxarifado-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuditRecorder destino de los eventos de login, logout y cambio de contraseña.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, description string)
}

// AuthUseCase casos de uso de autenticación: login, logout y cambio de contraseña.
type AuthUseCase struct {
	userRepo repository.UserRepository
	audit    AuditRecorder
	jwtCfg   JWTConfig
	cost     int
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, audit AuditRecorder, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, audit: audit, jwtCfg: jwtCfg, cost: bcrypt.DefaultCost}
}

// WithBcryptCost cambia el costo de bcrypt para las contraseñas nuevas.
func (uc *AuthUseCase) WithBcryptCost(cost int) *AuthUseCase {
	uc.cost = cost
	return uc
}

// Login verifica usuario/password, genera JWT y retorna token + usuario.
// Usuario inexistente y password incorrecta devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuário ou senha inválidos", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: usuário ou senha inválidos", domain.ErrUnauthorized)
	}
	if !user.Active {
		return nil, fmt.Errorf("%w: usuário inativo", domain.ErrForbidden)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.record(ctx, user.Username, entity.AuditLogin, fmt.Sprintf("Login de %s", user.Username))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User:      *toUserResponse(user),
	}, nil
}

// Logout solo deja constancia en la auditoría; los JWT expiran por sí solos.
func (uc *AuthUseCase) Logout(ctx context.Context, username string) {
	uc.record(ctx, username, entity.AuditLogout, fmt.Sprintf("Logout de %s", username))
}

// ChangePassword verifica la contraseña actual y guarda el hash de la nueva.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	if len(in.NewPassword) < 6 {
		return fmt.Errorf("%w: a nova senha deve ter ao menos 6 caracteres", domain.ErrValidation)
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: usuário %s", domain.ErrNotFound, userID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return fmt.Errorf("%w: senha atual incorreta", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), uc.cost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return err
	}
	uc.record(ctx, user.Username, entity.AuditPasswordChanged, fmt.Sprintf("Senha de %s alterada", user.Username))
	return nil
}

func (uc *AuthUseCase) record(ctx context.Context, actor, action, desc string) {
	if uc.audit != nil {
		uc.audit.Record(ctx, actor, action, desc)
	}
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
