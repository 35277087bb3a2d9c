package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo  repository.UserRepository
	audit AuditRecorder
	cost  int
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, audit AuditRecorder) *UserUseCase {
	return &UserUseCase{repo: repo, audit: audit, cost: bcrypt.DefaultCost}
}

// WithBcryptCost cambia el costo de bcrypt (tests usan bcrypt.MinCost).
func (uc *UserUseCase) WithBcryptCost(cost int) *UserUseCase {
	uc.cost = cost
	return uc
}

// List devuelve todos los usuarios.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *entityToUserResponse(u))
	}
	return out, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// Create crea un usuario: hashea password con bcrypt y persiste. El username es único sin distinguir mayúsculas.
func (uc *UserUseCase) Create(ctx context.Context, actor Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: nome e usuário são obrigatórios", domain.ErrValidation)
	}
	if !entity.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: perfil %q inválido", domain.ErrValidation, in.Role)
	}
	existing, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: usuário %s já existe", domain.ErrDuplicate, username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Username:     username,
		PasswordHash: string(hash),
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.record(ctx, actor.Username, entity.AuditUserCreated, fmt.Sprintf("Usuário %s criado com perfil %s", user.Username, user.Role))
	return entityToUserResponse(user), nil
}

// Update edita nombre, perfil, estado o contraseña. Siempre debe quedar al menos un admin activo.
func (uc *UserUseCase) Update(ctx context.Context, actor Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	wasActiveAdmin := user.Active && user.Role == entity.RoleAdmin
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: nome é obrigatório", domain.ErrValidation)
		}
		user.Name = name
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: perfil %q inválido", domain.ErrValidation, *in.Role)
		}
		user.Role = *in.Role
	}
	if in.Active != nil {
		user.Active = *in.Active
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), uc.cost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if wasActiveAdmin && !(user.Active && user.Role == entity.RoleAdmin) {
		if err := uc.ensureAnotherAdmin(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.record(ctx, actor.Username, entity.AuditUserUpdated, fmt.Sprintf("Usuário %s editado", user.Username))
	return entityToUserResponse(user), nil
}

// Delete elimina un usuario. No se puede eliminar a sí mismo ni al último admin activo.
func (uc *UserUseCase) Delete(ctx context.Context, actor Actor, id string) error {
	user, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if user.ID == actor.ID {
		return fmt.Errorf("%w: não é possível excluir o próprio usuário", domain.ErrConflict)
	}
	if user.Active && user.Role == entity.RoleAdmin {
		if err := uc.ensureAnotherAdmin(ctx, user.ID); err != nil {
			return err
		}
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.record(ctx, actor.Username, entity.AuditUserDeleted, fmt.Sprintf("Usuário %s excluído", user.Username))
	return nil
}

func (uc *UserUseCase) ensureAnotherAdmin(ctx context.Context, exceptID string) error {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID != exceptID && u.Active && u.Role == entity.RoleAdmin {
			return nil
		}
	}
	return fmt.Errorf("%w: é necessário manter ao menos um administrador ativo", domain.ErrConflict)
}

func (uc *UserUseCase) get(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuário %s", domain.ErrNotFound, id)
	}
	return user, nil
}

func (uc *UserUseCase) record(ctx context.Context, actor, action, desc string) {
	if uc.audit != nil {
		uc.audit.Record(ctx, actor, action, desc)
	}
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
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
