package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para fornecedores.
type SupplierUseCase struct {
	repo  repository.SupplierRepository
	audit AuditRecorder
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, audit AuditRecorder) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, audit: audit}
}

// List devuelve los fornecedores ordenados por nombre.
func (uc *SupplierUseCase) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

// GetByID obtiene un fornecedor por ID.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	res := toSupplierResponse(s)
	return &res, nil
}

// Create registra un fornecedor nuevo.
func (uc *SupplierUseCase) Create(ctx context.Context, actor string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := in.ToDraft().Build(uuid.New().String(), time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.record(ctx, actor, entity.AuditSupplierCreated, fmt.Sprintf("Fornecedor %s cadastrado", s.Name))
	res := toSupplierResponse(s)
	return &res, nil
}

// Update reemplaza los datos del fornecedor.
func (uc *SupplierUseCase) Update(ctx context.Context, actor, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.ToDraft().Apply(s, time.Now()); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	uc.record(ctx, actor, entity.AuditSupplierUpdated, fmt.Sprintf("Fornecedor %s editado", s.Name))
	res := toSupplierResponse(s)
	return &res, nil
}

// Delete elimina el fornecedor. Las entradas ya registradas conservan la referencia.
func (uc *SupplierUseCase) Delete(ctx context.Context, actor, id string) error {
	s, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.record(ctx, actor, entity.AuditSupplierDeleted, fmt.Sprintf("Fornecedor %s excluído", s.Name))
	return nil
}

func (uc *SupplierUseCase) get(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: fornecedor %s", domain.ErrNotFound, id)
	}
	return s, nil
}

func (uc *SupplierUseCase) record(ctx context.Context, actor, action, desc string) {
	if uc.audit != nil {
		uc.audit.Record(ctx, actor, action, desc)
	}
}

func toSupplierResponse(s *entity.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Document:  s.Document,
		Contact:   s.Contact,
		Phone:     s.Phone,
		Email:     s.Email,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
