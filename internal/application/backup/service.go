// Package backup exporta y restaura el estado completo del almoxarifado (ítems, movimientos y usuarios).
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

// AuditRecorder destino de la auditoría de la restauración.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, description string)
}

// Service exporta snapshots JSON y restaura por reemplazo total.
type Service struct {
	store repository.SnapshotStore
	audit AuditRecorder
	loc   *time.Location
	now   func() time.Time
}

// NewService construye el servicio de backup. loc es la zona de los días de movimentação.
func NewService(store repository.SnapshotStore, audit AuditRecorder, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, audit: audit, loc: loc, now: time.Now}
}

// Export devuelve el snapshot actual.
func (s *Service) Export(ctx context.Context) (*dto.SnapshotDTO, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	snap.ExportedAt = s.now()
	return toDTO(snap), nil
}

// ExportJSON serializa el snapshot actual con indentación (archivo descargable).
func (s *Service) ExportJSON(ctx context.Context) ([]byte, error) {
	out, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(out, "", "  ")
}

// Restore decodifica y valida el snapshot completo antes de reemplazar el estado.
// Cualquier error deja el estado actual intacto y se envuelve en domain.ErrInvalidSnapshot.
func (s *Service) Restore(ctx context.Context, actor string, raw []byte) (*dto.RestoreResponse, error) {
	snap, err := Decode(raw, s.loc)
	if err != nil {
		return nil, err
	}
	if err := s.store.Replace(ctx, snap); err != nil {
		return nil, err
	}
	res := &dto.RestoreResponse{Items: len(snap.Items), Movements: len(snap.Movements), Users: len(snap.Users)}
	if s.audit != nil {
		s.audit.Record(ctx, actor, entity.AuditBackupRestored,
			fmt.Sprintf("Backup restaurado: %d itens, %d movimentações, %d usuários", res.Items, res.Movements, res.Users))
	}
	return res, nil
}

// Decode interpreta un snapshot JSON. Exige los tres arreglos (items, movements, users),
// revisa la forma de cada registro y que quede al menos un admin activo; no revalida reglas
// de negocio (carga confiable). Las fechas de movimentação quedan a medianoche en loc.
func Decode(raw []byte, loc *time.Location) (*entity.Snapshot, error) {
	if loc == nil {
		loc = time.UTC
	}
	var in dto.SnapshotDTO
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}
	switch {
	case in.Items == nil:
		return nil, fmt.Errorf("%w: campo items ausente", domain.ErrInvalidSnapshot)
	case in.Movements == nil:
		return nil, fmt.Errorf("%w: campo movements ausente", domain.ErrInvalidSnapshot)
	case in.Users == nil:
		return nil, fmt.Errorf("%w: campo users ausente", domain.ErrInvalidSnapshot)
	}

	snap := &entity.Snapshot{
		ExportedAt: in.ExportedAt,
		Items:      make([]*entity.Item, 0, len(*in.Items)),
		Movements:  make([]*entity.Movement, 0, len(*in.Movements)),
		Users:      make([]*entity.User, 0, len(*in.Users)),
	}
	seen := make(map[string]struct{})
	admins := 0
	for i, it := range *in.Items {
		if it.ID == "" || it.Code == "" {
			return nil, fmt.Errorf("%w: items[%d] sem id ou código", domain.ErrInvalidSnapshot, i)
		}
		if _, dup := seen["i:"+it.ID]; dup {
			return nil, fmt.Errorf("%w: item %s repetido", domain.ErrInvalidSnapshot, it.ID)
		}
		seen["i:"+it.ID] = struct{}{}
		snap.Items = append(snap.Items, &entity.Item{
			ID:          it.ID,
			Code:        it.Code,
			Description: it.Description,
			Category:    it.Category,
			Location:    it.Location,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			MinQuantity: it.MinQuantity,
			UnitValue:   it.UnitValue,
			CreatedAt:   it.CreatedAt,
			UpdatedAt:   it.UpdatedAt,
		})
	}
	for i, m := range *in.Movements {
		dir := entity.MovementDirection(m.Direction)
		if m.ID == "" || m.ItemID == "" || !dir.Valid() {
			return nil, fmt.Errorf("%w: movements[%d] incompleto", domain.ErrInvalidSnapshot, i)
		}
		if _, dup := seen["m:"+m.ID]; dup {
			return nil, fmt.Errorf("%w: movimentação %s repetida", domain.ErrInvalidSnapshot, m.ID)
		}
		seen["m:"+m.ID] = struct{}{}
		day, err := time.ParseInLocation("2006-01-02", m.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: movements[%d] data inválida", domain.ErrInvalidSnapshot, i)
		}
		snap.Movements = append(snap.Movements, &entity.Movement{
			ID:          m.ID,
			ItemID:      m.ItemID,
			ItemCode:    m.ItemCode,
			Direction:   dir,
			Quantity:    m.Quantity,
			UnitValue:   m.UnitValue,
			Date:        day,
			SupplierID:  m.SupplierID,
			Requester:   m.Requester,
			Responsible: m.Responsible,
			CreatedBy:   m.CreatedBy,
			CreatedAt:   m.CreatedAt,
		})
	}
	for i, u := range *in.Users {
		if u.ID == "" || u.Username == "" || !entity.ValidRole(u.Role) {
			return nil, fmt.Errorf("%w: users[%d] incompleto", domain.ErrInvalidSnapshot, i)
		}
		if _, dup := seen["u:"+u.ID]; dup {
			return nil, fmt.Errorf("%w: usuário %s repetido", domain.ErrInvalidSnapshot, u.ID)
		}
		seen["u:"+u.ID] = struct{}{}
		if u.Role == entity.RoleAdmin && u.Active {
			admins++
		}
		snap.Users = append(snap.Users, &entity.User{
			ID:           u.ID,
			Name:         u.Name,
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
			Active:       u.Active,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		})
	}
	if admins == 0 {
		return nil, fmt.Errorf("%w: nenhum administrador ativo", domain.ErrInvalidSnapshot)
	}
	return snap, nil
}

func toDTO(snap *entity.Snapshot) *dto.SnapshotDTO {
	items := make([]dto.SnapshotItemDTO, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, dto.SnapshotItemDTO{
			ID:          it.ID,
			Code:        it.Code,
			Description: it.Description,
			Category:    it.Category,
			Location:    it.Location,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			MinQuantity: it.MinQuantity,
			UnitValue:   it.UnitValue,
			TotalValue:  it.TotalValue(),
			CreatedAt:   it.CreatedAt,
			UpdatedAt:   it.UpdatedAt,
		})
	}
	movs := make([]dto.SnapshotMovementDTO, 0, len(snap.Movements))
	for _, m := range snap.Movements {
		movs = append(movs, dto.SnapshotMovementDTO{
			ID:          m.ID,
			ItemID:      m.ItemID,
			ItemCode:    m.ItemCode,
			Direction:   string(m.Direction),
			Quantity:    m.Quantity,
			UnitValue:   m.UnitValue,
			Date:        m.Date.Format("2006-01-02"),
			SupplierID:  m.SupplierID,
			Requester:   m.Requester,
			Responsible: m.Responsible,
			CreatedBy:   m.CreatedBy,
			CreatedAt:   m.CreatedAt,
		})
	}
	users := make([]dto.SnapshotUserDTO, 0, len(snap.Users))
	for _, u := range snap.Users {
		users = append(users, dto.SnapshotUserDTO{
			ID:           u.ID,
			Name:         u.Name,
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
			Active:       u.Active,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		})
	}
	return &dto.SnapshotDTO{
		Version:    dto.SnapshotVersion,
		ExportedAt: snap.ExportedAt,
		Items:      &items,
		Movements:  &movs,
		Users:      &users,
	}
}
