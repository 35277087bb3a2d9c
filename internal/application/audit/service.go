// Package audit registra y consulta el log de auditoría del almoxarifado.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

// Service append-only sobre AuditRepository.
type Service struct {
	repo repository.AuditRepository
	loc  *time.Location
	now  func() time.Time
}

// NewService construye el servicio. loc define los límites de día de los filtros.
func NewService(repo repository.AuditRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc, now: time.Now}
}

// Record agrega una entrada. Un fallo de persistencia se loguea y no se propaga:
// ninguna operación del inventario depende de que la auditoría se entregue.
func (s *Service) Record(ctx context.Context, actor, action, description string) {
	entry := &entity.AuditEntry{
		ID:          uuid.New().String(),
		At:          s.now(),
		Actor:       actor,
		Action:      action,
		Description: description,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", action).Str("actor", actor).Msg("audit: no se pudo registrar")
	}
}

// List devuelve la página pedida, más recientes primero.
func (s *Service) List(ctx context.Context, q dto.AuditQuery) (*dto.AuditListResponse, error) {
	q.DefaultPage()
	from, err := dto.ParseDay(q.From, s.loc)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseDay(q.To, s.loc)
	if err != nil {
		return nil, err
	}
	if to != nil {
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	entries, total, err := s.repo.List(ctx, repository.AuditFilter{
		Actor:  q.Actor,
		Action: q.Action,
		From:   from,
		To:     to,
	}, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditEntryResponse{
			ID:          e.ID,
			At:          e.At,
			Actor:       e.Actor,
			Action:      e.Action,
			Description: e.Description,
		})
	}
	return &dto.AuditListResponse{Entries: out, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}
