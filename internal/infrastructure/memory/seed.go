package memory

import (
	"time"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type seedItem struct {
	code, description, category, location, unit string
	qty, min, value                             string
}

// catálogo de demostración de la fábrica (perfiles y herrajes de aluminio).
var seedCatalog = []seedItem{
	{"PAR-001", "Parafuso sextavado M8 x 30 zincado", "Fixação", "Estante A1", "un", "1500", "500", "0.75"},
	{"PAR-002", "Parafuso auto-atarraxante 4,2 x 19", "Fixação", "Estante A1", "un", "3200", "1000", "0.18"},
	{"REB-005", "Rebite pop alumínio 4,8 x 12", "Fixação", "Estante A2", "cx", "40", "15", "32.90"},
	{"CHP-010", "Chapa de alumínio liga 1200 1,5 mm", "Chapas", "Pátio B", "un", "450", "100", "8.50"},
	{"PRF-020", "Perfil de alumínio linha Suprema 6 m", "Perfis", "Pátio C", "barra", "180", "60", "96.40"},
	{"VED-031", "Borracha de vedação EPDM", "Vedação", "Estante D3", "m", "820", "300", "2.35"},
	{"SIL-040", "Silicone neutro incolor 280 g", "Químicos", "Armário Q1", "un", "36", "40", "24.90"},
	{"EPI-100", "Luva de vaqueta", "EPI", "Armário E1", "par", "25", "30", "18.00"},
}

// Seed carga el catálogo, un fornecedor y los usuarios iniciales. Solo para el backend en memoria.
// adminHash y operatorHash son hashes bcrypt ya calculados.
func Seed(s *Store, adminHash, operatorHash string, now time.Time) {
	_ = s.write(func(st *state) error {
		for _, si := range seedCatalog {
			it := &entity.Item{
				ID:          uuid.NewString(),
				Code:        si.code,
				Description: si.description,
				Category:    si.category,
				Location:    si.location,
				Unit:        si.unit,
				Quantity:    decimal.RequireFromString(si.qty),
				MinQuantity: decimal.RequireFromString(si.min),
				UnitValue:   decimal.RequireFromString(si.value),
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			st.items[it.ID] = it
		}
		sup := &entity.Supplier{
			ID:        uuid.NewString(),
			Name:      "Alumínio Forte Distribuidora",
			Document:  "12.345.678/0001-90",
			Contact:   "Carlos",
			Phone:     "(11) 4002-8922",
			Email:     "vendas@aluminioforte.com.br",
			CreatedAt: now,
			UpdatedAt: now,
		}
		st.suppliers[sup.ID] = sup
		for _, u := range []*entity.User{
			{ID: uuid.NewString(), Name: "Administrador", Username: "admin", PasswordHash: adminHash, Role: entity.RoleAdmin, Active: true},
			{ID: uuid.NewString(), Name: "Operador do Almoxarifado", Username: "almoxarife", PasswordHash: operatorHash, Role: entity.RoleAlmoxarife, Active: true},
		} {
			u.CreatedAt, u.UpdatedAt = now, now
			st.users[u.ID] = u
		}
		return nil
	})
}
