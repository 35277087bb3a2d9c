package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swaggo/swag"

	"github.com/alumasa/almoxarifado-api/internal/application/audit"
	"github.com/alumasa/almoxarifado-api/internal/application/auth"
	"github.com/alumasa/almoxarifado-api/internal/application/backup"
	"github.com/alumasa/almoxarifado-api/internal/application/inventory"
	"github.com/alumasa/almoxarifado-api/internal/application/report"
	"github.com/alumasa/almoxarifado-api/internal/application/usecase"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	Ledger     *inventory.Ledger
	Recorder   *inventory.MovementRecorder
	Reconciler *inventory.Reconciler
	Reports    *report.Service
	SupplierUC *usecase.SupplierUseCase
	UserUC     *usecase.UserUseCase
	Audit      *audit.Service
	Backup     *backup.Service
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Get("/openapi.json", openAPI)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleAlmoxarife, entity.RoleConsulta)
	writer := RequireRole(entity.RoleAdmin, entity.RoleAlmoxarife)
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Post("/auth/logout", anyRole, authHandler.Logout)
	protected.Put("/auth/password", anyRole, authHandler.ChangePassword)

	// Items
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.Ledger, deps.Reports)
	items.Get("/", anyRole, itemHandler.List)
	items.Get("/code/:code", anyRole, itemHandler.GetByCode)
	items.Get("/:id", anyRole, itemHandler.GetByID)
	items.Post("/", writer, itemHandler.Create)
	items.Put("/:id", writer, itemHandler.Update)
	items.Delete("/:id", writer, itemHandler.Delete)

	// Movimentações
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.Recorder, deps.Ledger, deps.Reports)
	movements.Get("/", anyRole, movementHandler.List)
	movements.Post("/entries", writer, movementHandler.RecordEntry)
	movements.Post("/exits", writer, movementHandler.RecordExit)

	// Contagem de inventário
	counts := protected.Group("/counts", writer)
	countHandler := NewCountHandler(deps.Reconciler)
	counts.Post("/", countHandler.Start)
	counts.Get("/:id", countHandler.Get)
	counts.Put("/:id/items/:itemId", countHandler.SetCounted)
	counts.Get("/:id/summary", countHandler.Summary)
	counts.Post("/:id/confirm", countHandler.Confirm)
	counts.Post("/:id/commit", countHandler.Commit)
	counts.Delete("/:id", countHandler.Cancel)

	// Relatórios (lectura)
	reports := protected.Group("/reports", anyRole)
	reportHandler := NewReportHandler(deps.Reports)
	reports.Get("/stock", reportHandler.Stock)
	reports.Get("/stock.csv", reportHandler.StockCSV)
	reports.Get("/stock.xml", reportHandler.StockXML)
	reports.Get("/stock.xlsx", reportHandler.StockXLSX)
	reports.Get("/stock.pdf", reportHandler.StockPDF)
	reports.Get("/count-sheet.pdf", reportHandler.CountSheetPDF)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/movements", reportHandler.Movements)
	reports.Get("/movements.csv", reportHandler.MovementsCSV)
	reports.Get("/valuation", reportHandler.Valuation)
	reports.Get("/dashboard", reportHandler.Dashboard)

	// Fornecedores
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", anyRole, supplierHandler.List)
	suppliers.Get("/:id", anyRole, supplierHandler.GetByID)
	suppliers.Post("/", writer, supplierHandler.Create)
	suppliers.Put("/:id", writer, supplierHandler.Update)
	suppliers.Delete("/:id", writer, supplierHandler.Delete)

	// Usuários (admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Auditoria y backup (admin)
	adminHandler := NewAdminHandler(deps.Audit, deps.Backup)
	protected.Get("/audit", adminOnly, adminHandler.Audit)
	protected.Get("/backup", adminOnly, adminHandler.Export)
	protected.Post("/backup/restore", adminOnly, adminHandler.Restore)
}

// openAPI sirve el documento registrado por el paquete docs.
func openAPI(c *fiber.Ctx) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"code": "DOCS_UNAVAILABLE", "message": err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.SendString(doc)
}
