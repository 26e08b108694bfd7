package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hrdocs/internal/auth"
	"hrdocs/internal/http/middleware"
	"hrdocs/internal/model"
	"hrdocs/internal/service"
)

// Deps are the collaborators RegisterRoutes wires into handlers.
type Deps struct {
	DB        *sql.DB
	Guard     *auth.Guard
	Auth      service.AuthService
	Documents service.DocumentService
	Users     service.UserService
	Employees service.EmployeeService
	// Gatherer backs /metrics; the route is skipped when nil.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	// Pre-flights are answered by the CORS middleware; any other OPTIONS
	// request gets an empty success instead of 405.
	app.Options("/*", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	app.Get("/openapi.yaml", OpenAPISpec())
	app.Get("/docs", DocsPage())
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Post("/auth/login", Login(d.Auth))

	docs := app.Group("/documentos", middleware.Authenticate(d.Guard))
	docs.Get("/", ListDocuments(d.Documents))
	docs.Post("/", UploadDocument(d.Documents))
	docs.Get("/auditoria", ListDownloadAudit(d.Documents))
	docs.Get("/:id/descargar", DownloadDocument(d.Documents))
	docs.Delete("/:id", DeleteDocument(d.Documents))

	users := app.Group("/usuarios", middleware.Authenticate(d.Guard, model.PrivilegedRoles...))
	users.Get("/", ListUsers(d.Users))
	users.Post("/", CreateUser(d.Users))
	users.Put("/:id/rol", UpdateUserRole(d.Users))
	users.Put("/:id/password", ResetUserPassword(d.Users))

	privileged := middleware.Authenticate(d.Guard, model.PrivilegedRoles...)
	adminOnly := middleware.Authenticate(d.Guard, model.RoleAdmin)
	emp := app.Group("/empleados")
	emp.Get("/", privileged, ListEmployees(d.Employees))
	emp.Post("/", privileged, CreateEmployee(d.Employees))
	emp.Put("/:id", privileged, UpdateEmployee(d.Employees))
	emp.Delete("/:id", adminOnly, DeleteEmployee(d.Employees))
}
