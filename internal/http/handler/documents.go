package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"hrdocs/internal/auth"
	"hrdocs/internal/http/middleware"
	"hrdocs/internal/service"
)

var errNoIdentity = errors.New("identity missing from request context")

func identity(c *fiber.Ctx) (auth.Identity, error) {
	id, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return auth.Identity{}, errNoIdentity
	}
	return id, nil
}

// parseID reads a positive decimal id. Anything else yields 0 so the service
// rejects it with its own validation error.
func parseID(raw string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// ListDocuments handles GET /documentos?empleado_id=.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := identity(c)
		if err != nil {
			return err
		}
		var filter *int64
		if v := parseID(c.Query("empleado_id")); v > 0 {
			filter = &v
		}
		items, err := svc.List(c.UserContext(), id, filter)
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

// UploadDocument handles POST /documentos (multipart: empleado_id, tipo, periodo, archivo).
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := identity(c)
		if err != nil {
			return err
		}

		req := service.UploadRequest{
			EmployeeID: parseID(c.FormValue("empleado_id")),
			Type:       c.FormValue("tipo"),
			Period:     c.FormValue("periodo"),
		}
		if fh, err := c.FormFile("archivo"); err == nil {
			req.File = uploadFile(fh)
		}

		docID, err := svc.Upload(c.UserContext(), id, req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"ok":      true,
			"message": "document uploaded",
			"id":      docID,
		})
	}
}

func uploadFile(fh *multipart.FileHeader) *service.UploadFile {
	return &service.UploadFile{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// DeleteDocument handles DELETE /documentos/:id.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := identity(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), id, parseID(c.Params("id"))); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "message": "document deleted"})
	}
}

// DownloadDocument handles GET /documentos/:id/descargar and streams the file.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := identity(c)
		if err != nil {
			return err
		}

		dl, err := svc.Download(c.UserContext(), id, parseID(c.Params("id")), service.Origin{
			IP:        c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
		})
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, dl.ContentType)
		c.Set(fiber.HeaderContentDisposition, contentDisposition(dl.Filename))
		c.Set(fiber.HeaderCacheControl, "no-cache, must-revalidate")
		c.Set("Content-Description", "File Transfer")
		// fasthttp closes the body once it has been written.
		return c.SendStream(dl.Body, int(dl.Size))
	}
}

func contentDisposition(name string) string {
	r := strings.NewReplacer(`"`, "", "\r", "", "\n", "", `\`, "")
	return `attachment; filename="` + r.Replace(name) + `"`
}

// ListDownloadAudit handles GET /documentos/auditoria.
func ListDownloadAudit(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := identity(c)
		if err != nil {
			return err
		}
		items, err := svc.ListAudit(c.UserContext(), id, service.AuditQuery{
			EmployeeID: c.Query("empleado_id"),
			Type:       c.Query("tipo_documento"),
			From:       c.Query("fecha_desde"),
			Until:      c.Query("fecha_hasta"),
			Limit:      c.Query("limit"),
		})
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}
