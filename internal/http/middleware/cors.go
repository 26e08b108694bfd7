package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows the listed origins (comma separated) to call the API with a
// bearer token. Pre-flight requests are answered here, before any guard runs.
func CORS(origins string) fiber.Handler {
	list := make([]string, 0, 4)
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			list = append(list, o)
		}
	}
	if len(list) == 0 {
		list = []string{"*"}
	}

	return cors.New(cors.Config{
		AllowOrigins:  strings.Join(list, ","),
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Content-Type,Authorization",
		ExposeHeaders: "Content-Disposition," + RequestIDHeader,
	})
}
