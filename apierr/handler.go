package apierr

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	ContentTypeJSONLD = "application/ld+json; charset=utf-8"
	ContentTypeJSON   = "application/json"
)

type errorDocument struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Title       string `json:"hydra:title"`
	Description string `json:"hydra:description"`
}

type violationDocument struct {
	Context     string      `json:"@context"`
	Type        string      `json:"@type"`
	Title       string      `json:"hydra:title"`
	Description string      `json:"hydra:description"`
	Violations  []Violation `json:"violations"`
}

// Handler renders errors returned by route handlers. Errors outside the
// taxonomy become a 500 without their details.
func Handler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return render(c, apiErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(errorDocument{
				Context:     "/api/contexts/Error",
				Type:        "hydra:Error",
				Title:       "An error occurred",
				Description: fiberErr.Message,
			}, ContentTypeJSONLD)
		}

		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("unhandled error")

		return c.Status(fiber.StatusInternalServerError).JSON(errorDocument{
			Context:     "/api/contexts/Error",
			Type:        "hydra:Error",
			Title:       "An error occurred",
			Description: http.StatusText(http.StatusInternalServerError),
		}, ContentTypeJSONLD)
	}
}

func render(c *fiber.Ctx, e *Error) error {
	switch e.Kind {
	case KindAuthentication:
		return c.Status(e.Status()).JSON(fiber.Map{"message": e.Message}, ContentTypeJSON)
	case KindValidation:
		return c.Status(e.Status()).JSON(violationDocument{
			Context:     "/api/contexts/ConstraintViolationList",
			Type:        "ConstraintViolationList",
			Title:       "An error occurred",
			Description: e.describeViolations(),
			Violations:  e.Violations,
		}, ContentTypeJSONLD)
	default:
		return c.Status(e.Status()).JSON(errorDocument{
			Context:     "/api/contexts/Error",
			Type:        "hydra:Error",
			Title:       "An error occurred",
			Description: e.Message,
		}, ContentTypeJSONLD)
	}
}
