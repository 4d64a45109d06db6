package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog/apierr"
	"catalog/events"
	"catalog/middleware"
	"catalog/repository"
	"catalog/validation"
)

type Deps struct {
	DB          *gorm.DB
	Log         logrus.FieldLogger
	Metrics     *middleware.Metrics
	Hub         *events.Hub
	CORSOrigins string
}

type handlers struct {
	products      *repository.ProductRepository
	manufacturers *repository.ManufacturerRepository
	validator     *validation.Validator
	events        events.Publisher
}

// NewApp builds the HTTP application with its middleware chain and routes.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "catalog",
		ErrorHandler: apierr.Handler(d.Log),
	})

	app.Use(middleware.RequestID())
	app.Use(d.Metrics.Handler())
	app.Use(middleware.RequestLogger(d.Log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.TokenHeader,
	}))

	app.Get("/metrics", d.Metrics.Endpoint())
	app.Get("/ws", adaptor.HTTPHandler(d.Hub))

	SetupRoutes(app, &handlers{
		products:      repository.NewProductRepository(d.DB),
		manufacturers: repository.NewManufacturerRepository(d.DB),
		validator:     validation.New(),
		events:        d.Hub,
	}, repository.NewUserRepository(d.DB))

	return app
}

func SetupRoutes(app *fiber.App, h *handlers, users middleware.Authenticator) {
	api := app.Group("/api", middleware.Authenticate(users))

	products := api.Group("/products")
	products.Get("/", h.listProducts)
	products.Post("/", h.createProduct)
	products.Get("/:id", h.getProduct)
	products.Put("/:id", h.replaceProduct)
	products.Patch("/:id", h.updateProduct)

	manufacturers := api.Group("/manufacturers")
	manufacturers.Get("/", h.listManufacturers)
	manufacturers.Post("/", h.createManufacturer)
	manufacturers.Get("/:id", h.getManufacturer)
	manufacturers.Put("/:id", h.replaceManufacturer)
	manufacturers.Patch("/:id", h.updateManufacturer)
	manufacturers.Delete("/:id", h.deleteManufacturer)
	manufacturers.Get("/:id/products", h.listManufacturerProducts)
}

// parseID reads the :id parameter. Anything that is not a positive integer
// cannot name an item, so it is a 404.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apierr.NotFound(err)
	}
	return uint(id), nil
}

func send(c *fiber.Ctx, status int, body any) error {
	return c.Status(status).JSON(body, apierr.ContentTypeJSONLD)
}
