package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"catalog/events"
	"catalog/hydra"
	"catalog/middleware"
	"catalog/models"
	"catalog/pagination"
	"catalog/repository"
	"catalog/security"
	"catalog/views"
)

const (
	queryName         = "name"
	queryDescription  = "description"
	queryCountryCode  = "manufacturer.countryCode"
	queryManufacturer = "manufacturer.id"
	queryOrderIssue   = "order[issueDate]"
	queryPage         = "page"
)

var productSearch = hydra.SearchTemplate(views.ProductsPath,
	hydra.Filter{Variable: queryName, Property: "name"},
	hydra.Filter{Variable: queryDescription, Property: "description"},
	hydra.Filter{Variable: queryCountryCode, Property: "manufacturer.countryCode"},
	hydra.Filter{Variable: queryManufacturer, Property: "manufacturer"},
	hydra.Filter{Variable: queryOrderIssue, Property: "issueDate"},
)

// productQuery reads the filter and sort parameters in the order page links
// repeat them.
func productQuery(c *fiber.Ctx) (repository.ProductFilter, []hydra.Param) {
	f := repository.ProductFilter{
		Name:           c.Query(queryName),
		Description:    c.Query(queryDescription),
		CountryCode:    c.Query(queryCountryCode),
		ManufacturerID: manufacturerRef(c.Query(queryManufacturer)),
		IssueDateOrder: c.Query(queryOrderIssue),
	}

	var params []hydra.Param
	for _, key := range []string{queryName, queryDescription, queryCountryCode, queryManufacturer, queryOrderIssue} {
		if v := c.Query(key); v != "" {
			params = append(params, hydra.Param{Key: key, Value: v})
		}
	}
	return f, params
}

// manufacturerRef accepts a bare id or a manufacturer IRI.
func manufacturerRef(raw string) string {
	if id, err := views.ParseIRI(views.ManufacturersPath, raw); err == nil {
		return strconv.FormatUint(uint64(id), 10)
	}
	return raw
}

// productCollection renders one page of products found at path. search is
// nil for collections whose filters differ from the top-level one.
func (h *handlers) productCollection(c *fiber.Ctx, path string, f repository.ProductFilter, params []hydra.Param, search *hydra.IriTemplate) error {
	page, err := pagination.Parse(c.Query(queryPage))
	if err != nil {
		return err
	}
	items, total, err := h.products.List(c.UserContext(), f, page)
	if err != nil {
		return err
	}

	collection := hydra.NewCollection("Product", path, views.Products.Members(items, views.ProductRead), total, page, params)
	collection.Search = search
	return send(c, fiber.StatusOK, collection)
}

// GET /api/products
func (h *handlers) listProducts(c *fiber.Ctx) error {
	if err := security.ProductList.Check(middleware.Caller(c), nil); err != nil {
		return err
	}
	f, params := productQuery(c)
	return h.productCollection(c, views.ProductsPath, f, params, productSearch)
}

// GET /api/manufacturers/:id/products
func (h *handlers) listManufacturerProducts(c *fiber.Ctx) error {
	if err := security.ProductList.Check(middleware.Caller(c), nil); err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.manufacturers.Exists(c.UserContext(), id); err != nil {
		return err
	}

	f, params := productQuery(c)
	f.ManufacturerID = strconv.FormatUint(uint64(id), 10)
	params = withoutParam(params, queryManufacturer)
	return h.productCollection(c, views.ManufacturerIRI(id)+"/products", f, params, nil)
}

func withoutParam(params []hydra.Param, key string) []hydra.Param {
	kept := params[:0]
	for _, p := range params {
		if p.Key != key {
			kept = append(kept, p)
		}
	}
	return kept
}

// GET /api/products/:id
func (h *handlers) getProduct(c *fiber.Ctx) error {
	p, err := h.loadProduct(c, security.ProductGet)
	if err != nil {
		return err
	}
	if err := security.ProductGet.Check(middleware.Caller(c), p); err != nil {
		return err
	}
	return send(c, fiber.StatusOK, views.Products.Item(p, views.ProductRead))
}

// POST /api/products
func (h *handlers) createProduct(c *fiber.Ctx) error {
	caller := middleware.Caller(c)
	if err := security.ProductCreate.Check(caller, nil); err != nil {
		return err
	}

	p := &models.Product{}
	if _, err := views.Products.Denormalize(p, c.Body(), views.ProductWrite); err != nil {
		return err
	}
	if err := h.validateProduct(p); err != nil {
		return err
	}
	p.OwnerID = &caller.UserID

	if err := h.products.Create(c.UserContext(), p); err != nil {
		return err
	}
	return h.sendProduct(c, fiber.StatusCreated, events.ProductCreated, p)
}

// PUT /api/products/:id
func (h *handlers) replaceProduct(c *fiber.Ctx) error {
	existing, err := h.loadProduct(c, security.ProductReplace)
	if err != nil {
		return err
	}
	if err := security.ProductReplace.Check(middleware.Caller(c), existing); err != nil {
		return err
	}

	p := &models.Product{ID: existing.ID, OwnerID: existing.OwnerID}
	if _, err := views.Products.Denormalize(p, c.Body(), views.ProductWrite); err != nil {
		return err
	}
	if err := h.validateProduct(p); err != nil {
		return err
	}
	if err := h.products.Replace(c.UserContext(), p); err != nil {
		return err
	}
	return h.sendProduct(c, fiber.StatusOK, events.ProductReplaced, p)
}

// PATCH /api/products/:id
func (h *handlers) updateProduct(c *fiber.Ctx) error {
	p, err := h.loadProduct(c, security.ProductUpdate)
	if err != nil {
		return err
	}
	if err := security.ProductUpdate.Check(middleware.Caller(c), p); err != nil {
		return err
	}

	columns, err := views.Products.Denormalize(p, c.Body(), views.ProductWrite)
	if err != nil {
		return err
	}
	if err := h.validateProduct(p); err != nil {
		return err
	}
	if err := h.products.Update(c.UserContext(), p, columns); err != nil {
		return err
	}
	return h.sendProduct(c, fiber.StatusOK, events.ProductUpdated, p)
}

// loadProduct authenticates the caller against policy before it reads :id,
// so anonymous requests never learn whether a product exists.
func (h *handlers) loadProduct(c *fiber.Ctx, policy security.Policy) (*models.Product, error) {
	if err := policy.Authenticate(middleware.Caller(c)); err != nil {
		return nil, err
	}
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	return h.products.Get(c.UserContext(), id)
}

func (h *handlers) validateProduct(p *models.Product) error {
	return h.validator.Check(p, views.Products.Missing(p, views.ProductWrite)...)
}

func (h *handlers) sendProduct(c *fiber.Ctx, status int, event string, p *models.Product) error {
	doc := views.Products.Item(p, views.ProductRead)
	h.events.Publish(events.Event{Type: event, IRI: views.ProductIRI(p.ID), Data: doc})
	return send(c, status, doc)
}
