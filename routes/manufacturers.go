package routes

import (
	"github.com/gofiber/fiber/v2"

	"catalog/events"
	"catalog/hydra"
	"catalog/middleware"
	"catalog/models"
	"catalog/pagination"
	"catalog/security"
	"catalog/views"
)

// GET /api/manufacturers
func (h *handlers) listManufacturers(c *fiber.Ctx) error {
	if err := security.Manufacturers.Check(middleware.Caller(c), nil); err != nil {
		return err
	}
	page, err := pagination.Parse(c.Query(queryPage))
	if err != nil {
		return err
	}
	items, total, err := h.manufacturers.List(c.UserContext(), page)
	if err != nil {
		return err
	}

	members := views.Manufacturers.Members(items, views.ManufacturerRead)
	return send(c, fiber.StatusOK, hydra.NewCollection("Manufacturer", views.ManufacturersPath, members, total, page, nil))
}

// GET /api/manufacturers/:id
func (h *handlers) getManufacturer(c *fiber.Ctx) error {
	m, err := h.loadManufacturer(c)
	if err != nil {
		return err
	}
	return send(c, fiber.StatusOK, views.Manufacturers.Item(m, views.ManufacturerRead))
}

// POST /api/manufacturers
func (h *handlers) createManufacturer(c *fiber.Ctx) error {
	if err := security.Manufacturers.Check(middleware.Caller(c), nil); err != nil {
		return err
	}

	m := &models.Manufacturer{}
	if _, err := views.Manufacturers.Denormalize(m, c.Body(), views.ManufacturerWrite); err != nil {
		return err
	}
	if err := h.validateManufacturer(m); err != nil {
		return err
	}
	if err := h.manufacturers.Create(c.UserContext(), m); err != nil {
		return err
	}
	return h.sendManufacturer(c, fiber.StatusCreated, events.ManufacturerCreated, m)
}

// PUT /api/manufacturers/:id
func (h *handlers) replaceManufacturer(c *fiber.Ctx) error {
	existing, err := h.loadManufacturer(c)
	if err != nil {
		return err
	}

	m := &models.Manufacturer{ID: existing.ID, Products: existing.Products}
	if _, err := views.Manufacturers.Denormalize(m, c.Body(), views.ManufacturerWrite); err != nil {
		return err
	}
	if err := h.validateManufacturer(m); err != nil {
		return err
	}
	if err := h.manufacturers.Replace(c.UserContext(), m); err != nil {
		return err
	}
	return h.sendManufacturer(c, fiber.StatusOK, events.ManufacturerReplaced, m)
}

// PATCH /api/manufacturers/:id
func (h *handlers) updateManufacturer(c *fiber.Ctx) error {
	m, err := h.loadManufacturer(c)
	if err != nil {
		return err
	}

	columns, err := views.Manufacturers.Denormalize(m, c.Body(), views.ManufacturerWrite)
	if err != nil {
		return err
	}
	if err := h.validateManufacturer(m); err != nil {
		return err
	}
	if err := h.manufacturers.Update(c.UserContext(), m, columns); err != nil {
		return err
	}
	return h.sendManufacturer(c, fiber.StatusOK, events.ManufacturerUpdated, m)
}

// DELETE /api/manufacturers/:id
func (h *handlers) deleteManufacturer(c *fiber.Ctx) error {
	if err := security.Manufacturers.Check(middleware.Caller(c), nil); err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.manufacturers.Delete(c.UserContext(), id); err != nil {
		return err
	}

	h.events.Publish(events.Event{Type: events.ManufacturerDeleted, IRI: views.ManufacturerIRI(id)})
	return c.SendStatus(fiber.StatusNoContent)
}

// loadManufacturer reads :id and applies the manufacturer policy to it.
func (h *handlers) loadManufacturer(c *fiber.Ctx) (*models.Manufacturer, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	m, err := h.manufacturers.Get(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if err := security.Manufacturers.Check(middleware.Caller(c), nil); err != nil {
		return nil, err
	}
	return m, nil
}

func (h *handlers) validateManufacturer(m *models.Manufacturer) error {
	return h.validator.Check(m, views.Manufacturers.Missing(m, views.ManufacturerWrite)...)
}

func (h *handlers) sendManufacturer(c *fiber.Ctx, status int, event string, m *models.Manufacturer) error {
	doc := views.Manufacturers.Item(m, views.ManufacturerRead)
	h.events.Publish(events.Event{Type: event, IRI: views.ManufacturerIRI(m.ID), Data: doc})
	return send(c, status, doc)
}
