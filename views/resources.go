package views

import (
	"encoding/json"

	"catalog/models"
)

var (
	Products      *Table[models.Product]
	Manufacturers *Table[models.Manufacturer]
)

// The two tables embed each other, so they are wired in init rather than in
// their declarations.
func init() {
	Products = &Table[models.Product]{
		Type: "Product",
		IRI:  func(p *models.Product) string { return ProductIRI(p.ID) },
		Fields: []Field[models.Product]{
			{
				Name:   "name",
				Column: "Name",
				Groups: []Group{ProductRead, ProductWrite, ManufacturerRead},
				Get:    func(p *models.Product, _ Group) any { return stringValue(p.Name) },
				Set: func(p *models.Product, raw json.RawMessage) (err error) {
					p.Name, err = decodeString(raw)
					return err
				},
			},
			{
				Name:   "description",
				Column: "Description",
				Groups: []Group{ProductRead, ProductWrite},
				Get:    func(p *models.Product, _ Group) any { return stringValue(p.Description) },
				Set: func(p *models.Product, raw json.RawMessage) (err error) {
					p.Description, err = decodeString(raw)
					return err
				},
			},
			{
				Name:   "issueDate",
				Column: "IssueDate",
				Groups: []Group{ProductRead, ProductWrite},
				Get:    func(p *models.Product, _ Group) any { return dateValue(p.IssueDate) },
				Set: func(p *models.Product, raw json.RawMessage) (err error) {
					p.IssueDate, err = decodeDate(raw)
					return err
				},
			},
			{
				Name:     "manufacturer",
				Column:   "ManufacturerID",
				Groups:   []Group{ProductRead, ProductWrite},
				Required: []Group{ProductWrite},
				Get:      productManufacturer,
				Set: func(p *models.Product, raw json.RawMessage) error {
					id, err := decodeIRI(ManufacturersPath, raw)
					if err != nil {
						return err
					}
					if id == nil || p.Manufacturer == nil || p.Manufacturer.ID != *id {
						p.Manufacturer = nil
					}
					p.ManufacturerID = id
					return nil
				},
			},
		},
	}

	Manufacturers = &Table[models.Manufacturer]{
		Type: "Manufacturer",
		IRI:  func(m *models.Manufacturer) string { return ManufacturerIRI(m.ID) },
		Fields: []Field[models.Manufacturer]{
			{
				Name:   "name",
				Column: "Name",
				Groups: []Group{ManufacturerRead, ManufacturerWrite, ProductRead},
				Get:    func(m *models.Manufacturer, _ Group) any { return m.Name },
				Set: func(m *models.Manufacturer, raw json.RawMessage) error {
					return setString(&m.Name, raw)
				},
			},
			{
				Name:   "description",
				Column: "Description",
				Groups: []Group{ManufacturerRead, ManufacturerWrite, ProductRead},
				Get:    func(m *models.Manufacturer, _ Group) any { return m.Description },
				Set: func(m *models.Manufacturer, raw json.RawMessage) error {
					return setString(&m.Description, raw)
				},
			},
			{
				Name:   "countryCode",
				Column: "CountryCode",
				Groups: []Group{ManufacturerRead, ManufacturerWrite, ProductRead},
				Get:    func(m *models.Manufacturer, _ Group) any { return m.CountryCode },
				Set: func(m *models.Manufacturer, raw json.RawMessage) error {
					return setString(&m.CountryCode, raw)
				},
			},
			{
				Name:   "listedDate",
				Column: "ListedDate",
				Groups: []Group{ManufacturerRead, ManufacturerWrite},
				Get:    func(m *models.Manufacturer, _ Group) any { return dateValue(m.ListedDate) },
				Set: func(m *models.Manufacturer, raw json.RawMessage) (err error) {
					m.ListedDate, err = decodeDate(raw)
					return err
				},
			},
			{
				Name:   "products",
				Groups: []Group{ManufacturerRead},
				Get: func(m *models.Manufacturer, g Group) any {
					docs := make([]Document, 0, len(m.Products))
					for _, p := range m.Products {
						docs = append(docs, Products.Normalize(p, g))
					}
					return docs
				},
			},
		},
	}
}

// productManufacturer embeds the manufacturer when it is loaded and falls
// back to its IRI when only the key is known.
func productManufacturer(p *models.Product, g Group) any {
	if p.Manufacturer != nil {
		return Manufacturers.Normalize(p.Manufacturer, g)
	}
	if p.ManufacturerID != nil {
		return ManufacturerIRI(*p.ManufacturerID)
	}
	return nil
}

// setString stores null as the empty string so blank checks catch it.
func setString(dst *string, raw json.RawMessage) error {
	s, err := decodeString(raw)
	if err != nil {
		return err
	}
	if s == nil {
		*dst = ""
		return nil
	}
	*dst = *s
	return nil
}
