package hydra

import "strings"

type IriTemplate struct {
	Type                   string    `json:"@type"`
	Template               string    `json:"hydra:template"`
	VariableRepresentation string    `json:"hydra:variableRepresentation"`
	Mapping                []Mapping `json:"hydra:mapping"`
}

type Mapping struct {
	Type     string `json:"@type"`
	Variable string `json:"variable"`
	Property string `json:"property"`
	Required bool   `json:"required"`
}

// Filter describes a query parameter accepted by a collection.
type Filter struct {
	Variable string
	Property string
}

// SearchTemplate advertises the filters a collection at path accepts.
func SearchTemplate(path string, filters ...Filter) *IriTemplate {
	vars := make([]string, 0, len(filters))
	mapping := make([]Mapping, 0, len(filters))
	for _, f := range filters {
		vars = append(vars, f.Variable)
		mapping = append(mapping, Mapping{
			Type:     "IriTemplateMapping",
			Variable: f.Variable,
			Property: f.Property,
		})
	}
	return &IriTemplate{
		Type:                   "hydra:IriTemplate",
		Template:               path + "{?" + strings.Join(vars, ",") + "}",
		VariableRepresentation: "BasicRepresentation",
		Mapping:                mapping,
	}
}
