package widget

import (
	"go-lms/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type WidgetTypeApi struct{}

func NewWidgetTypeApi() api.Route {
	return &WidgetTypeApi{}
}

func (a *WidgetTypeApi) Setup(app *fiber.App) {
	app.Get("/api/widget-types", ListTypes)
}

// CatalogEntry is the palette entry served to the editor.
type CatalogEntry struct {
	Descriptor
	Sources  []DataSource `json:"compatible_sources"`
	Defaults Config       `json:"default_config"`
}

// ListTypes godoc
// @Summary List widget types
// @Description Widget palette: default sizes, compatible data sources and default settings
// @Tags widgets
// @Produce json
// @Success 200 {array} CatalogEntry
// @Router /api/widget-types [get]
func ListTypes(c *fiber.Ctx) error {
	types := Types()
	out := make([]CatalogEntry, 0, len(types))
	for _, d := range types {
		out = append(out, CatalogEntry{
			Descriptor: d,
			Sources:    d.SourceList(),
			Defaults:   Decode(d.Type, nil).Apply(Config{}),
		})
	}
	return c.JSON(out)
}
