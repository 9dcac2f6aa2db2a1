package editor

import (
	"go-lms/internal/common/api"
	"go-lms/internal/config"
	"go-lms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EditorApi struct {
	EditorController *EditorController
	Config           *config.Config
}

func NewEditorApi(editorController *EditorController, cfg *config.Config) api.Route {
	return &EditorApi{
		EditorController: editorController,
		Config:           cfg,
	}
}

func (api *EditorApi) Setup(app *fiber.App) {
	group := app.Group("/api/editor/sessions", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/", api.EditorController.OpenSession)
	group.Get("/:sid", api.EditorController.GetSession)
	group.Delete("/:sid", api.EditorController.DiscardSession)
	group.Post("/:sid/save", api.EditorController.SaveSession)

	group.Post("/:sid/widgets", api.EditorController.AddWidget)
	group.Patch("/:sid/widgets/:wid", api.EditorController.UpdateWidget)
	group.Delete("/:sid/widgets/:wid", api.EditorController.DeleteWidget)
	group.Put("/:sid/layout", api.EditorController.UpdateLayout)
	group.Patch("/:sid/metadata", api.EditorController.UpdateMetadata)
}
