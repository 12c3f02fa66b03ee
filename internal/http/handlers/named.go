package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipe-backend/internal/data/repos/recipe"
	types "github.com/yungbote/recipe-backend/internal/domain"
	"github.com/yungbote/recipe-backend/internal/http/response"
	"github.com/yungbote/recipe-backend/internal/services"
)

// NamedHandler serves /api/tags and /api/ingredients.
type NamedHandler[T recipe.Named] struct {
	service services.NamedService[T]
	view    func(*T) namedView
}

type TagHandler = NamedHandler[types.Tag]
type IngredientHandler = NamedHandler[types.Ingredient]

func NewTagHandler(service services.TagService) *TagHandler {
	return &TagHandler{service: service, view: tagView}
}

func NewIngredientHandler(service services.IngredientService) *IngredientHandler {
	return &IngredientHandler{service: service, view: ingredientView}
}

func (h *NamedHandler[T]) List(c *gin.Context) {
	rows, err := h.service.List(requestCtx(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	out := make([]namedView, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.view(row))
	}
	response.RespondOK(c, out)
}

func (h *NamedHandler[T]) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	row, err := h.service.Get(requestCtx(c), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, h.view(row))
}

func (h *NamedHandler[T]) Create(c *gin.Context) {
	var req services.NamedInput
	if err := bindJSON(c, &req); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	row, err := h.service.Create(requestCtx(c), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, h.view(row))
}

// Update serves PUT and PATCH; PATCH leaves absent fields alone.
func (h *NamedHandler[T]) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	var req services.NamedInput
	if err := bindJSON(c, &req); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	row, err := h.service.Update(requestCtx(c), id, req, c.Request.Method == http.MethodPatch)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, h.view(row))
}

func (h *NamedHandler[T]) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if err := h.service.Delete(requestCtx(c), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}
