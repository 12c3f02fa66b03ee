package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipe-backend/internal/http/response"
	domainerrors "github.com/yungbote/recipe-backend/internal/pkg/errors"
	"github.com/yungbote/recipe-backend/internal/pkg/logger"
	"github.com/yungbote/recipe-backend/internal/services"
)

const (
	MaxImageBytes = 10 << 20

	// multipart framing on top of the file itself
	multipartOverhead = 1 << 20
)

type RecipeHandler struct {
	log     *logger.Logger
	recipes services.RecipeService
}

func NewRecipeHandler(log *logger.Logger, recipes services.RecipeService) *RecipeHandler {
	return &RecipeHandler{log: log.With("handler", "RecipeHandler"), recipes: recipes}
}

// GET /api/recipes?tags=1,2&ingredient=3
func (h *RecipeHandler) List(c *gin.Context) {
	tagIDs, err := parseIDList("tags", c.Query("tags"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	rawIngredients := c.Query("ingredient")
	if rawIngredients == "" {
		rawIngredients = c.Query("ingredients")
	}
	ingredientIDs, err := parseIDList("ingredient", rawIngredients)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	rows, err := h.recipes.List(requestCtx(c), services.RecipeFilter{TagIDs: tagIDs, IngredientIDs: ingredientIDs})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	out := make([]recipeView, 0, len(rows))
	for _, r := range rows {
		out = append(out, newRecipeView(r))
	}
	response.RespondOK(c, out)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	rec, err := h.recipes.Get(requestCtx(c), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, newRecipeDetailView(rec, h.recipes.ImageURL(rec)))
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req services.RecipeInput
	if err := bindJSON(c, &req); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	rec, err := h.recipes.Create(requestCtx(c), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, newRecipeDetailView(rec, h.recipes.ImageURL(rec)))
}

// Update serves PUT and PATCH. On either verb a present tags or ingredient list replaces
// the current set and an absent one keeps it.
func (h *RecipeHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	var req services.RecipeInput
	if err := bindJSON(c, &req); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	rec, err := h.recipes.Update(requestCtx(c), id, req, c.Request.Method == http.MethodPatch)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, newRecipeDetailView(rec, h.recipes.ImageURL(rec)))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if err := h.recipes.Delete(requestCtx(c), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/recipes/:id/image, multipart field "image".
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageBytes+multipartOverhead)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondServiceError(c, imageTooLarge())
			return
		}
		response.RespondServiceError(c, domainerrors.NewValidation("image", "no file was submitted"))
		return
	}
	if fh.Size > MaxImageBytes {
		response.RespondServiceError(c, imageTooLarge())
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondServiceError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		response.RespondServiceError(c, fmt.Errorf("read upload: %w", err))
		return
	}
	if len(data) > MaxImageBytes {
		response.RespondServiceError(c, imageTooLarge())
		return
	}

	rec, err := h.recipes.UploadImage(requestCtx(c), id, data)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, recipeImageView{ID: rec.ID, Image: optionalURL(h.recipes.ImageURL(rec))})
}

func imageTooLarge() error {
	return domainerrors.NewValidation("image", fmt.Sprintf("file exceeds %d MiB", MaxImageBytes>>20))
}
