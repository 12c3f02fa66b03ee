package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipe-backend/internal/http/response"
	"github.com/yungbote/recipe-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/user/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(requestCtx(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, newUserView(me))
}

// PUT|PATCH /api/user/me
func (uh *UserHandler) UpdateMe(c *gin.Context) {
	var req services.UpdateUserInput
	if err := bindJSON(c, &req); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	me, err := uh.userService.UpdateMe(requestCtx(c), req, c.Request.Method == http.MethodPatch)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, newUserView(me))
}
