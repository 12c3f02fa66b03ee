package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipe-backend/internal/pkg/dbctx"
	domainerrors "github.com/yungbote/recipe-backend/internal/pkg/errors"
)

func requestCtx(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

// pathID parses the :id route parameter. Anything that is not a positive integer
// cannot name a row and reads as not found.
func pathID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domainerrors.ErrNotFound
	}
	return id, nil
}

// parseIDList reads a comma separated id list such as "1,2,3". Blank items are skipped.
func parseIDList(field, raw string) ([]uint64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []uint64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, domainerrors.NewValidation(field, fmt.Sprintf("%q is not a valid id", part))
		}
		out = append(out, id)
	}
	return out, nil
}

// bindJSON decodes the body into dst and reports malformed payloads as validation errors.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return domainerrors.NewValidation("non_field_errors", "invalid request body: "+err.Error())
	}
	return nil
}
