package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"moodiary/models"
)

// List mood statuses with their macro category
// (GET /moods)
func (impl *ServerImpl) GetMoods(c *gin.Context) {
	const op = "GetMoods"
	var query PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeError(c, op, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	moods, total, err := impl.moods.ListMicro(c.Request.Context(), query.Page, query.Size)
	if err != nil {
		writeError(c, op, err)
		return
	}
	items := lo.Map(moods, func(mood models.MoodMicroStatus, _ int) MoodResponse {
		return toMoodResponse(mood)
	})
	c.JSON(http.StatusOK, DataResponse[PageResponse[MoodResponse]]{
		Data:    newPageResponse(items, total, query),
		Message: "ok",
	})
}
