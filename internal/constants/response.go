package constants

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Standard response field keys
const (
	ResponseFieldMessage = "message"
	ResponseFieldStatus  = "status"
	ResponseFieldCode    = "code"

	ResponseFieldTotal     = "total"
	ResponseFieldPage      = "page"
	ResponseFieldPageTotal = "page_total"
	ResponseFieldData      = "data"
)

// PaginationParams holds parsed pagination query parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePaginationParams parses page and limit query parameters with
// clamping to sane bounds.
func ParsePaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery(QueryParamPage, DefaultPage))
	limit, _ := strconv.Atoi(c.DefaultQuery(QueryParamLimit, DefaultLimit))

	if page < MinPage {
		page = MinPage
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// BuildErrorResponse builds the error body shape used by every handler:
// a human-readable message, the numeric status, and a stable machine
// code clients branch on.
func BuildErrorResponse(message string, status int, code string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
		ResponseFieldStatus:  status,
		ResponseFieldCode:    code,
	}
}

// BuildSuccessResponse builds a plain message body
func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}

// BuildListResponse builds a paginated list body
func BuildListResponse(total int64, page int, pageTotal int, data any) map[string]any {
	return map[string]any{
		ResponseFieldTotal:     total,
		ResponseFieldPage:      page,
		ResponseFieldPageTotal: pageTotal,
		ResponseFieldData:      data,
	}
}
