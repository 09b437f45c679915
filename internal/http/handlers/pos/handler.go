package pos

import (
	"github.com/pos-next/internal/provider"

	handlershared "github.com/pos-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 收银端接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建收银端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func getStaffID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "staff_id")
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}
