package handler

import (
	"net/url"

	"github.com/gin-gonic/gin"

	"classhub/internal/service"
	"classhub/pkg/response"
)

// 可下载的文件类型参数
var downloadableTypes = map[string]bool{
	"assignment": true,
	"submission": true,
	"challenge":  true,
}

// FileHandler 文件下载 HTTP 处理器
// 所有落盘文件只经此出口下发，每次请求独立走授权门判定
type FileHandler struct {
	artifactSvc service.ArtifactService
}

// NewFileHandler 创建 FileHandler
func NewFileHandler(artifactSvc service.ArtifactService) *FileHandler {
	return &FileHandler{artifactSvc: artifactSvc}
}

// Download 下载文件
// GET /api/v1/files?type=assignment|submission|challenge&id=xxx
// 参数校验先于任何记录查询
func (h *FileHandler) Download(c *gin.Context) {
	artifactType := c.Query("type")
	artifactID := c.Query("id")
	if !downloadableTypes[artifactType] || artifactID == "" {
		response.BadRequest(c, 10001, "type 或 id 参数无效")
		return
	}

	who := service.Identity{Authenticated: false}
	if userID, exists := c.Get("user_id"); exists {
		who = service.Identity{
			UserID:        userID.(string),
			Role:          c.GetString("role"),
			SessionID:     c.GetString("session_id"),
			Authenticated: true,
		}
	}

	decision := h.artifactSvc.Authorize(c.Request.Context(), who, artifactType, artifactID)
	if !decision.Allowed {
		switch decision.Reason {
		case service.DenyUnauthenticated:
			// 未认证的下载与无权限同样以 403 拒绝
			response.Forbidden(c, 10002, "未认证")
		case service.DenyForbidden:
			response.Forbidden(c, 10003, "无权限下载该文件")
		case service.DenyLocked:
			response.Forbidden(c, 40003, "回答正确后才能下载该文件")
		default:
			response.NotFound(c, 50001, "文件不存在")
		}
		return
	}

	encodedFilename := url.QueryEscape(decision.Filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", decision.MIMEType)
	c.File(decision.FilePath)
}
