package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"classhub/internal/service"
	"classhub/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSubmissions 导出某作业的提交清单（仅教师）
// GET /api/v1/export/submissions?assignment_id=xxx
func (h *ExportHandler) ExportSubmissions(c *gin.Context) {
	assignmentID := c.Query("assignment_id")
	if assignmentID == "" {
		response.BadRequest(c, 10001, "assignment_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportSubmissions(c.Request.Context(), assignmentID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 30001, "作业不存在")
	case errors.Is(err, service.ErrExportNoSubmissions):
		response.BadRequest(c, 30002, "该作业暂无提交")
	default:
		response.InternalError(c)
	}
}
