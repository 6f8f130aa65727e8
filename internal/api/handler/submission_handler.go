package handler

import (
	"github.com/gin-gonic/gin"

	"classhub/internal/repository"
	"classhub/internal/service"
	"classhub/pkg/response"
)

// SubmissionHandler 提交模块 HTTP 处理器
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// SaveSubmission 提交作业（仅学生，multipart 表单）
// POST /api/v1/assignments/:id/submissions
// 重复提交覆盖此前的提交，不产生新行
func (h *SubmissionHandler) SaveSubmission(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}

	result, err := h.submissionSvc.Save(c.Request.Context(), studentID, c.Param("id"), file)
	if err != nil {
		handleUploadError(c, err)
		return
	}

	if result.Updated {
		response.OK(c, result)
		return
	}
	response.Created(c, result)
}

// ListSubmissions 提交列表
// GET /api/v1/submissions?assignment_id=xxx&student_id=xxx
// 教师可按条件过滤全部提交；学生只能看到自己的
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	callerRole, ok := MustGetRole(c)
	if !ok {
		return
	}

	filters := repository.SubmissionFilters{
		AssignmentID: c.Query("assignment_id"),
		StudentID:    c.Query("student_id"),
	}

	list, err := h.submissionSvc.List(c.Request.Context(), callerID, callerRole, filters)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, list)
}
