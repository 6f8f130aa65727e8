package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"classhub/internal/dto"
	"classhub/internal/model"
	"classhub/internal/service"
	"classhub/internal/storage"
	"classhub/pkg/response"
)

// AssignmentHandler 作业模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// CreateAssignment 发布作业（仅教师，multipart 表单）
// POST /api/v1/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}

	assignment, err := h.assignmentSvc.Create(c.Request.Context(), teacherID, &req, file)
	if err != nil {
		handleUploadError(c, err)
		return
	}

	response.Created(c, assignment)
}

// GetAssignment 作业详情
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	assignment, err := h.assignmentSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			response.NotFound(c, 30001, "作业不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, assignment)
}

// ListAssignments 作业列表
// GET /api/v1/assignments?teacher_id=xxx
// 学生视角每条作业附带“是否已提交”标记
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	teacherFilter := c.Query("teacher_id")

	if role == model.RoleTeacher {
		list, err := h.assignmentSvc.ListForTeacher(c.Request.Context(), teacherFilter)
		if err != nil {
			response.InternalError(c)
			return
		}
		response.OK(c, list)
		return
	}

	list, err := h.assignmentSvc.ListForStudent(c.Request.Context(), userID, teacherFilter)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// handleUploadError 上传类接口的统一错误映射
func handleUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrExtensionNotAllowed):
		response.BadRequest(c, 10006, "不允许的文件类型")
	case errors.Is(err, storage.ErrFileTooLarge):
		response.BadRequest(c, 10007, "文件超出大小限制")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 30001, "作业不存在")
	default:
		response.InternalError(c)
	}
}
