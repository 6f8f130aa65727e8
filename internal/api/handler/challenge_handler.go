package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"classhub/internal/dto"
	"classhub/internal/service"
	"classhub/internal/storage"
	"classhub/pkg/response"
)

// ChallengeHandler 挑战模块 HTTP 处理器
type ChallengeHandler struct {
	challengeSvc service.ChallengeService
}

// NewChallengeHandler 创建 ChallengeHandler
func NewChallengeHandler(challengeSvc service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeSvc: challengeSvc}
}

// CreateChallenge 发布挑战（仅教师，multipart 表单）
// POST /api/v1/challenges
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateChallengeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}

	challenge, err := h.challengeSvc.Create(c.Request.Context(), teacherID, &req, file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrExtensionNotAllowed):
			response.BadRequest(c, 10006, "不允许的文件类型")
		case errors.Is(err, storage.ErrFileTooLarge):
			response.BadRequest(c, 10007, "文件超出大小限制")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, challenge)
}

// ListChallenges 挑战列表
// GET /api/v1/challenges?teacher_id=xxx
// 响应不序列化答案与文件路径
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	list, err := h.challengeSvc.List(c.Request.Context(), c.Query("teacher_id"))
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// GetChallenge 挑战详情（仅教师，附带文件内容预览）
// GET /api/v1/challenges/:id
// 文件缺失时内容为占位串，详情本身照常返回
func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	challenge, content, err := h.challengeSvc.WithContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			response.NotFound(c, 40001, "挑战不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{
		"challenge": challenge,
		"content":   content,
	})
}

// SubmitAnswer 提交挑战答案
// POST /api/v1/challenges/:id/answer
// 答对解锁当前会话内的文件下载；答错只回统一提示
func (h *ChallengeHandler) SubmitAnswer(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var req dto.ChallengeAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.challengeSvc.SubmitAnswer(c.Request.Context(), sessionID, c.Param("id"), req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeNotFound):
			response.NotFound(c, 40001, "挑战不存在")
		case errors.Is(err, service.ErrChallengeFileMissing):
			response.NotFound(c, 40002, "挑战文件缺失")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
