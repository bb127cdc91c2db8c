package service

import (
	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
)

type Services struct {
	TaskService   TaskService
	SyncService   SyncService
	AuthService   AuthService
	UploadService UploadHandlerService
}

func NewServices(taskRepository store.TaskRepository, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		TaskService:   NewTaskService(taskRepository, logger),
		SyncService:   NewSyncService(taskRepository, logger),
		AuthService:   NewAuthService(cfg.App, logger),
		UploadService: NewUploadHandlerService("http://"+cfg.Server.HTTPAddress, logger),
	}
}
