package service

import (
	"github.com/MKhiriev/go-task-keeper/internal/adapter"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/netwatch"
	"github.com/MKhiriev/go-task-keeper/internal/store"
)

type ClientServices struct {
	TaskService   ClientTaskService
	SyncEngine    RecordSyncEngine
	BulkEngine    SyncEngine
	Orchestrator  SyncOrchestrator
	UploadService UploadService
	SyncJob       ClientSyncJob
}

func NewClientServices(localStore store.LocalTaskStore, serverAdapter adapter.ServerAdapter, oracle netwatch.Oracle, log *logger.Logger) *ClientServices {
	restEngine := NewRESTSyncService(localStore, serverAdapter, log)
	bulkEngine := NewBulkSyncService(localStore, serverAdapter, log)
	orchestrator := NewSyncOrchestrator(restEngine, oracle, log)
	uploads := NewUploadService(localStore, serverAdapter, oracle, log)

	return &ClientServices{
		TaskService:   NewClientTaskService(localStore, restEngine, oracle, log),
		SyncEngine:    restEngine,
		BulkEngine:    bulkEngine,
		Orchestrator:  orchestrator,
		UploadService: uploads,
		SyncJob:       NewClientSyncJob(orchestrator, uploads),
	}
}
