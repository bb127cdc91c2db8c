package models

// SyncStatus describes the reconciliation state of a local task relative to
// the server. Every local task carries exactly one status at any time.
//
// Transition table:
//
//	(new local task)        -> created
//	synced  + local edit    -> updated
//	created + local edit    -> created   (never left the client, stays new)
//	any     + local delete  -> deleted   (soft; created-only tasks are purged outright)
//	created + push 200/409  -> synced
//	updated + push 200      -> synced
//	updated + push 404      -> (hard-removed: server deletion wins)
//	deleted + push 200/404  -> (hard-removed)
//	any     + push failure  -> error     (SyncError holds the message)
//	error   + retry         -> updated or created, then pushed again
//
// A task leaves the local store only through a confirmed remote delete, an
// orphan sweep, or a 404 on update.
type SyncStatus string

const (
	// StatusSynced means the local task matches the last known server state.
	StatusSynced SyncStatus = "synced"

	// StatusCreated means the task was created locally and never accepted by
	// the server.
	StatusCreated SyncStatus = "created"

	// StatusUpdated means the task exists on the server but carries local
	// edits that have not been pushed yet.
	StatusUpdated SyncStatus = "updated"

	// StatusDeleted means the task was deleted locally; the row is retained
	// until the server acknowledges the delete.
	StatusDeleted SyncStatus = "deleted"

	// StatusError means the last push attempt for this task failed.
	// SyncError on the task holds the failure message.
	StatusError SyncStatus = "error"
)

// Dirty reports whether the task still needs to be pushed to the server.
func (s SyncStatus) Dirty() bool {
	return s != StatusSynced
}

// Valid reports whether s is one of the five known statuses.
func (s SyncStatus) Valid() bool {
	switch s {
	case StatusSynced, StatusCreated, StatusUpdated, StatusDeleted, StatusError:
		return true
	default:
		return false
	}
}

// UploadStatus tracks the image attachment transfer state of a task.
type UploadStatus string

const (
	// UploadNone means the task has no image attachment to transfer.
	UploadNone UploadStatus = "none"

	// UploadPending means a local image is waiting to be uploaded.
	UploadPending UploadStatus = "pending"

	// UploadDone means the image has been uploaded and ImageRemoteURL is set.
	UploadDone UploadStatus = "done"
)
