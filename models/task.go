// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Task is the core domain record. The same shape is used on the wire and in
// both stores; SyncStatus and SyncError are client-side bookkeeping and are
// never serialized (the server is the authority for a task's fields, the
// client is the authority for its reconciliation state).
type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Done  bool   `json:"is_done"`

	ImageLocalURI     string       `json:"image_local_uri,omitempty"`
	ImageRemoteURL    string       `json:"image_remote_url,omitempty"`
	ImageUploadStatus UploadStatus `json:"image_upload_status"`

	// CreatedAt and UpdatedAt are epoch milliseconds, set by whichever side
	// last wrote the record. Ownership passes to the server once accepted.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`

	SyncStatus SyncStatus `json:"-"`
	SyncError  string     `json:"-"`

	// RemoteSeen records whether the server has ever acknowledged this task.
	// It decides whether an errored or edited record re-enters the push queue
	// as created or updated.
	RemoteSeen bool `json:"-"`
}

// ImageURI resolves the displayable image reference, preferring the uploaded
// remote URL over the device-local one.
func (t Task) ImageURI() string {
	if t.ImageRemoteURL != "" {
		return t.ImageRemoteURL
	}
	return t.ImageLocalURI
}
