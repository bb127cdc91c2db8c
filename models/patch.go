package models

// TaskPatch is the partial-update shape accepted by PATCH/PUT /api/tasks.
// Nil fields are left untouched, so a caller can flip Done without knowing
// the current title.
type TaskPatch struct {
	ID                string        `json:"id"`
	Title             *string       `json:"title,omitempty"`
	Body              *string       `json:"body,omitempty"`
	Done              *bool         `json:"is_done,omitempty"`
	ImageLocalURI     *string       `json:"image_local_uri,omitempty"`
	ImageRemoteURL    *string       `json:"image_remote_url,omitempty"`
	ImageUploadStatus *UploadStatus `json:"image_upload_status,omitempty"`
}

// Apply copies every non-nil patch field onto t. Timestamps are the caller's
// responsibility.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Body != nil {
		t.Body = *p.Body
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
	if p.ImageLocalURI != nil {
		t.ImageLocalURI = *p.ImageLocalURI
	}
	if p.ImageRemoteURL != nil {
		t.ImageRemoteURL = *p.ImageRemoteURL
	}
	if p.ImageUploadStatus != nil {
		t.ImageUploadStatus = *p.ImageUploadStatus
	}
}

// PatchFromTask builds a full patch carrying every field of t. The sync
// engine pushes whole records; the sparse form exists for interactive
// callers.
func PatchFromTask(t Task) TaskPatch {
	return TaskPatch{
		ID:                t.ID,
		Title:             &t.Title,
		Body:              &t.Body,
		Done:              &t.Done,
		ImageLocalURI:     &t.ImageLocalURI,
		ImageRemoteURL:    &t.ImageRemoteURL,
		ImageUploadStatus: &t.ImageUploadStatus,
	}
}
