// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// TaskChanges is the change-set shape shared by the bulk pull and push
// protocols: full records for creates and updates, bare ids for deletes.
type TaskChanges struct {
	Created []Task   `json:"created"`
	Updated []Task   `json:"updated"`
	Deleted []string `json:"deleted"`
}

// Empty reports whether the change-set carries nothing to apply.
func (c TaskChanges) Empty() bool {
	return len(c.Created) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}

// PullRequest is sent by the client to POST /api/sync/pull.
// A nil LastPulledAt marks the first sync ever: the server reports its entire
// record set as created.
type PullRequest struct {
	LastPulledAt  *int64 `json:"lastPulledAt"`
	SchemaVersion int    `json:"schemaVersion,omitempty"`
}

// PullResponse is the server's diff against the client's cursor. Timestamp is
// the cutoff the client must persist as its next cursor, and only after every
// change in Changes has been committed locally.
type PullResponse struct {
	Changes   TaskChanges `json:"changes"`
	Timestamp int64       `json:"timestamp"`
}

// PushRequest is sent by the client to POST /api/sync/push with every dirty
// record bucketed by its local status.
type PushRequest struct {
	Changes      TaskChanges `json:"changes"`
	LastPulledAt *int64      `json:"lastPulledAt"`
}

// PushResponse acknowledges that the whole change-set was durably applied.
type PushResponse struct {
	OK bool `json:"ok"`
}

// Cursor is the client-side sync watermark for the bulk protocol. It advances
// only after a successful, fully committed pull.
type Cursor struct {
	LastPulledAt  *int64 `json:"last_pulled_at"`
	SchemaVersion int    `json:"schema_version"`
}

// Tombstone is a remembered server-side deletion, letting a cursor-based pull
// report "removed after your cursor" instead of a bare absence.
type Tombstone struct {
	ID        string `json:"id"`
	DeletedAt int64  `json:"deleted_at"`
}
