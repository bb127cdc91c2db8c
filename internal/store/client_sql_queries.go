package store

// Raw SQL for the client's SQLite replica. The column list must stay in sync
// with scanLocalTask and localTaskValues.
const (
	localTaskColumns = `id, title, body, is_done, image_local_uri, image_remote_url,
		image_upload_status, created_at, updated_at, sync_status, sync_error, remote_seen`

	selectLocalTask = `SELECT ` + localTaskColumns + ` FROM tasks WHERE id = ?;`

	selectAllLocalTasks = `SELECT ` + localTaskColumns + ` FROM tasks ORDER BY created_at, id;`

	// push queue order: deletes free ids before creates, updates go last so a
	// concurrent server-side delete is discovered as late as possible
	selectDirtyLocalTasks = `SELECT ` + localTaskColumns + ` FROM tasks
		WHERE sync_status != 'synced'
		ORDER BY CASE sync_status
			WHEN 'deleted' THEN 0
			WHEN 'created' THEN 1
			WHEN 'updated' THEN 2
			ELSE 3
		END, updated_at, id;`

	selectSyncedLocalTaskIDs = `SELECT id FROM tasks WHERE sync_status = 'synced';`

	selectPendingUploadTasks = `SELECT ` + localTaskColumns + ` FROM tasks
		WHERE image_upload_status = 'pending'
		  AND image_local_uri != ''
		  AND sync_status != 'deleted'
		ORDER BY created_at, id;`

	insertLocalTask = `INSERT INTO tasks (` + localTaskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	upsertLocalTask = `INSERT INTO tasks (` + localTaskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			is_done = excluded.is_done,
			image_local_uri = excluded.image_local_uri,
			image_remote_url = excluded.image_remote_url,
			image_upload_status = excluded.image_upload_status,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			sync_status = excluded.sync_status,
			sync_error = excluded.sync_error,
			remote_seen = excluded.remote_seen;`

	updateLocalTask = `UPDATE tasks SET
			title = ?,
			body = ?,
			is_done = ?,
			image_local_uri = ?,
			image_remote_url = ?,
			image_upload_status = ?,
			updated_at = ?,
			sync_status = ?,
			sync_error = ?,
			remote_seen = ?
		WHERE id = ?;`

	updateLocalTaskStatus = `UPDATE tasks SET sync_status = ?, sync_error = ?, remote_seen = ?
		WHERE id = ?;`

	updateLocalTaskError = `UPDATE tasks SET sync_status = ?, sync_error = ? WHERE id = ?;`

	deleteLocalTask = `DELETE FROM tasks WHERE id = ?;`

	selectSyncStateValue = `SELECT value FROM sync_state WHERE key = ?;`

	upsertSyncStateValue = `INSERT INTO sync_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value;`
)

// syncStateCursorKey is the sync_state row holding the serialized pull cursor.
const syncStateCursorKey = "cursor"
