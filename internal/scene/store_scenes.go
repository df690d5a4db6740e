package scene

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Create inserts a new scene in pending status. A missing ID is generated.
func (s *Store) Create(ctx context.Context, sc *Scene) (*Scene, error) {
	if sc == nil {
		return nil, errors.New("scene is nil")
	}
	if strings.TrimSpace(sc.ID) == "" {
		sc.ID = uuid.NewString()
	}
	if sc.Status == "" {
		sc.Status = StatusPending
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO scenes (
            id, episode_id, project_id, number, description, location,
            time_of_day, camera_angle, characters_json, props_json,
            dialogue_json, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID,
		nullableString(sc.EpisodeID),
		nullableString(sc.ProjectID),
		sc.Number,
		nullableString(sc.Description),
		nullableString(sc.Location),
		nullableString(sc.TimeOfDay),
		nullableString(sc.CameraAngle),
		marshalStrings(sc.Characters),
		marshalStrings(sc.Props),
		marshalStrings(sc.Dialogue),
		sc.Status,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert scene: %w", err)
	}
	return s.Fetch(ctx, sc.ID)
}

// Fetch returns a scene by identifier, or nil when it does not exist.
func (s *Store) Fetch(ctx context.Context, id string) (*Scene, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sceneColumns+` FROM scenes WHERE id = ?`, id)
	sc, err := scanScene(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch scene: %w", err)
	}
	return sc, nil
}

// Update persists all mutable fields of an existing scene.
func (s *Store) Update(ctx context.Context, sc *Scene) error {
	if sc == nil {
		return errors.New("scene is nil")
	}
	sc.UpdatedAt = time.Now().UTC()
	_, err := s.execWithRetry(
		ctx,
		`UPDATE scenes
         SET episode_id = ?, project_id = ?, number = ?, description = ?,
             location = ?, time_of_day = ?, camera_angle = ?,
             characters_json = ?, props_json = ?, dialogue_json = ?,
             status = ?, composite_url = ?, video_url = ?, last_frame_url = ?,
             iterations_json = ?, error_message = ?, updated_at = ?
         WHERE id = ?`,
		nullableString(sc.EpisodeID),
		nullableString(sc.ProjectID),
		sc.Number,
		nullableString(sc.Description),
		nullableString(sc.Location),
		nullableString(sc.TimeOfDay),
		nullableString(sc.CameraAngle),
		marshalStrings(sc.Characters),
		marshalStrings(sc.Props),
		marshalStrings(sc.Dialogue),
		sc.Status,
		nullableString(sc.CompositeURL),
		nullableString(sc.VideoURL),
		nullableString(sc.LastFrameURL),
		nullableString(sc.IterationsJSON),
		nullableString(sc.ErrorMessage),
		sc.UpdatedAt.Format(time.RFC3339Nano),
		sc.ID,
	)
	if err != nil {
		return fmt.Errorf("update scene: %w", err)
	}
	return nil
}

// UpdateStatus persists a status transition for a scene.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) error {
	if _, ok := statusSet[status]; !ok {
		return fmt.Errorf("unknown status %q", status)
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE scenes SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("update scene status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("scene %s not found", id)
	}
	return nil
}

// Fields describes a partial update of a scene's result columns. Nil members
// are left untouched.
type Fields struct {
	CompositeURL   *string
	VideoURL       *string
	LastFrameURL   *string
	IterationsJSON *string
	ErrorMessage   *string
}

// UpdateFields persists a partial update of a scene's result fields.
func (s *Store) UpdateFields(ctx context.Context, id string, fields Fields) error {
	assignments := make([]string, 0, 6)
	args := make([]any, 0, 7)
	appendField := func(column string, value *string) {
		if value == nil {
			return
		}
		assignments = append(assignments, column+" = ?")
		args = append(args, nullableString(*value))
	}
	appendField("composite_url", fields.CompositeURL)
	appendField("video_url", fields.VideoURL)
	appendField("last_frame_url", fields.LastFrameURL)
	appendField("iterations_json", fields.IterationsJSON)
	appendField("error_message", fields.ErrorMessage)
	if len(assignments) == 0 {
		return nil
	}
	assignments = append(assignments, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano), id)

	_, err := s.execWithRetry(
		ctx,
		`UPDATE scenes SET `+strings.Join(assignments, ", ")+` WHERE id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update scene fields: %w", err)
	}
	return nil
}

// List returns all scenes ordered by episode and scene number.
func (s *Store) List(ctx context.Context) ([]*Scene, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sceneColumns+` FROM scenes ORDER BY episode_id, number, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer rows.Close()
	return collectScenes(rows)
}

// ScenesByStatus returns scenes matching a status ordered by creation time.
func (s *Store) ScenesByStatus(ctx context.Context, status Status) ([]*Scene, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sceneColumns+` FROM scenes WHERE status = ? ORDER BY created_at`, status)
	if err != nil {
		return nil, fmt.Errorf("query scenes by status: %w", err)
	}
	defer rows.Close()
	return collectScenes(rows)
}

// Stats returns a count of scenes grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM scenes GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("scene stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates scene state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusCompleted:
			health.Completed += count
		case StatusFailed:
			health.Failed += count
		default:
			if _, ok := processingStatuses[status]; ok {
				health.Processing += count
			}
		}
	}
	return health, nil
}

// ResetStuckProcessing rolls scenes abandoned mid-phase back to pending so a
// restarted process can pick them up cleanly.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE scenes SET status = ?, updated_at = ? WHERE status IN (?, ?, ?, ?)`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusAnalyzing,
		StatusCompositing,
		StatusGeneratingVideo,
		StatusExtractingFrame,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck scenes: %w", err)
	}
	return res.RowsAffected()
}
