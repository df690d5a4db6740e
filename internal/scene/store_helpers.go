package scene

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const sceneColumns = "id, episode_id, project_id, number, description, location, time_of_day, camera_angle, characters_json, props_json, dialogue_json, status, composite_url, video_url, last_frame_url, iterations_json, error_message, created_at, updated_at"

func scanScene(scanner interface{ Scan(dest ...any) error }) (*Scene, error) {
	var (
		id           string
		episodeID    sql.NullString
		projectID    sql.NullString
		number       sql.NullInt64
		description  sql.NullString
		location     sql.NullString
		timeOfDay    sql.NullString
		cameraAngle  sql.NullString
		characters   sql.NullString
		props        sql.NullString
		dialogue     sql.NullString
		statusStr    string
		compositeURL sql.NullString
		videoURL     sql.NullString
		lastFrameURL sql.NullString
		iterations   sql.NullString
		errorMessage sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&episodeID,
		&projectID,
		&number,
		&description,
		&location,
		&timeOfDay,
		&cameraAngle,
		&characters,
		&props,
		&dialogue,
		&statusStr,
		&compositeURL,
		&videoURL,
		&lastFrameURL,
		&iterations,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	sc := &Scene{
		ID:             id,
		EpisodeID:      episodeID.String,
		ProjectID:      projectID.String,
		Number:         int(number.Int64),
		Description:    description.String,
		Location:       location.String,
		TimeOfDay:      timeOfDay.String,
		CameraAngle:    cameraAngle.String,
		Characters:     unmarshalStrings(characters.String),
		Props:          unmarshalStrings(props.String),
		Dialogue:       unmarshalStrings(dialogue.String),
		Status:         Status(statusStr),
		CompositeURL:   compositeURL.String,
		VideoURL:       videoURL.String,
		LastFrameURL:   lastFrameURL.String,
		IterationsJSON: iterations.String,
		ErrorMessage:   errorMessage.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		sc.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		sc.UpdatedAt = updated
	}
	return sc, nil
}

func collectScenes(rows *sql.Rows) ([]*Scene, error) {
	var scenes []*Scene
	for rows.Next() {
		sc, err := scanScene(rows)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, sc)
	}
	return scenes, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func marshalStrings(values []string) any {
	if len(values) == 0 {
		return nil
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return string(encoded)
}

func unmarshalStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
