package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crashmonitor/server/internal/domain/events"
	"github.com/crashmonitor/server/internal/domain/ids"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ events.Repository = (*EventRepository)(nil)

// EventRepository owns the physical representation of persisted events:
// scalar fields stored flat (so the committed indexes apply), structured
// sub-records and free-form maps stored as JSONB verbatim.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id, app_id, message, level, event_type, stacktrace, event_timestamp,
       user_id, device_id, device, app, sdk, tags, breadcrumbs, meta, created_at`

// Insert persists a validated payload. The identifier is minted here (never
// accepted from the client) and created_at is assigned by the database; the
// RETURNING clause materializes the stored record in the same atomic call,
// so a failed insert can never yield a fabricated identity.
func (r *EventRepository) Insert(ctx context.Context, payload events.Payload) (*events.Event, error) {
	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint event id: %w", err)
	}

	device, err := marshalOptional(payload.Device)
	if err != nil {
		return nil, fmt.Errorf("encode device: %w", err)
	}
	app, err := marshalOptional(payload.App)
	if err != nil {
		return nil, fmt.Errorf("encode app: %w", err)
	}
	sdk, err := marshalOptional(payload.SDK)
	if err != nil {
		return nil, fmt.Errorf("encode sdk: %w", err)
	}
	tags, err := marshalOrDefault(payload.Tags, `{}`)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	breadcrumbs, err := marshalOrDefault(payload.Breadcrumbs, `[]`)
	if err != nil {
		return nil, fmt.Errorf("encode breadcrumbs: %w", err)
	}
	meta, err := marshalOrDefault(payload.Meta, `{}`)
	if err != nil {
		return nil, fmt.Errorf("encode meta: %w", err)
	}

	var createdAt pgtype.Timestamptz
	err = r.pool.QueryRow(ctx, `
INSERT INTO events (id, app_id, message, level, event_type, stacktrace, event_timestamp,
                    user_id, device_id, device, app, sdk, tags, breadcrumbs, meta)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING created_at
`,
		id,
		payload.AppID,
		payload.Message,
		payload.Level,
		payload.EventType,
		nullable(payload.Stacktrace),
		nullable(payload.Timestamp),
		nullable(payload.UserID),
		nullable(payload.DeviceID),
		device,
		app,
		sdk,
		tags,
		breadcrumbs,
		meta,
	).Scan(&createdAt)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	event := &events.Event{ID: id, Payload: payload}
	if createdAt.Valid {
		event.CreatedAt = createdAt.Time.UTC()
	}
	return event, nil
}

// GetByID returns a single event. Identifier syntax is validated upstream,
// so a miss here is a genuine absence.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE id = $1
`, id)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// List returns events matching the filters, newest first with identifier
// order as the deterministic tie-break. Absent filters are omitted rather
// than matched as empty strings.
func (r *EventRepository) List(ctx context.Context, filters events.Filters, pagination events.Pagination) ([]events.Event, error) {
	limit := pagination.Limit
	if limit <= 0 {
		limit = events.DefaultLimit
	}
	skip := pagination.Skip
	if skip < 0 {
		skip = 0
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE ($1 = '' OR app_id = $1)
   AND ($2 = '' OR level = $2)
   AND ($3 = '' OR event_type = $3)
 ORDER BY created_at DESC, id ASC
 LIMIT $4 OFFSET $5
`,
		filters.AppID,
		filters.Level,
		filters.EventType,
		limit,
		skip,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	items := make([]events.Event, 0, limit)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var (
		id             string
		appID          string
		message        string
		level          string
		eventType      string
		stacktrace     *string
		eventTimestamp *string
		userID         *string
		deviceID       *string
		device         []byte
		app            []byte
		sdk            []byte
		tags           []byte
		breadcrumbs    []byte
		meta           []byte
		createdAt      pgtype.Timestamptz
	)
	if err := row.Scan(
		&id,
		&appID,
		&message,
		&level,
		&eventType,
		&stacktrace,
		&eventTimestamp,
		&userID,
		&deviceID,
		&device,
		&app,
		&sdk,
		&tags,
		&breadcrumbs,
		&meta,
		&createdAt,
	); err != nil {
		return nil, err
	}

	payload := events.Payload{
		AppID:      appID,
		Message:    message,
		Level:      level,
		EventType:  eventType,
		Stacktrace: deref(stacktrace),
		Timestamp:  deref(eventTimestamp),
		UserID:     deref(userID),
		DeviceID:   deref(deviceID),
	}

	if err := unmarshalOptional(device, &payload.Device); err != nil {
		return nil, fmt.Errorf("decode device: %w", err)
	}
	if err := unmarshalOptional(app, &payload.App); err != nil {
		return nil, fmt.Errorf("decode app: %w", err)
	}
	if err := unmarshalOptional(sdk, &payload.SDK); err != nil {
		return nil, fmt.Errorf("decode sdk: %w", err)
	}

	if len(tags) > 0 {
		decoded := map[string]string{}
		if err := json.Unmarshal(tags, &decoded); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
		if len(decoded) > 0 {
			payload.Tags = decoded
		}
	}
	if len(breadcrumbs) > 0 {
		var decoded []events.Breadcrumb
		if err := json.Unmarshal(breadcrumbs, &decoded); err != nil {
			return nil, fmt.Errorf("decode breadcrumbs: %w", err)
		}
		if len(decoded) > 0 {
			payload.Breadcrumbs = decoded
		}
	}
	if len(meta) > 0 {
		decoded := map[string]any{}
		if err := json.Unmarshal(meta, &decoded); err != nil {
			return nil, fmt.Errorf("decode meta: %w", err)
		}
		if len(decoded) > 0 {
			payload.Meta = decoded
		}
	}

	event := &events.Event{ID: id, Payload: payload}
	if createdAt.Valid {
		event.CreatedAt = createdAt.Time.UTC()
	}
	return event, nil
}

func marshalOptional(v any) ([]byte, error) {
	if isNil(v) {
		return nil, nil
	}
	return json.Marshal(v)
}

func marshalOrDefault(v any, fallback string) ([]byte, error) {
	if isNil(v) {
		return []byte(fallback), nil
	}
	return json.Marshal(v)
}

func unmarshalOptional[T any](data []byte, target **T) error {
	if len(data) == 0 {
		return nil
	}
	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*target = &decoded
	return nil
}

func isNil(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case *events.DeviceInfo:
		return value == nil
	case *events.AppInfo:
		return value == nil
	case *events.SDKInfo:
		return value == nil
	case map[string]string:
		return value == nil
	case map[string]any:
		return value == nil
	case []events.Breadcrumb:
		return value == nil
	default:
		return false
	}
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
