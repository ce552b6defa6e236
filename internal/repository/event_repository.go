package repository

import (
	"context"
	"time"

	"eventsync/internal/model"
	apperrors "eventsync/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	ListByOrganizer(ctx context.Context, organizerID int) ([]*model.Event, error)
	// FindCurrentByUser 找出使用者目前參加中的活動；沒有則回傳 nil
	FindCurrentByUser(ctx context.Context, userID int) (*model.Event, error)
	UpdateStatus(ctx context.Context, id int, status model.EventStatus) (*model.Event, error)
	Delete(ctx context.Context, id int) error

	// AddParticipant 容量條件式寫入：單一語句內檢查人數上限，
	// 超過上限不寫入並回傳 ErrEventFull；已是成員時視為冪等成功
	AddParticipant(ctx context.Context, eventID, userID, maxParticipants int) error
	RemoveParticipant(ctx context.Context, eventID, userID int) error
	IsParticipant(ctx context.Context, eventID, userID int) (bool, error)
	ListParticipants(ctx context.Context, eventID int) ([]*model.User, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, event_id, title, description, date, location, category,
		image_url, organizer_id, max_participants, status, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.EventID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Location,
		&event.Category,
		&event.ImageURL,
		&event.OrganizerID,
		&event.MaxParticipants,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (event_id, title, description, date, location, category,
			image_url, organizer_id, max_participants, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.EventID, event.Title, event.Description, event.Date, event.Location,
		event.Category, event.ImageURL, event.OrganizerID, event.MaxParticipants,
		event.Status,
	))
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY date ASC, created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE event_id = $1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepositoryImpl) ListByOrganizer(ctx context.Context, organizerID int) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventRepositoryImpl) FindCurrentByUser(ctx context.Context, userID int) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id IN (
			SELECT event_id FROM event_participants WHERE user_id = $1
		)
		ORDER BY date ASC
		LIMIT 1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) UpdateStatus(ctx context.Context, id int, status model.EventStatus) (*model.Event, error) {
	query := `
		UPDATE events
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + eventColumns

	event, err := scanEvent(r.pool.QueryRow(ctx, query, status, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id int) error {
	// event_participants 由 FK ON DELETE CASCADE 一併清除
	query := `
		DELETE FROM events
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

func (r *EventRepositoryImpl) AddParticipant(ctx context.Context, eventID, userID, maxParticipants int) error {
	query := `
		INSERT INTO event_participants (event_id, user_id)
		SELECT $1, $2
		WHERE (SELECT COUNT(*) FROM event_participants WHERE event_id = $1) < $3
		ON CONFLICT (event_id, user_id) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, eventID, userID, maxParticipants)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		// 0 筆寫入有兩種情況：已是成員（冪等成功）或已滿
		joined, err := r.IsParticipant(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if joined {
			return nil
		}
		return apperrors.ErrEventFull
	}

	return nil
}

func (r *EventRepositoryImpl) RemoveParticipant(ctx context.Context, eventID, userID int) error {
	query := `
		DELETE FROM event_participants
		WHERE event_id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query, eventID, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotJoined
	}

	return nil
}

func (r *EventRepositoryImpl) IsParticipant(ctx context.Context, eventID, userID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM event_participants
			WHERE event_id = $1 AND user_id = $2
		)
	`

	var joined bool
	err := r.pool.QueryRow(ctx, query, eventID, userID).Scan(&joined)
	if err != nil {
		return false, err
	}
	return joined, nil
}

func (r *EventRepositoryImpl) ListParticipants(ctx context.Context, eventID int) ([]*model.User, error) {
	query := `
		SELECT u.id, u.user_id, u.name, u.email, u.avatar_url, u.is_guest,
			u.created_at, u.updated_at
		FROM users u
		JOIN event_participants p ON p.user_id = u.id
		WHERE p.event_id = $1
		ORDER BY p.joined_at ASC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		var user model.User
		err := rows.Scan(
			&user.ID,
			&user.UserID,
			&user.Name,
			&user.Email,
			&user.AvatarURL,
			&user.IsGuest,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, nil
}

func collectEvents(rows pgx.Rows) ([]*model.Event, error) {
	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
