package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"communityreg/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (event_id, participant_id, source, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, reg.EventID, reg.ParticipantID, string(reg.Source), reg.CreatedAt).
		Scan(&reg.ID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *registrationRepository) CountByEventID(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *registrationRepository) ListDetailed(ctx context.Context, eventID *int64) ([]*domain.RegistrationDetail, error) {
	query := `
		SELECT r.id, r.event_id, r.participant_id, r.source, r.created_at,
		       p.nric, p.full_name, p.user_id, p.created_at,
		       e.title, e.description, e.max_capacity, e.start_time, e.created_at
		FROM registrations r
		JOIN participants p ON p.id = r.participant_id
		JOIN events e ON e.id = r.event_id
	`
	args := []interface{}{}
	if eventID != nil {
		query += ` WHERE r.event_id = $1`
		args = append(args, *eventID)
	}
	query += ` ORDER BY r.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]*domain.RegistrationDetail, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		p := &domain.Participant{}
		e := &domain.Event{}
		var source string
		var owner sql.NullInt64
		var descNull sql.NullString
		err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.ParticipantID, &source, &reg.CreatedAt,
			&p.NRIC, &p.FullName, &owner, &p.CreatedAt,
			&e.Title, &descNull, &e.MaxCapacity, &e.StartTime, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reg.Source = domain.Source(source)
		p.ID = reg.ParticipantID
		if owner.Valid {
			p.OwnerID = &owner.Int64
		}
		e.ID = reg.EventID
		if descNull.Valid {
			e.Description = &descNull.String
		}
		details = append(details, &domain.RegistrationDetail{
			Registration: reg,
			Participant:  p,
			Event:        e,
		})
	}
	return details, rows.Err()
}

func (r *registrationRepository) ListEventIDsByOwnerID(ctx context.Context, ownerID int64) ([]int64, error) {
	query := `
		SELECT DISTINCT r.event_id
		FROM registrations r
		JOIN participants p ON p.id = r.participant_id
		WHERE p.user_id = $1
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
