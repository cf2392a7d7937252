package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"communityreg/internal/domain"
)

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{
		DB: db,
	}
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	query := `
		INSERT INTO participants (nric, full_name, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, p.NRIC, p.FullName, p.OwnerID, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return domain.ErrDuplicateNRIC
		}
		return err
	}
	return nil
}

func (r *participantRepository) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	query := `
		SELECT id, nric, full_name, user_id, created_at
		FROM participants
		WHERE id = $1
	`
	return scanParticipant(r.DB.QueryRowContext(ctx, query, id))
}

func (r *participantRepository) GetByNRIC(ctx context.Context, nric string) (*domain.Participant, error) {
	query := `
		SELECT id, nric, full_name, user_id, created_at
		FROM participants
		WHERE nric = $1
	`
	return scanParticipant(r.DB.QueryRowContext(ctx, query, nric))
}

func (r *participantRepository) SetOwner(ctx context.Context, id int64, ownerID *int64) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE participants SET user_id = $2 WHERE id = $1`, id, ownerID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *participantRepository) FirstByOwnerID(ctx context.Context, ownerID int64) (*domain.Participant, error) {
	query := `
		SELECT id, nric, full_name, user_id, created_at
		FROM participants
		WHERE user_id = $1
		ORDER BY id
		LIMIT 1
	`
	return scanParticipant(r.DB.QueryRowContext(ctx, query, ownerID))
}

func (r *participantRepository) ListByOwnerID(ctx context.Context, ownerID int64) ([]*domain.Participant, error) {
	query := `
		SELECT id, nric, full_name, user_id, created_at
		FROM participants
		WHERE user_id = $1
		ORDER BY full_name
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		p := &domain.Participant{}
		var owner sql.NullInt64
		if err := rows.Scan(&p.ID, &p.NRIC, &p.FullName, &owner, &p.CreatedAt); err != nil {
			return nil, err
		}
		if owner.Valid {
			p.OwnerID = &owner.Int64
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func scanParticipant(row *sql.Row) (*domain.Participant, error) {
	p := &domain.Participant{}
	var owner sql.NullInt64
	err := row.Scan(&p.ID, &p.NRIC, &p.FullName, &owner, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if owner.Valid {
		p.OwnerID = &owner.Int64
	}
	return p, nil
}
