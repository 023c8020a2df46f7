package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = errors.New("account not found")

// ErrEmailTaken is returned when an email is already registered.
var ErrEmailTaken = errors.New("an account with this email already exists")

// Repository persists accounts.
type Repository interface {
	Create(ctx context.Context, acc Account) error
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByID(ctx context.Context, id string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	UpdateProfile(ctx context.Context, id string, profile Profile) error
	SetApproved(ctx context.Context, id string, approved bool) error
	SetEmailConfirmed(ctx context.Context, id string, confirmed bool) error
	UpdateTokenVersion(ctx context.Context, id string, version int) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, email, password_hash, full_name, grade, school, country, state,
	preferred_subjects, learning_style, approved, email_confirmed, token_version,
	created_at, updated_at, last_login`

// Create inserts a new account.
func (r *PostgresRepository) Create(ctx context.Context, acc Account) error {
	id, err := uuid.Parse(acc.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		id, acc.Email, acc.PasswordHash, acc.Profile.FullName, acc.Profile.Grade,
		acc.Profile.School, acc.Profile.Country, acc.Profile.State,
		acc.Profile.PreferredSubjects, acc.Profile.LearningStyle, acc.Approved,
		acc.EmailConfirmed, acc.TokenVersion, acc.CreatedAt.UTC(), acc.UpdatedAt.UTC(),
		acc.LastLogin.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

// FindByEmail fetches an account by email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

// FindByID fetches an account by id.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Account, error) {
	accID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, accID)
	return scanAccount(row)
}

// List returns all accounts ordered by creation time, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// UpdateProfile replaces the education metadata for an account.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, profile Profile) error {
	accID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET full_name = $1, grade = $2, school = $3,
		country = $4, state = $5, preferred_subjects = $6, learning_style = $7, updated_at = now()
		WHERE id = $8`,
		profile.FullName, profile.Grade, profile.School, profile.Country, profile.State,
		profile.PreferredSubjects, profile.LearningStyle, accID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetApproved flips the approval flag.
func (r *PostgresRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	return r.setBool(ctx, id, "approved", approved)
}

// SetEmailConfirmed flips the email-confirmation flag.
func (r *PostgresRepository) SetEmailConfirmed(ctx context.Context, id string, confirmed bool) error {
	return r.setBool(ctx, id, "email_confirmed", confirmed)
}

// UpdateTokenVersion stores a new token version, invalidating older sessions.
func (r *PostgresRepository) UpdateTokenVersion(ctx context.Context, id string, version int) error {
	accID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET token_version = $1, updated_at = now() WHERE id = $2`, version, accID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLogin records the time of the latest successful credential check.
func (r *PostgresRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	accID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = r.db.Exec(ctx, `UPDATE accounts SET last_login = $1 WHERE id = $2`, at.UTC(), accID)
	return err
}

func (r *PostgresRepository) setBool(ctx context.Context, id, column string, value bool) error {
	accID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET `+column+` = $1, updated_at = now() WHERE id = $2`, value, accID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		id        uuid.UUID
		acc       Account
		createdAt time.Time
		updatedAt time.Time
		lastLogin time.Time
	)
	err := row.Scan(&id, &acc.Email, &acc.PasswordHash, &acc.Profile.FullName,
		&acc.Profile.Grade, &acc.Profile.School, &acc.Profile.Country, &acc.Profile.State,
		&acc.Profile.PreferredSubjects, &acc.Profile.LearningStyle, &acc.Approved,
		&acc.EmailConfirmed, &acc.TokenVersion, &createdAt, &updatedAt, &lastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	acc.ID = id.String()
	acc.CreatedAt = createdAt.UTC()
	acc.UpdatedAt = updatedAt.UTC()
	acc.LastLogin = lastLogin.UTC()
	return acc, nil
}
