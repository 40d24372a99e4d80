package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/skill-assessment-api/internal/models"
)

const userColumns = `id, full_name, email, role, lead_id, hr_id, team_id`

// UserRepository resolves identity and reporting lines from the users table.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByIDs returns the users matching ids. Unknown ids are silently absent.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1) ORDER BY full_name`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find users by ids: %w", err)
	}
	return users, nil
}

// ListAssessable returns every employee or lead, optionally restricted to teamIDs.
func (r *UserRepository) ListAssessable(ctx context.Context, teamIDs []string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = ANY($1)`
	args := []interface{}{pq.Array([]string{string(models.RoleEmployee), string(models.RoleLead)})}
	if len(teamIDs) > 0 {
		query += ` AND team_id = ANY($2)`
		args = append(args, pq.Array(teamIDs))
	}
	query += ` ORDER BY full_name`

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list assessable users: %w", err)
	}
	return users, nil
}

// ListByLead returns the direct reports of leadID.
func (r *UserRepository) ListByLead(ctx context.Context, leadID string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lead_id = $1 ORDER BY full_name`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, leadID); err != nil {
		return nil, fmt.Errorf("list users by lead: %w", err)
	}
	return users, nil
}

// ListByTeam returns the members of teamID.
func (r *UserRepository) ListByTeam(ctx context.Context, teamID string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE team_id = $1 ORDER BY full_name`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, teamID); err != nil {
		return nil, fmt.Errorf("list users by team: %w", err)
	}
	return users, nil
}

// FindTeam returns a team by identifier.
func (r *UserRepository) FindTeam(ctx context.Context, id string) (*models.Team, error) {
	const query = `SELECT id, name FROM teams WHERE id = $1 LIMIT 1`
	var team models.Team
	if err := r.db.GetContext(ctx, &team, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find team: %w", err)
	}
	return &team, nil
}
