package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/skill-assessment-api/internal/models"
	"github.com/noah-isme/skill-assessment-api/pkg/database"
)

const cycleColumns = `id, title, created_by, scheduled_date, status, comments, target_teams, excluded_users, total_assessments, completed_assessments, created_at, updated_at`

// CycleRepository persists bulk assessment cycles and their skill sets.
type CycleRepository struct {
	db *sqlx.DB
}

// NewCycleRepository constructs a cycle repository.
func NewCycleRepository(db *sqlx.DB) *CycleRepository {
	return &CycleRepository{db: db}
}

// Create inserts the cycle and its skill links in one transaction.
func (r *CycleRepository) Create(ctx context.Context, cycle *models.AssessmentCycle, skillIDs []string) error {
	if cycle.ID == "" {
		cycle.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if cycle.CreatedAt.IsZero() {
		cycle.CreatedAt = now
	}
	cycle.UpdatedAt = now
	if cycle.Status == "" {
		cycle.Status = models.CycleStatusActive
	}
	// both array columns are NOT NULL; a nil pq.StringArray binds as NULL
	if cycle.TargetTeams == nil {
		cycle.TargetTeams = pq.StringArray{}
	}
	if cycle.ExcludedUsers == nil {
		cycle.ExcludedUsers = pq.StringArray{}
	}

	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const insertCycle = `INSERT INTO assessment_cycles (` + cycleColumns + `)
        VALUES (:id, :title, :created_by, :scheduled_date, :status, :comments, :target_teams, :excluded_users, :total_assessments, :completed_assessments, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, insertCycle, cycle); err != nil {
			return fmt.Errorf("insert assessment cycle: %w", err)
		}
		const insertSkill = `INSERT INTO assessment_cycle_skills (cycle_id, skill_id) VALUES ($1, $2)`
		for _, skillID := range skillIDs {
			if _, err := tx.ExecContext(ctx, insertSkill, cycle.ID, skillID); err != nil {
				return fmt.Errorf("insert cycle skill: %w", err)
			}
		}
		return nil
	})
}

// GetByID returns a cycle or sql.ErrNoRows.
func (r *CycleRepository) GetByID(ctx context.Context, id string) (*models.AssessmentCycle, error) {
	const query = `SELECT ` + cycleColumns + ` FROM assessment_cycles WHERE id = $1`
	var cycle models.AssessmentCycle
	if err := r.db.GetContext(ctx, &cycle, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get assessment cycle: %w", err)
	}
	return &cycle, nil
}

// List returns cycles newest first, optionally filtered by status.
func (r *CycleRepository) List(ctx context.Context, status models.CycleStatus) ([]models.AssessmentCycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM assessment_cycles`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	var cycles []models.AssessmentCycle
	if err := r.db.SelectContext(ctx, &cycles, query, args...); err != nil {
		return nil, fmt.Errorf("list assessment cycles: %w", err)
	}
	return cycles, nil
}

// ListSkills returns the skills attached to a cycle.
func (r *CycleRepository) ListSkills(ctx context.Context, cycleID string) ([]models.Skill, error) {
	const query = `SELECT k.id, k.name, k.description FROM assessment_cycle_skills cs
        JOIN skills k ON k.id = cs.skill_id WHERE cs.cycle_id = $1 ORDER BY k.name`
	var skills []models.Skill
	if err := r.db.SelectContext(ctx, &skills, query, cycleID); err != nil {
		return nil, fmt.Errorf("list cycle skills: %w", err)
	}
	return skills, nil
}

// UpdateStatus moves a cycle from one status to another, returning ErrStaleState
// when the stored status no longer matches from.
func (r *CycleRepository) UpdateStatus(ctx context.Context, id string, from, to models.CycleStatus) error {
	const query = `UPDATE assessment_cycles SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return fmt.Errorf("update assessment cycle status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("assessment cycle rows affected: %w", err)
	}
	if affected == 0 {
		return ErrStaleState
	}
	return nil
}
