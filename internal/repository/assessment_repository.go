package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/skill-assessment-api/internal/models"
	"github.com/noah-isme/skill-assessment-api/pkg/database"
)

var (
	// ErrStaleState signals that a conditional update matched no row because the
	// aggregate left the expected status between read and write.
	ErrStaleState = errors.New("assessment status changed concurrently")
	// ErrActiveAssessmentExists signals a violation of the one-active-assessment-per-user index.
	ErrActiveAssessmentExists = errors.New("user already has an active assessment")
)

const uniqueViolation = "23505"

const assessmentSelect = `SELECT a.id, a.user_id, a.cycle_id, a.status, a.initiated_by, a.next_approver,
a.scheduled_date, a.next_scheduled_date, a.current_cycle, a.completed_at, a.requested_at, a.updated_at
FROM assessment_requests a`

// CreateAssessmentParams describes one assessment insert with its initial audit trail.
type CreateAssessmentParams struct {
	Assessment *models.Assessment
	SkillIDs   []string
	Audits     []models.AuditEntry
	// CountTowardCycle bumps the owning cycle's total_assessments in the same transaction.
	CountTowardCycle bool
}

// TransitionParams describes a guarded state change of one assessment.
type TransitionParams struct {
	// Assessment carries the target state; its status/next approver/cycle/completion are persisted.
	Assessment *models.Assessment
	From       models.AssessmentStatus
	Scores     map[string]int
	Audit      models.AuditEntry
	// CompleteCycle increments the owning cycle's completed counter and closes the
	// cycle once no active child remains.
	CompleteCycle bool
	FollowUp      *CreateAssessmentParams
}

// AssessmentRepository persists assessment aggregates: requests, scores and audit history.
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository constructs an assessment repository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create inserts a new assessment with an empty score row per skill and its audit entries.
func (r *AssessmentRepository) Create(ctx context.Context, params CreateAssessmentParams) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return r.createTx(ctx, tx, params)
	})
}

func (r *AssessmentRepository) createTx(ctx context.Context, tx *sqlx.Tx, params CreateAssessmentParams) error {
	a := params.Assessment
	if a == nil {
		return fmt.Errorf("create assessment: missing aggregate")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.RequestedAt.IsZero() {
		a.RequestedAt = now
	}
	a.UpdatedAt = now
	if a.CurrentCycle == 0 {
		a.CurrentCycle = 1
	}

	const insertAssessment = `INSERT INTO assessment_requests (id, user_id, cycle_id, status, initiated_by, next_approver, scheduled_date, next_scheduled_date, current_cycle, completed_at, requested_at, updated_at)
        VALUES (:id, :user_id, :cycle_id, :status, :initiated_by, :next_approver, :scheduled_date, :next_scheduled_date, :current_cycle, :completed_at, :requested_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertAssessment, a); err != nil {
		if isUniqueViolation(err) {
			return ErrActiveAssessmentExists
		}
		return fmt.Errorf("insert assessment: %w", err)
	}

	const insertScore = `INSERT INTO assessment_scores (id, assessment_id, skill_id, lead_score, updated_at) VALUES ($1, $2, $3, NULL, $4)`
	for _, skillID := range params.SkillIDs {
		if _, err := tx.ExecContext(ctx, insertScore, uuid.NewString(), a.ID, skillID, now); err != nil {
			return fmt.Errorf("insert assessment score: %w", err)
		}
	}

	for i := range params.Audits {
		entry := params.Audits[i]
		entry.AssessmentID = a.ID
		if err := insertAudit(ctx, tx, &entry); err != nil {
			return err
		}
	}

	if params.CountTowardCycle && a.CycleID != nil {
		const bump = `UPDATE assessment_cycles SET total_assessments = total_assessments + 1, updated_at = $2 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, bump, *a.CycleID, now); err != nil {
			return fmt.Errorf("increment cycle total: %w", err)
		}
	}
	return nil
}

// Transition applies a conditional status change. ErrStaleState is returned when
// the stored status no longer equals params.From; nothing is written in that case.
func (r *AssessmentRepository) Transition(ctx context.Context, params TransitionParams) error {
	a := params.Assessment
	if a == nil {
		return fmt.Errorf("transition assessment: missing aggregate")
	}
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		const update = `UPDATE assessment_requests SET status = $1, next_approver = $2, current_cycle = $3, completed_at = $4, next_scheduled_date = $5, updated_at = $6
        WHERE id = $7 AND status = $8`
		res, err := tx.ExecContext(ctx, update, a.Status, a.NextApprover, a.CurrentCycle, a.CompletedAt, a.NextScheduledDate, now, a.ID, params.From)
		if err != nil {
			return fmt.Errorf("update assessment status: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("assessment status rows affected: %w", err)
		}
		if affected == 0 {
			return ErrStaleState
		}
		a.UpdatedAt = now

		const updateScore = `UPDATE assessment_scores SET lead_score = $1, updated_at = $2 WHERE assessment_id = $3 AND skill_id = $4`
		for skillID, score := range params.Scores {
			res, err := tx.ExecContext(ctx, updateScore, score, now, a.ID, skillID)
			if err != nil {
				return fmt.Errorf("update assessment score: %w", err)
			}
			if n, err := res.RowsAffected(); err != nil {
				return fmt.Errorf("assessment score rows affected: %w", err)
			} else if n == 0 {
				return fmt.Errorf("update assessment score: skill %s not part of assessment %s", skillID, a.ID)
			}
		}

		audit := params.Audit
		audit.AssessmentID = a.ID
		if err := insertAudit(ctx, tx, &audit); err != nil {
			return err
		}

		if params.CompleteCycle && a.CycleID != nil {
			if err := completeCycleChild(ctx, tx, *a.CycleID, now); err != nil {
				return err
			}
		}

		if params.FollowUp != nil {
			if err := r.createTx(ctx, tx, *params.FollowUp); err != nil {
				return err
			}
		}
		return nil
	})
}

func completeCycleChild(ctx context.Context, tx *sqlx.Tx, cycleID string, now time.Time) error {
	const bump = `UPDATE assessment_cycles SET completed_assessments = completed_assessments + 1, updated_at = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, bump, cycleID, now); err != nil {
		return fmt.Errorf("increment cycle completed: %w", err)
	}
	const closeCycle = `UPDATE assessment_cycles SET status = $2, updated_at = $3
        WHERE id = $1 AND status = $4
        AND NOT EXISTS (SELECT 1 FROM assessment_requests WHERE cycle_id = $1 AND status NOT IN ('COMPLETED', 'CANCELLED'))`
	if _, err := tx.ExecContext(ctx, closeCycle, cycleID, models.CycleStatusCompleted, now, models.CycleStatusActive); err != nil {
		return fmt.Errorf("auto-complete cycle: %w", err)
	}
	return nil
}

func insertAudit(ctx context.Context, tx *sqlx.Tx, entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.AuditedAt.IsZero() {
		entry.AuditedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assessment_audits (id, assessment_id, audit_type, editor_id, cycle_number, comments, audited_at)
        VALUES (:id, :assessment_id, :audit_type, :editor_id, :cycle_number, :comments, :audited_at)`
	if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert assessment audit: %w", err)
	}
	return nil
}

// GetByID returns the assessment row or sql.ErrNoRows.
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	query := assessmentSelect + ` WHERE a.id = $1`
	var a models.Assessment
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	return &a, nil
}

// FindActiveByUser returns the user's non-terminal assessment or sql.ErrNoRows.
func (r *AssessmentRepository) FindActiveByUser(ctx context.Context, userID string) (*models.Assessment, error) {
	query := assessmentSelect + ` WHERE a.user_id = $1 AND a.status NOT IN ('COMPLETED', 'CANCELLED') ORDER BY a.requested_at DESC LIMIT 1`
	var a models.Assessment
	if err := r.db.GetContext(ctx, &a, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find active assessment: %w", err)
	}
	return &a, nil
}

// ActiveUserIDs returns the subset of userIDs holding a non-terminal assessment.
func (r *AssessmentRepository) ActiveUserIDs(ctx context.Context, userIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(userIDs) == 0 {
		return result, nil
	}
	const query = `SELECT DISTINCT user_id FROM assessment_requests WHERE user_id = ANY($1) AND status NOT IN ('COMPLETED', 'CANCELLED')`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("list active assessment users: %w", err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// List returns assessments matching filter with the total count.
func (r *AssessmentRepository) List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, int, error) {
	where, args := buildAssessmentWhere(filter)
	from := ` JOIN users u ON u.id = a.user_id`
	if len(where) > 0 {
		from += ` WHERE ` + strings.Join(where, " AND ")
	}

	order := "DESC"
	if filter.OrderAsc {
		order = "ASC"
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	listQuery := fmt.Sprintf("%s%s ORDER BY a.scheduled_date %s, a.id LIMIT %d OFFSET %d", assessmentSelect, from, order, limit, offset)
	var items []models.Assessment
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list assessments: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM assessment_requests a" + from
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assessments: %w", err)
	}
	return items, total, nil
}

func buildAssessmentWhere(filter models.AssessmentFilter) ([]string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.UserID != "" {
		add("a.user_id = $%d", filter.UserID)
	}
	if len(filter.UserIDs) > 0 {
		add("a.user_id = ANY($%d)", pq.Array(filter.UserIDs))
	}
	if filter.LeadID != "" {
		add("u.lead_id = $%d", filter.LeadID)
	}
	if filter.TeamID != "" {
		add("u.team_id = $%d", filter.TeamID)
	}
	if filter.CycleID != "" {
		add("a.cycle_id = $%d", filter.CycleID)
	}
	if filter.NextApprover != "" {
		add("a.next_approver = $%d", filter.NextApprover)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		add("a.status = ANY($%d)", pq.Array(statuses))
	}
	if filter.ScheduledFrom != nil {
		add("a.scheduled_date >= $%d", *filter.ScheduledFrom)
	}
	if filter.ScheduledTo != nil {
		add("a.scheduled_date < $%d", *filter.ScheduledTo)
	}
	return where, args
}

// ListDueForActivation returns INITIATED assessments scheduled before the cutoff,
// overdue ones included.
func (r *AssessmentRepository) ListDueForActivation(ctx context.Context, before time.Time) ([]models.Assessment, error) {
	query := assessmentSelect + ` WHERE a.status = $1 AND a.scheduled_date < $2 ORDER BY a.scheduled_date, a.id`
	var items []models.Assessment
	if err := r.db.SelectContext(ctx, &items, query, models.AssessmentStatusInitiated, before); err != nil {
		return nil, fmt.Errorf("list assessments due for activation: %w", err)
	}
	return items, nil
}

// ListScores returns the per-skill scores of an assessment with skill names.
func (r *AssessmentRepository) ListScores(ctx context.Context, assessmentID string) ([]models.ScoreDetail, error) {
	const query = `SELECT s.id, s.assessment_id, s.skill_id, s.lead_score, s.updated_at, k.name AS skill_name
        FROM assessment_scores s JOIN skills k ON k.id = s.skill_id
        WHERE s.assessment_id = $1 ORDER BY k.name`
	var scores []models.ScoreDetail
	if err := r.db.SelectContext(ctx, &scores, query, assessmentID); err != nil {
		return nil, fmt.Errorf("list assessment scores: %w", err)
	}
	return scores, nil
}

// ListAudits returns the audit history of an assessment, oldest first.
func (r *AssessmentRepository) ListAudits(ctx context.Context, assessmentID string) ([]models.AuditEntry, error) {
	const query = `SELECT id, assessment_id, audit_type, editor_id, cycle_number, comments, audited_at
        FROM assessment_audits WHERE assessment_id = $1 ORDER BY audited_at, seq`
	var entries []models.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, assessmentID); err != nil {
		return nil, fmt.Errorf("list assessment audits: %w", err)
	}
	return entries, nil
}

// LatestScoresForUser returns, per skill, the lead score from the user's most recent completed assessment.
func (r *AssessmentRepository) LatestScoresForUser(ctx context.Context, userID string) ([]models.LatestScore, error) {
	const query = `SELECT DISTINCT ON (s.skill_id) s.skill_id, k.name AS skill_name, s.lead_score, a.id AS assessment_id, a.completed_at
        FROM assessment_scores s
        JOIN assessment_requests a ON a.id = s.assessment_id
        JOIN skills k ON k.id = s.skill_id
        WHERE a.user_id = $1 AND a.status = 'COMPLETED' AND s.lead_score IS NOT NULL
        ORDER BY s.skill_id, a.completed_at DESC`
	var scores []models.LatestScore
	if err := r.db.SelectContext(ctx, &scores, query, userID); err != nil {
		return nil, fmt.Errorf("list latest scores: %w", err)
	}
	return scores, nil
}

type statusCount struct {
	Status models.AssessmentStatus `db:"status"`
	Total  int                     `db:"total"`
}

// CountByStatus aggregates the assessments of userIDs by status.
func (r *AssessmentRepository) CountByStatus(ctx context.Context, userIDs []string) (map[models.AssessmentStatus]int, error) {
	result := make(map[models.AssessmentStatus]int)
	if len(userIDs) == 0 {
		return result, nil
	}
	const query = `SELECT status, COUNT(*) AS total FROM assessment_requests WHERE user_id = ANY($1) GROUP BY status`
	var rows []statusCount
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("count assessments by status: %w", err)
	}
	for _, row := range rows {
		result[row.Status] = row.Total
	}
	return result, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
