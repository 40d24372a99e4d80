package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/skill-assessment-api/internal/models"
)

// SkillRepository reads the skill catalogue.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository constructs a skill repository.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// FindByIDs returns the skills matching ids.
func (r *SkillRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Skill, error) {
	if len(ids) == 0 {
		return []models.Skill{}, nil
	}
	const query = `SELECT id, name, description FROM skills WHERE id = ANY($1) ORDER BY name`
	var skills []models.Skill
	if err := r.db.SelectContext(ctx, &skills, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find skills by ids: %w", err)
	}
	return skills, nil
}

// List returns the whole catalogue.
func (r *SkillRepository) List(ctx context.Context) ([]models.Skill, error) {
	const query = `SELECT id, name, description FROM skills ORDER BY name`
	var skills []models.Skill
	if err := r.db.SelectContext(ctx, &skills, query); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}
