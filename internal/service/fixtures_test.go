package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/skill-assessment-api/internal/models"
	"github.com/noah-isme/skill-assessment-api/internal/repository"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

type directoryStub struct {
	users map[string]models.User
	teams map[string]models.Team
	err   error
}

func (d *directoryStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	u, ok := d.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (d *directoryStub) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	var out []models.User
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *directoryStub) ListAssessable(ctx context.Context, teamIDs []string) ([]models.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	var out []models.User
	for _, u := range d.sorted() {
		if !u.Role.Assessable() {
			continue
		}
		if teamIDs != nil && !containsString(teamIDs, u.Team()) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (d *directoryStub) ListByLead(ctx context.Context, leadID string) ([]models.User, error) {
	var out []models.User
	for _, u := range d.sorted() {
		if u.Lead() == leadID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *directoryStub) ListByTeam(ctx context.Context, teamID string) ([]models.User, error) {
	var out []models.User
	for _, u := range d.sorted() {
		if u.Team() == teamID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *directoryStub) FindTeam(ctx context.Context, id string) (*models.Team, error) {
	t, ok := d.teams[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &t, nil
}

func (d *directoryStub) sorted() []models.User {
	out := make([]models.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type skillStub map[string]models.Skill

func (s skillStub) FindByIDs(ctx context.Context, ids []string) ([]models.Skill, error) {
	var out []models.Skill
	for _, id := range ids {
		if sk, ok := s[id]; ok {
			out = append(out, sk)
		}
	}
	return out, nil
}

// memoryStore mirrors the transactional guarantees of the SQL repositories:
// conditional status updates, the single-active index and all-or-nothing writes.
type memoryStore struct {
	mu          sync.Mutex
	directory   *directoryStub
	skills      skillStub
	assessments map[string]*models.Assessment
	order       []string
	scores      map[string][]models.ScoreDetail
	audits      map[string][]models.AuditEntry
	cycles      map[string]*models.AssessmentCycle
	cycleSkills map[string][]string

	createErr     map[string]error
	transitionErr map[string]error
	// beforeTransition runs inside Transition before the status check.
	beforeTransition func(s *memoryStore, id string)
}

func newMemoryStore(directory *directoryStub, skills skillStub) *memoryStore {
	return &memoryStore{
		directory:     directory,
		skills:        skills,
		assessments:   map[string]*models.Assessment{},
		scores:        map[string][]models.ScoreDetail{},
		audits:        map[string][]models.AuditEntry{},
		cycles:        map[string]*models.AssessmentCycle{},
		cycleSkills:   map[string][]string{},
		createErr:     map[string]error{},
		transitionErr: map[string]error{},
	}
}

func (m *memoryStore) Create(ctx context.Context, params repository.CreateAssessmentParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.createErr[params.Assessment.UserID]; err != nil {
		return err
	}
	return m.createLocked(params)
}

func (m *memoryStore) createLocked(params repository.CreateAssessmentParams) error {
	a := *params.Assessment
	if m.activeForLocked(a.UserID) != nil {
		return repository.ErrActiveAssessmentExists
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
		params.Assessment.ID = a.ID
	}
	m.assessments[a.ID] = &a
	m.order = append(m.order, a.ID)
	for _, skillID := range params.SkillIDs {
		m.scores[a.ID] = append(m.scores[a.ID], models.ScoreDetail{
			Score:     models.Score{ID: uuid.NewString(), AssessmentID: a.ID, SkillID: skillID},
			SkillName: m.skills[skillID].Name,
		})
	}
	for _, audit := range params.Audits {
		audit.ID = uuid.NewString()
		audit.AssessmentID = a.ID
		m.audits[a.ID] = append(m.audits[a.ID], audit)
	}
	if params.CountTowardCycle && a.CycleID != nil {
		if c, ok := m.cycles[*a.CycleID]; ok {
			c.TotalAssessments++
		}
	}
	return nil
}

func (m *memoryStore) Transition(ctx context.Context, params repository.TransitionParams) error {
	if m.beforeTransition != nil {
		m.beforeTransition(m, params.Assessment.ID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.transitionErr[params.Assessment.ID]; err != nil {
		return err
	}
	stored, ok := m.assessments[params.Assessment.ID]
	if !ok || stored.Status != params.From {
		return repository.ErrStaleState
	}
	scores := m.scores[stored.ID]
	for skillID := range params.Scores {
		if indexOfSkill(scores, skillID) < 0 {
			return errors.New("skill not part of assessment")
		}
	}

	previous := *stored
	*stored = *params.Assessment
	if params.FollowUp != nil && m.activeForLocked(params.FollowUp.Assessment.UserID) != nil {
		*stored = previous
		return repository.ErrActiveAssessmentExists
	}

	updated := make([]models.ScoreDetail, len(scores))
	copy(updated, scores)
	for skillID, value := range params.Scores {
		v := value
		updated[indexOfSkill(updated, skillID)].LeadScore = &v
	}
	m.scores[stored.ID] = updated

	audit := params.Audit
	audit.ID = uuid.NewString()
	audit.AssessmentID = stored.ID
	m.audits[stored.ID] = append(m.audits[stored.ID], audit)

	if params.CompleteCycle && stored.CycleID != nil {
		if c, ok := m.cycles[*stored.CycleID]; ok {
			c.CompletedAssessments++
			if c.Status == models.CycleStatusActive && !m.cycleHasActiveLocked(c.ID) {
				c.Status = models.CycleStatusCompleted
			}
		}
	}
	if params.FollowUp != nil {
		return m.createLocked(*params.FollowUp)
	}
	return nil
}

func indexOfSkill(scores []models.ScoreDetail, skillID string) int {
	for i, sc := range scores {
		if sc.SkillID == skillID {
			return i
		}
	}
	return -1
}

func (m *memoryStore) activeForLocked(userID string) *models.Assessment {
	for _, id := range m.order {
		a := m.assessments[id]
		if a.UserID == userID && !a.Status.Terminal() {
			return a
		}
	}
	return nil
}

func (m *memoryStore) cycleHasActiveLocked(cycleID string) bool {
	for _, a := range m.assessments {
		if a.CycleID != nil && *a.CycleID == cycleID && !a.Status.Terminal() {
			return true
		}
	}
	return false
}

func (m *memoryStore) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assessments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (m *memoryStore) FindActiveByUser(ctx context.Context, userID string) (*models.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.activeForLocked(userID)
	if a == nil {
		return nil, sql.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (m *memoryStore) ActiveUserIDs(ctx context.Context, userIDs []string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]bool{}
	for _, id := range userIDs {
		if m.activeForLocked(id) != nil {
			out[id] = true
		}
	}
	return out, nil
}

func (m *memoryStore) List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []models.Assessment
	for _, id := range m.order {
		a := m.assessments[id]
		subject := m.directory.users[a.UserID]
		switch {
		case filter.UserID != "" && a.UserID != filter.UserID:
			continue
		case len(filter.UserIDs) > 0 && !containsString(filter.UserIDs, a.UserID):
			continue
		case filter.LeadID != "" && subject.Lead() != filter.LeadID:
			continue
		case filter.TeamID != "" && subject.Team() != filter.TeamID:
			continue
		case filter.CycleID != "" && (a.CycleID == nil || *a.CycleID != filter.CycleID):
			continue
		case filter.NextApprover != "" && a.Approver() != filter.NextApprover:
			continue
		case len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, a.Status):
			continue
		case filter.ScheduledFrom != nil && a.ScheduledDate.Before(*filter.ScheduledFrom):
			continue
		case filter.ScheduledTo != nil && !a.ScheduledDate.Before(*filter.ScheduledTo):
			continue
		}
		matched = append(matched, *a)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if filter.OrderAsc {
			return matched[i].ScheduledDate.Before(matched[j].ScheduledDate)
		}
		return matched[j].ScheduledDate.Before(matched[i].ScheduledDate)
	})
	total := len(matched)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, total, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func hasStatus(statuses []models.AssessmentStatus, status models.AssessmentStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (m *memoryStore) ListDueForActivation(ctx context.Context, before time.Time) ([]models.Assessment, error) {
	items, _, err := m.List(ctx, models.AssessmentFilter{
		Statuses:    []models.AssessmentStatus{models.AssessmentStatusInitiated},
		ScheduledTo: &before,
		OrderAsc:    true,
	})
	return items, err
}

func (m *memoryStore) ListScores(ctx context.Context, assessmentID string) ([]models.ScoreDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ScoreDetail, len(m.scores[assessmentID]))
	copy(out, m.scores[assessmentID])
	return out, nil
}

func (m *memoryStore) ListAudits(ctx context.Context, assessmentID string) ([]models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditEntry, len(m.audits[assessmentID]))
	copy(out, m.audits[assessmentID])
	return out, nil
}

func (m *memoryStore) CountByStatus(ctx context.Context, userIDs []string) (map[models.AssessmentStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[models.AssessmentStatus]int{}
	for _, a := range m.assessments {
		if containsString(userIDs, a.UserID) {
			out[a.Status]++
		}
	}
	return out, nil
}

func (m *memoryStore) LatestScoresForUser(ctx context.Context, userID string) ([]models.LatestScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	latest := map[string]models.LatestScore{}
	for _, a := range m.assessments {
		if a.UserID != userID || a.Status != models.AssessmentStatusCompleted || a.CompletedAt == nil {
			continue
		}
		for _, sc := range m.scores[a.ID] {
			if sc.LeadScore == nil {
				continue
			}
			if prev, ok := latest[sc.SkillID]; ok && prev.CompletedAt.After(*a.CompletedAt) {
				continue
			}
			latest[sc.SkillID] = models.LatestScore{
				SkillID:      sc.SkillID,
				SkillName:    sc.SkillName,
				LeadScore:    *sc.LeadScore,
				AssessmentID: a.ID,
				CompletedAt:  *a.CompletedAt,
			}
		}
	}
	out := make([]models.LatestScore, 0, len(latest))
	for _, v := range latest {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkillID < out[j].SkillID })
	return out, nil
}

func (m *memoryStore) status(id string) models.AssessmentStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assessments[id].Status
}

func (m *memoryStore) byUser(userID string) []models.Assessment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Assessment
	for _, id := range m.order {
		if a := m.assessments[id]; a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out
}

// cycleStoreStub shares state with memoryStore so child counters stay consistent.
type cycleStoreStub struct {
	*memoryStore
	createErr error
}

func (c cycleStoreStub) Create(ctx context.Context, cycle *models.AssessmentCycle, skillIDs []string) error {
	if c.createErr != nil {
		return c.createErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cycle.ID = uuid.NewString()
	cycle.CreatedAt = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	cycle.UpdatedAt = cycle.CreatedAt
	cp := *cycle
	c.cycles[cycle.ID] = &cp
	c.cycleSkills[cycle.ID] = append([]string(nil), skillIDs...)
	return nil
}

func (c cycleStoreStub) GetByID(ctx context.Context, id string) (*models.AssessmentCycle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cycle, ok := c.cycles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *cycle
	return &cp, nil
}

func (c cycleStoreStub) List(ctx context.Context, status models.CycleStatus) ([]models.AssessmentCycle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.AssessmentCycle
	for _, cycle := range c.cycles {
		if status == "" || cycle.Status == status {
			out = append(out, *cycle)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (c cycleStoreStub) ListSkills(ctx context.Context, cycleID string) ([]models.Skill, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Skill
	for _, id := range c.cycleSkills[cycleID] {
		out = append(out, c.skills[id])
	}
	return out, nil
}

func (c cycleStoreStub) UpdateStatus(ctx context.Context, id string, from, to models.CycleStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cycle, ok := c.cycles[id]
	if !ok || cycle.Status != from {
		return repository.ErrStaleState
	}
	cycle.Status = to
	return nil
}

type recorderStub struct {
	mu          sync.Mutex
	transitions map[string]int
	bulk        map[string]int
	sweeps      int
}

func newRecorderStub() *recorderStub {
	return &recorderStub{transitions: map[string]int{}, bulk: map[string]int{}}
}

func (r *recorderStub) RecordTransition(op Operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions[string(op)+":"+outcome]++
}

func (r *recorderStub) RecordBulkTarget(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bulk[outcome]++
}

func (r *recorderStub) ObserveSweep(activated int, failed bool, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweeps++
}

type invalidatorStub struct{ calls int }

func (i *invalidatorStub) InvalidateTeamViews(ctx context.Context) { i.calls++ }

var (
	testNow    = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	hrActor    = &models.JWTClaims{UserID: "hr-1", Role: models.RoleHR}
	otherHR    = &models.JWTClaims{UserID: "hr-2", Role: models.RoleHR}
	leadActor  = &models.JWTClaims{UserID: "lead-1", Role: models.RoleLead}
	otherLead  = &models.JWTClaims{UserID: "lead-2", Role: models.RoleLead}
	empActor   = &models.JWTClaims{UserID: "emp-1", Role: models.RoleEmployee}
	peerActor  = &models.JWTClaims{UserID: "emp-2", Role: models.RoleEmployee}
	testSkills = skillStub{
		"skill-1": {ID: "skill-1", Name: "Go"},
		"skill-2": {ID: "skill-2", Name: "SQL"},
		"skill-3": {ID: "skill-3", Name: "Kubernetes"},
	}
)

func newDirectory() *directoryStub {
	return &directoryStub{
		users: map[string]models.User{
			"hr-1":   {ID: "hr-1", FullName: "Hana HR", Role: models.RoleHR},
			"hr-2":   {ID: "hr-2", FullName: "Hugo HR", Role: models.RoleHR},
			"lead-1": {ID: "lead-1", FullName: "Lina Lead", Role: models.RoleLead, HRID: strPtr("hr-2"), TeamID: strPtr("team-a")},
			"lead-2": {ID: "lead-2", FullName: "Leo Lead", Role: models.RoleLead, TeamID: strPtr("team-b")},
			"emp-1":  {ID: "emp-1", FullName: "Eve Employee", Role: models.RoleEmployee, LeadID: strPtr("lead-1"), TeamID: strPtr("team-a")},
			"emp-2":  {ID: "emp-2", FullName: "Emil Employee", Role: models.RoleEmployee, LeadID: strPtr("lead-1"), TeamID: strPtr("team-a")},
			"emp-3":  {ID: "emp-3", FullName: "Esra Employee", Role: models.RoleEmployee, LeadID: strPtr("lead-2"), TeamID: strPtr("team-b")},
		},
		teams: map[string]models.Team{
			"team-a": {ID: "team-a", Name: "Platform"},
			"team-b": {ID: "team-b", Name: "Data"},
		},
	}
}

type workflowHarness struct {
	svc       *AssessmentService
	store     *memoryStore
	directory *directoryStub
	recorder  *recorderStub
	cache     *invalidatorStub
	clock     *time.Time
}

func newWorkflowHarness(t *testing.T) *workflowHarness {
	t.Helper()
	directory := newDirectory()
	store := newMemoryStore(directory, testSkills)
	recorder := newRecorderStub()
	cache := &invalidatorStub{}
	clock := testNow
	svc := NewAssessmentService(store, directory, testSkills, nil, zap.NewNop(),
		WithClock(func() time.Time { return clock }),
		WithTeamViewCache(cache),
		WithTransitionRecorder(recorder),
	)
	return &workflowHarness{svc: svc, store: store, directory: directory, recorder: recorder, cache: cache, clock: &clock}
}

func (h *workflowHarness) advance(d time.Duration) {
	*h.clock = h.clock.Add(d)
}
