package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/skill-assessment-api/internal/dto"
	"github.com/noah-isme/skill-assessment-api/internal/models"
	appErrors "github.com/noah-isme/skill-assessment-api/pkg/errors"
)

type teamDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ListByLead(ctx context.Context, leadID string) ([]models.User, error)
	ListByTeam(ctx context.Context, teamID string) ([]models.User, error)
	FindTeam(ctx context.Context, id string) (*models.Team, error)
}

type teamAssessmentReader interface {
	List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, int, error)
	CountByStatus(ctx context.Context, userIDs []string) (map[models.AssessmentStatus]int, error)
	LatestScoresForUser(ctx context.Context, userID string) ([]models.LatestScore, error)
}

type teamCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// TeamService serves the lead and HR team views.
type TeamService struct {
	directory   teamDirectory
	assessments teamAssessmentReader
	cache       teamCache
	ttl         time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewTeamService constructs a TeamService. cache may be nil.
func NewTeamService(directory teamDirectory, assessments teamAssessmentReader, cache teamCache, ttl time.Duration, logger *zap.Logger) *TeamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamService{
		directory:   directory,
		assessments: assessments,
		cache:       cache,
		ttl:         ttl,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// TeamAssessments lists every assessment of the lead's direct reports.
func (s *TeamService) TeamAssessments(ctx context.Context, actor *models.JWTClaims, query dto.ListAssessmentsQuery) ([]models.AssessmentView, int, error) {
	if err := requireRole(actor, models.RoleLead); err != nil {
		return nil, 0, err
	}
	filter := models.AssessmentFilter{LeadID: actor.UserID, CycleID: query.CycleID, Limit: query.Limit, Offset: query.Offset}
	if query.Status != "" {
		status := models.AssessmentStatus(query.Status)
		if !status.Valid() {
			return nil, 0, appErrors.Clone(appErrors.ErrValidation, "unknown status "+query.Status)
		}
		filter.Statuses = []models.AssessmentStatus{status}
	}
	members, err := s.directory.ListByLead(ctx, actor.UserID)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load team members")
	}
	items, total, err := s.assessments.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list team assessments")
	}
	return s.decorate(items, members), total, nil
}

// PendingTeamAssessments lists the accessible team assessments waiting on the lead's scores.
func (s *TeamService) PendingTeamAssessments(ctx context.Context, actor *models.JWTClaims) ([]models.AssessmentView, error) {
	if err := requireRole(actor, models.RoleLead); err != nil {
		return nil, err
	}
	members, err := s.directory.ListByLead(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load team members")
	}
	items, _, err := s.assessments.List(ctx, models.AssessmentFilter{
		LeadID:       actor.UserID,
		NextApprover: actor.UserID,
		Statuses:     []models.AssessmentStatus{models.AssessmentStatusLeadWriting, models.AssessmentStatusEmployeeRejected},
		OrderAsc:     true,
		Limit:        maxActionQueue,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list pending team assessments")
	}
	return s.decorate(filterAccessible(items, s.now()), members), nil
}

// TeamMemberAssessments lists the assessment history of one direct report.
func (s *TeamService) TeamMemberAssessments(ctx context.Context, actor *models.JWTClaims, memberID string) ([]models.AssessmentView, error) {
	if err := requireRole(actor, models.RoleLead); err != nil {
		return nil, err
	}
	member, err := s.findUser(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.Lead() != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "user is not a member of your team")
	}
	items, _, err := s.assessments.List(ctx, models.AssessmentFilter{UserID: member.ID, Limit: maxActionQueue})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list member assessments")
	}
	return s.decorate(items, []models.User{*member}), nil
}

// TeamStatistics aggregates the lead's team by status. The boolean reports a cache hit.
func (s *TeamService) TeamStatistics(ctx context.Context, actor *models.JWTClaims) (*dto.TeamStatistics, bool, error) {
	if err := requireRole(actor, models.RoleLead); err != nil {
		return nil, false, err
	}
	key := teamStatsKey(actor.UserID)
	var cached dto.TeamStatistics
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	members, err := s.directory.ListByLead(ctx, actor.UserID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load team members")
	}
	counts, err := s.assessments.CountByStatus(ctx, userIDs(members))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal, "failed to count team assessments")
	}

	stats := &dto.TeamStatistics{
		LeadID:      actor.UserID,
		TeamSize:    len(members),
		ByStatus:    make(map[string]int, len(counts)),
		GeneratedAt: s.now(),
	}
	for status, n := range counts {
		stats.ByStatus[string(status)] = n
		stats.Total += n
		switch {
		case status == models.AssessmentStatusCompleted:
			stats.Completed += n
		case status.Terminal():
		default:
			stats.Active += n
		}
		if status == models.AssessmentStatusLeadWriting || status == models.AssessmentStatusEmployeeRejected {
			stats.AwaitingLead += n
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total)
	}
	s.store(ctx, key, stats)
	return stats, false, nil
}

// TeamSummary reports the active assessment of every member of a team to HR.
func (s *TeamService) TeamSummary(ctx context.Context, actor *models.JWTClaims, teamID string) (*dto.TeamSummary, bool, error) {
	if err := requireRole(actor, models.RoleHR); err != nil {
		return nil, false, err
	}
	key := teamSummaryKey(teamID)
	var cached dto.TeamSummary
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	team, err := s.directory.FindTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "team not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load team")
	}
	members, err := s.directory.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load team members")
	}
	active, _, err := s.assessments.List(ctx, models.AssessmentFilter{
		TeamID:   teamID,
		Statuses: models.ActiveAssessmentStatuses(),
		Limit:    maxActionQueue,
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list team assessments")
	}
	counts, err := s.assessments.CountByStatus(ctx, userIDs(members))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal, "failed to count team assessments")
	}

	byUser := make(map[string]models.Assessment, len(active))
	for _, a := range active {
		byUser[a.UserID] = a
	}
	summary := &dto.TeamSummary{
		TeamID:      team.ID,
		TeamName:    team.Name,
		Members:     make([]dto.TeamMemberStatus, 0, len(members)),
		ByStatus:    make(map[string]int, len(counts)),
		GeneratedAt: s.now(),
	}
	for _, m := range members {
		line := dto.TeamMemberStatus{UserID: m.ID, FullName: m.FullName, Role: string(m.Role)}
		if a, ok := byUser[m.ID]; ok {
			scheduled := a.ScheduledDate
			line.ActiveStatus = string(a.Status)
			line.ActiveID = a.ID
			line.NextApprover = a.Approver()
			line.ScheduledDate = &scheduled
		}
		summary.Members = append(summary.Members, line)
	}
	for status, n := range counts {
		summary.ByStatus[string(status)] = n
	}
	s.store(ctx, key, summary)
	return summary, false, nil
}

// LatestApprovedScores returns the most recent completed score per skill of a user.
func (s *TeamService) LatestApprovedScores(ctx context.Context, actor *models.JWTClaims, userID string) ([]models.LatestScore, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthenticated
	}
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleHR && actor.UserID != user.ID && user.Lead() != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "scores not visible to caller")
	}
	scores, err := s.assessments.LatestScoresForUser(ctx, user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load latest scores")
	}
	if scores == nil {
		scores = []models.LatestScore{}
	}
	return scores, nil
}

func (s *TeamService) findUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.directory.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load user")
	}
	return user, nil
}

func (s *TeamService) decorate(items []models.Assessment, members []models.User) []models.AssessmentView {
	byID := make(map[string]*models.User, len(members))
	for i := range members {
		byID[members[i].ID] = &members[i]
	}
	now := s.now()
	views := make([]models.AssessmentView, 0, len(items))
	for _, item := range items {
		views = append(views, models.AssessmentView{
			Assessment: item,
			Subject:    byID[item.UserID].Summary(),
			Accessible: item.IsAccessible(now),
		})
	}
	return views
}

func (s *TeamService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("cache team view", zap.String("key", key), zap.Error(err))
	}
}

func requireRole(actor *models.JWTClaims, role models.UserRole) error {
	if actor == nil {
		return appErrors.ErrUnauthenticated
	}
	if actor.Role != role {
		return appErrors.Clone(appErrors.ErrForbidden, "requires role "+string(role))
	}
	return nil
}

func userIDs(users []models.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
