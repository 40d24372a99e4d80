package dto

import "time"

// BulkInitiateRequest starts an assessment cycle across teams.
type BulkInitiateRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	SkillIDs []string `json:"skillIds" validate:"required,min=1,dive,required"`
	// IncludeTeams lists team ids; the single token "all" selects every assessable user.
	IncludeTeams   []string   `json:"includeTeams" validate:"required,min=1,dive,required"`
	ExcludeUserIDs []string   `json:"excludeUserIds"`
	ScheduledDate  *time.Time `json:"scheduledDate"`
	Comments       string     `json:"comments" validate:"max=2000"`
}

// ListCyclesQuery filters cycle listings.
type ListCyclesQuery struct {
	Status string `form:"status"`
}
