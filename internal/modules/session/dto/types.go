package dto

import (
	"time"

	"flowdash/internal/modules/session/domain"
)

type StartInput struct {
	Goal  string
	TagID string
}

type CurrentSessionOutput struct {
	ID        string
	Goal      string
	StartTime time.Time
	TagID     string
}

type CompleteInput struct {
	FlowScore     int
	Interruptions int
	Shipped       bool
	Bottleneck    domain.Bottleneck
	Notes         string
}

// UpdateInput is a partial patch; nil fields are left untouched. A non-nil
// TagID pointing at an empty string clears the tag reference.
type UpdateInput struct {
	ID            string
	Goal          *string
	TagID         *string
	FlowScore     *int
	Interruptions *int
	Shipped       *bool
	Bottleneck    *domain.Bottleneck
	Notes         *string
}

type SessionOutput struct {
	ID              string            `json:"id"`
	Goal            string            `json:"goal"`
	TagID           string            `json:"tag_id,omitempty"`
	StartTime       time.Time         `json:"start_time"`
	EndTime         time.Time         `json:"end_time"`
	LeadTimeMinutes int               `json:"lead_time_minutes"`
	FlowScore       int               `json:"flow_score"`
	Interruptions   int               `json:"interruptions"`
	Shipped         bool              `json:"shipped"`
	Bottleneck      domain.Bottleneck `json:"bottleneck"`
	Notes           string            `json:"notes,omitempty"`
}

func FromDomain(s domain.Session) SessionOutput {
	return SessionOutput{
		ID:              s.ID,
		Goal:            s.Goal,
		TagID:           s.TagID,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		LeadTimeMinutes: s.LeadTimeMinutes,
		FlowScore:       s.FlowScore,
		Interruptions:   s.Interruptions,
		Shipped:         s.Shipped,
		Bottleneck:      s.Bottleneck,
		Notes:           s.Notes,
	}
}

func FromDomainList(sessions []domain.Session) []SessionOutput {
	out := make([]SessionOutput, len(sessions))
	for i, s := range sessions {
		out[i] = FromDomain(s)
	}
	return out
}
