package models

import (
	"time"

	"github.com/google/uuid"
)

// GigDocument is the search-index shape of a gig, carried in outbox payloads.
type GigDocument struct {
	ID               uuid.UUID  `json:"id"`
	CreatorProfileID uuid.UUID  `json:"creator_profile_id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Subcategory      *string    `json:"subcategory,omitempty"`
	VideoType        *string    `json:"video_type,omitempty"`
	BasicPrice       float64    `json:"basic_price"`
	Tags             []string   `json:"tags"`
	Status           string     `json:"status"`
	ViewCount        int        `json:"view_count"`
	OrderCount       int        `json:"order_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
}

func (g *Gig) Document() GigDocument {
	return GigDocument{
		ID:               g.ID,
		CreatorProfileID: g.CreatorProfileID,
		Title:            g.Title,
		Slug:             g.Slug,
		Description:      g.Description,
		Category:         g.Category,
		Subcategory:      g.Subcategory,
		VideoType:        g.VideoType,
		BasicPrice:       g.BasicPrice,
		Tags:             g.TagValues(),
		Status:           g.Status,
		ViewCount:        g.ViewCount,
		OrderCount:       g.OrderCount,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
		PublishedAt:      g.PublishedAt,
	}
}

// ProjectDocument is the search-index shape of a project.
type ProjectDocument struct {
	ID              uuid.UUID  `json:"id"`
	ClientProfileID uuid.UUID  `json:"client_profile_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	VideoType       *string    `json:"video_type,omitempty"`
	ExperienceLevel *string    `json:"experience_level,omitempty"`
	BudgetType      *string    `json:"budget_type,omitempty"`
	BudgetMin       *float64   `json:"budget_min,omitempty"`
	BudgetMax       *float64   `json:"budget_max,omitempty"`
	Skills          []string   `json:"skills"`
	Status          string     `json:"status"`
	ProposalCount   int        `json:"proposal_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

func (p *Project) Document() ProjectDocument {
	return ProjectDocument{
		ID:              p.ID,
		ClientProfileID: p.ClientProfileID,
		Title:           p.Title,
		Description:     p.Description,
		Category:        p.Category,
		VideoType:       p.VideoType,
		ExperienceLevel: p.ExperienceLevel,
		BudgetType:      p.BudgetType,
		BudgetMin:       p.BudgetMin,
		BudgetMax:       p.BudgetMax,
		Skills:          p.SkillValues(),
		Status:          p.Status,
		ProposalCount:   p.ProposalCount,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		PublishedAt:     p.PublishedAt,
	}
}
