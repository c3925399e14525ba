package api

import (
	"github.com/rpupo63/reelbyte-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	gigHandler     gigHandler
	projectHandler projectHandler
	clientHandler  clientHandler
	mediaHandler   *mediaHandler
	healthHandler  healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// GigResponse is a gig with its search tags flattened to strings
type GigResponse struct {
	models.Gig
	SearchTags []string `json:"search_tags"`
}

func newGigResponse(g models.Gig) GigResponse {
	return GigResponse{Gig: g, SearchTags: g.TagValues()}
}

// ProjectResponse is a project with its required skills flattened to strings
type ProjectResponse struct {
	models.Project
	RequiredSkills []string `json:"required_skills"`
}

func newProjectResponse(p models.Project) ProjectResponse {
	return ProjectResponse{Project: p, RequiredSkills: p.SkillValues()}
}

// MessageResponse carries a human-readable confirmation
type MessageResponse struct {
	Message string `json:"message" example:"Gig deleted successfully"`
}
