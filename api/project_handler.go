package api

import (
	"net/http"

	"github.com/rpupo63/reelbyte-backend/database"
	"github.com/rpupo63/reelbyte-backend/listing"
	"github.com/rpupo63/reelbyte-backend/models"
	"github.com/rpupo63/reelbyte-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const clientProjectsPageSize = 20

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
}

func newProjectHandler(projects *services.ProjectService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

// listProjects searches the public project board
// @Summary List projects
// @Description Filtered, sorted, page/page_size paginated project listing. Status defaults to open.
// @Tags Projects
// @Produce json
// @Param status query string false "Project status" default(open)
// @Param category query string false "Category"
// @Param video_type query string false "Video type"
// @Param experience_level query string false "entry, intermediate, expert or any"
// @Param min_budget query number false "Minimum budget"
// @Param max_budget query number false "Maximum budget"
// @Param search query string false "Case-insensitive match on title or description"
// @Param client_profile_id query string false "Client profile" format(uuid)
// @Param sort_by query string false "created_at, budget, deadline, proposals or views" default(created_at)
// @Param sort_order query string false "asc or desc" default(desc)
// @Param page query int false "1-indexed page" default(1)
// @Param page_size query int false "Rows per page, 1-100" default(12)
// @Success 200 {object} listing.NumberedPage[ProjectResponse]
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid filter, sort or page"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := newQueryReader(r)
		params := services.ProjectListParams{
			Filter: database.ProjectFilter{
				Status:          q.String("status"),
				Category:        q.String("category"),
				VideoType:       q.String("video_type"),
				ExperienceLevel: q.String("experience_level"),
				MinBudget:       q.Float("min_budget"),
				MaxBudget:       q.Float("max_budget"),
				Search:          q.String("search"),
				ClientProfileID: q.UUID("client_profile_id"),
			},
			SortBy:    q.String("sort_by"),
			SortOrder: q.String("sort_order"),
			Page:      q.Int("page", 1),
			PageSize:  q.Int("page_size", listing.DefaultPageSize),
		}
		if err := q.Err(); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if params.Filter.Status == "" {
			params.Filter.Status = models.ProjectStatusOpen
		}

		page, err := h.projects.List(r.Context(), params)
		if err != nil {
			h.responder.WriteServiceError(w, "list", "projects", err)
			return
		}
		h.responder.WriteJSON(w, listing.MapNumbered(page, newProjectResponse))
	}
}

// listClientProjects lists one client's projects in every status unless one is given
// @Summary List a client's projects
// @Tags Projects
// @Produce json
// @Param clientProfileID path string true "Client profile ID" format(uuid)
// @Param status query string false "Status filter"
// @Param page query int false "1-indexed page" default(1)
// @Param page_size query int false "Rows per page, 1-100" default(20)
// @Success 200 {object} listing.NumberedPage[ProjectResponse]
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid clientProfileID or page"
// @Router /projects/client/{clientProfileID} [get]
func (h projectHandler) listClientProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := urlID(r, "clientProfileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		q := newQueryReader(r)
		status := q.String("status")
		page := q.Int("page", 1)
		pageSize := q.Int("page_size", clientProjectsPageSize)
		if err := q.Err(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.projects.ListByClient(r.Context(), clientID, status, page, pageSize)
		if err != nil {
			h.responder.WriteServiceError(w, "list", "client projects", err)
			return
		}
		h.responder.WriteJSON(w, listing.MapNumbered(result, newProjectResponse))
	}
}

// getProject retrieves a project by ID with its client summary
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param increment_views query bool false "Count this request as a view" default(false)
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		q := newQueryReader(r)
		incrementViews := q.Bool("increment_views", false)
		if err := q.Err(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Get(r.Context(), projectID, incrementViews, viewerKey(r))
		if err != nil {
			h.responder.WriteServiceError(w, "find", "project", err)
			return
		}
		h.responder.WriteJSON(w, newProjectResponse(*project))
	}
}

// createProject posts a project for the calling client
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param project body services.ProjectInput true "Project data"
// @Success 201 {object} ProjectResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 403 {object} ErrorResponse "Forbidden - Caller is not a client"
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := ctxGetClaims(r.Context()).ClientID()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in services.ProjectInput
		if err := decodeJSON(w, r, "project", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Create(r.Context(), clientID, in)
		if err != nil {
			h.responder.WriteServiceError(w, "create", "project", err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, newProjectResponse(*project))
	}
}

// updateProject applies a partial update to a project the caller owns
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body services.ProjectPatch true "Fields to change"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := ctxGetClaims(r.Context()).ClientID()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch services.ProjectPatch
		if err := decodeJSON(w, r, "project", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Update(r.Context(), projectID, clientID, patch)
		if err != nil {
			h.responder.WriteServiceError(w, "update", "project", err)
			return
		}
		h.responder.WriteJSON(w, newProjectResponse(*project))
	}
}
