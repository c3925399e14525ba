package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/database"
	"github.com/rpupo63/reelbyte-backend/errs"
	"github.com/rpupo63/reelbyte-backend/listing"
	"github.com/rpupo63/reelbyte-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProjectListParams is a project listing request after query parsing and
// defaults.
type ProjectListParams struct {
	Filter    database.ProjectFilter
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

type ProjectService struct {
	projects *database.ProjectRepo
	profiles *database.ProfileRepo
	views    viewCounter
	logger   zerolog.Logger
	now      func() time.Time
}

func NewProjectService(db database.Database, deduper ViewDeduper) *ProjectService {
	return &ProjectService{
		projects: db.ProjectRepo(),
		profiles: db.ProfileRepo(),
		views:    newViewCounter(deduper),
		logger:   log.With().Str("serviceName", "projectService").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List validates p before the store is touched and returns one numbered page.
func (s *ProjectService) List(ctx context.Context, p ProjectListParams) (listing.NumberedPage[models.Project], error) {
	if err := p.Filter.Validate(); err != nil {
		return listing.NumberedPage[models.Project]{}, err
	}
	sort, err := database.ProjectSorts.Resolve(p.SortBy, p.SortOrder)
	if err != nil {
		return listing.NumberedPage[models.Project]{}, err
	}
	window, err := listing.PageSize(p.Page, p.PageSize)
	if err != nil {
		return listing.NumberedPage[models.Project]{}, err
	}

	projects, total, err := s.projects.List(ctx, p.Filter, sort, window)
	if err != nil {
		return listing.NumberedPage[models.Project]{}, err
	}
	return listing.NewNumberedPage(projects, total, p.Page, p.PageSize), nil
}

// ListByClient lists one client's projects newest first, in any status
// unless status is set.
func (s *ProjectService) ListByClient(ctx context.Context, clientID uuid.UUID, status string, page, pageSize int) (listing.NumberedPage[models.Project], error) {
	return s.List(ctx, ProjectListParams{
		Filter:   database.ProjectFilter{ClientProfileID: &clientID, Status: status},
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID, incrementViews bool, viewer string) (*models.Project, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if incrementViews {
		counted, err := s.views.record(ctx, models.EntityProject, id, viewer, s.projects.IncrementViews)
		if err != nil {
			return nil, err
		}
		if counted {
			project.ViewCount++
		}
	}
	return project, nil
}

// Create posts a project for clientID, open unless the input asks for a draft.
func (s *ProjectService) Create(ctx context.Context, clientID uuid.UUID, in ProjectInput) (*models.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	skills, err := NormalizeTags("required_skills", in.RequiredSkills, MaxSkills)
	if err != nil {
		return nil, err
	}

	client, err := s.profiles.FindClient(ctx, clientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewMissingProfileError("client")
	}
	if err != nil {
		return nil, err
	}

	project, err := in.toModel(s.now())
	if err != nil {
		return nil, err
	}
	project.ClientProfileID = clientID
	for _, skill := range skills {
		project.Skills = append(project.Skills, models.ProjectSkill{Value: skill})
	}

	if err := s.projects.Add(ctx, project); err != nil {
		return nil, err
	}
	project.Client = client

	s.logger.Info().Str("projectID", project.ID.String()).Str("status", project.Status).Msg("project created")
	return project, nil
}

// Update applies patch to a project owned by clientID.
func (s *ProjectService) Update(ctx context.Context, id, clientID uuid.UUID, patch ProjectPatch) (*models.Project, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var skills []string
	if patch.RequiredSkills != nil {
		normalized, err := NormalizeTags("required_skills", *patch.RequiredSkills, MaxSkills)
		if err != nil {
			return nil, err
		}
		skills = normalized
	}

	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.ClientProfileID != clientID {
		return nil, errs.NewNotOwnerError("project")
	}

	if err := patch.apply(project, s.now()); err != nil {
		return nil, err
	}
	if err := s.projects.Update(ctx, project, skills); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) find(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	return project, err
}

// ClientService serves client profile lookups.
type ClientService struct {
	profiles *database.ProfileRepo
}

func NewClientService(db database.Database) *ClientService {
	return &ClientService{profiles: db.ProfileRepo()}
}

func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*models.ClientProfile, error) {
	client, err := s.profiles.FindClient(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("client profile")
	}
	return client, err
}
