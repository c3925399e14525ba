package services

import (
	"time"

	"github.com/rpupo63/reelbyte-backend/errs"
	"github.com/rpupo63/reelbyte-backend/models"
	"gorm.io/datatypes"
)

const (
	maxAttachments = 10
	dateLayout     = "2006-01-02"
)

// ProjectInput is the body of a create-project request.
type ProjectInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`

	Category                string  `json:"category"`
	VideoType               *string `json:"video_type"`
	VideoDurationPreference *string `json:"video_duration_preference"`
	PlatformPreference      *string `json:"platform_preference"`

	BudgetType string   `json:"budget_type"`
	BudgetMin  *float64 `json:"budget_min"`
	BudgetMax  *float64 `json:"budget_max"`

	// DeadlineDate is a calendar date, YYYY-MM-DD.
	DeadlineDate          *string `json:"deadline_date"`
	EstimatedDurationDays *int    `json:"estimated_duration_days"`

	RequiredSkills  []string `json:"required_skills"`
	ExperienceLevel string   `json:"experience_level"`
	Attachments     []string `json:"attachments"`

	// Status is draft or open; empty means open.
	Status string `json:"status"`
}

func (in ProjectInput) Validate() error {
	experience := in.ExperienceLevel
	if experience == "" {
		experience = "any"
	}
	status := in.Status
	if status == "" {
		status = models.ProjectStatusOpen
	}

	if err := firstError(
		checkLength("title", in.Title, 10, 200),
		checkLength("description", in.Description, 50, 5000),
		checkLength("category", in.Category, 2, 50),
		checkOptionalLength("video_type", in.VideoType, 0, 50),
		checkOptionalLength("video_duration_preference", in.VideoDurationPreference, 0, 50),
		checkOptionalLength("platform_preference", in.PlatformPreference, 0, 50),
		checkEnum("budget_type", in.BudgetType, models.BudgetTypes),
		checkEnum("experience_level", experience, models.ExperienceLevels),
		checkEnum("status", status, []string{models.ProjectStatusDraft, models.ProjectStatusOpen}),
		checkURLs("attachments", in.Attachments, maxAttachments),
	); err != nil {
		return err
	}
	if in.EstimatedDurationDays != nil && *in.EstimatedDurationDays < 1 {
		return errs.NewInvalidFieldError("estimated_duration_days", "must be at least 1")
	}
	if _, err := parseDeadline(in.DeadlineDate); err != nil {
		return err
	}
	return checkBudget(in.BudgetMin, in.BudgetMax)
}

func checkBudget(min, max *float64) error {
	if err := firstError(
		checkNonNegative("budget_min", min),
		checkNonNegative("budget_max", max),
	); err != nil {
		return err
	}
	if min != nil && max != nil && *min > *max {
		return errs.NewInvalidFieldError("budget_max", "must be greater than or equal to budget_min")
	}
	return nil
}

// parseDeadline reads a YYYY-MM-DD date. Nil and empty input mean no deadline.
func parseDeadline(raw *string) (*datatypes.Date, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, errs.NewInvalidFieldError("deadline_date", "must be a date in YYYY-MM-DD form")
	}
	d := datatypes.Date(t)
	return &d, nil
}

func (in ProjectInput) toModel(now time.Time) (*models.Project, error) {
	deadline, err := parseDeadline(in.DeadlineDate)
	if err != nil {
		return nil, err
	}
	attachments, err := jsonList(in.Attachments)
	if err != nil {
		return nil, err
	}

	experience := in.ExperienceLevel
	if experience == "" {
		experience = "any"
	}
	status := in.Status
	if status == "" {
		status = models.ProjectStatusOpen
	}
	budgetType := in.BudgetType

	project := &models.Project{
		Title:                   in.Title,
		Description:             in.Description,
		Category:                in.Category,
		VideoType:               in.VideoType,
		VideoDurationPreference: in.VideoDurationPreference,
		PlatformPreference:      in.PlatformPreference,
		BudgetType:              &budgetType,
		BudgetMin:               in.BudgetMin,
		BudgetMax:               in.BudgetMax,
		DeadlineDate:            deadline,
		EstimatedDurationDays:   in.EstimatedDurationDays,
		ExperienceLevel:         &experience,
		Attachments:             attachments,
		Status:                  status,
	}
	if status == models.ProjectStatusOpen {
		stamp := now
		project.PublishedAt = &stamp
	}
	return project, nil
}

// ProjectPatch is the body of an update-project request.
type ProjectPatch struct {
	Title                   *string   `json:"title"`
	Description             *string   `json:"description"`
	Category                *string   `json:"category"`
	VideoType               *string   `json:"video_type"`
	VideoDurationPreference *string   `json:"video_duration_preference"`
	PlatformPreference      *string   `json:"platform_preference"`
	BudgetType              *string   `json:"budget_type"`
	BudgetMin               *float64  `json:"budget_min"`
	BudgetMax               *float64  `json:"budget_max"`
	DeadlineDate            *string   `json:"deadline_date"`
	EstimatedDurationDays   *int      `json:"estimated_duration_days"`
	RequiredSkills          *[]string `json:"required_skills"`
	ExperienceLevel         *string   `json:"experience_level"`
	Attachments             *[]string `json:"attachments"`
	Status                  *string   `json:"status"`
}

func (p ProjectPatch) Validate() error {
	var errList []error
	if p.Title != nil {
		errList = append(errList, checkLength("title", *p.Title, 10, 200))
	}
	if p.Description != nil {
		errList = append(errList, checkLength("description", *p.Description, 50, 5000))
	}
	if p.Category != nil {
		errList = append(errList, checkLength("category", *p.Category, 2, 50))
	}
	errList = append(errList,
		checkOptionalLength("video_type", p.VideoType, 0, 50),
		checkOptionalLength("video_duration_preference", p.VideoDurationPreference, 0, 50),
		checkOptionalLength("platform_preference", p.PlatformPreference, 0, 50),
		checkNonNegative("budget_min", p.BudgetMin),
		checkNonNegative("budget_max", p.BudgetMax),
	)
	if p.BudgetType != nil {
		errList = append(errList, checkEnum("budget_type", *p.BudgetType, models.BudgetTypes))
	}
	if p.ExperienceLevel != nil {
		errList = append(errList, checkEnum("experience_level", *p.ExperienceLevel, models.ExperienceLevels))
	}
	if p.Status != nil {
		errList = append(errList, checkEnum("status", *p.Status, models.ProjectStatuses))
	}
	if p.Attachments != nil {
		errList = append(errList, checkURLs("attachments", *p.Attachments, maxAttachments))
	}
	if p.EstimatedDurationDays != nil && *p.EstimatedDurationDays < 1 {
		errList = append(errList, errs.NewInvalidFieldError("estimated_duration_days", "must be at least 1"))
	}
	if _, err := parseDeadline(p.DeadlineDate); err != nil {
		errList = append(errList, err)
	}
	return firstError(errList...)
}

// apply copies the present fields onto project. The first move to open
// stamps published_at and entering a terminal status stamps closed_at.
func (p ProjectPatch) apply(project *models.Project, now time.Time) error {
	setString(&project.Title, p.Title)
	setString(&project.Description, p.Description)
	setString(&project.Category, p.Category)
	setPtr(&project.VideoType, p.VideoType)
	setPtr(&project.VideoDurationPreference, p.VideoDurationPreference)
	setPtr(&project.PlatformPreference, p.PlatformPreference)
	setPtr(&project.BudgetType, p.BudgetType)
	setPtr(&project.BudgetMin, p.BudgetMin)
	setPtr(&project.BudgetMax, p.BudgetMax)
	setPtr(&project.EstimatedDurationDays, p.EstimatedDurationDays)
	setPtr(&project.ExperienceLevel, p.ExperienceLevel)

	if p.DeadlineDate != nil {
		deadline, err := parseDeadline(p.DeadlineDate)
		if err != nil {
			return err
		}
		project.DeadlineDate = deadline
	}
	if p.Attachments != nil {
		attachments, err := jsonList(*p.Attachments)
		if err != nil {
			return err
		}
		project.Attachments = attachments
	}

	if p.Status != nil && *p.Status != project.Status {
		next := *p.Status
		if next == models.ProjectStatusOpen && project.PublishedAt == nil {
			stamp := now
			project.PublishedAt = &stamp
		}
		if models.IsTerminalProjectStatus(next) && !models.IsTerminalProjectStatus(project.Status) {
			stamp := now
			project.ClosedAt = &stamp
		}
		project.Status = next
	}

	return checkBudget(project.BudgetMin, project.BudgetMax)
}
