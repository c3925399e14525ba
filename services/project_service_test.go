package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/database"
	"github.com/rpupo63/reelbyte-backend/database/dbtest"
	"github.com/rpupo63/reelbyte-backend/errs"
	"github.com/rpupo63/reelbyte-backend/models"
	"gorm.io/gorm"
)

func newClient(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	client := models.ClientProfile{UserID: uuid.New(), CompanyName: "Sunrise Bakery"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatal(err)
	}
	return client.ID
}

func validProject() ProjectInput {
	min, max := 300.0, 800.0
	return ProjectInput{
		Title:          "Instagram reels for our bakery",
		Description:    strings.Repeat("We need four short reels showing the morning bake. ", 2),
		Category:       "Social Media",
		BudgetType:     "range",
		BudgetMin:      &min,
		BudgetMax:      &max,
		RequiredSkills: []string{"Color Grading", "color grading ", "Drone"},
	}
}

func TestCreateProject(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewProjectService(database.New(db), nil)
	clientID := newClient(t, db)
	ctx := context.Background()

	at := time.Date(2024, 6, 10, 8, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	open, err := svc.Create(ctx, clientID, validProject())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if open.Status != models.ProjectStatusOpen || open.PublishedAt == nil || !open.PublishedAt.Equal(at) {
		t.Errorf("open project status=%q published=%v", open.Status, open.PublishedAt)
	}
	if open.ExperienceLevel == nil || *open.ExperienceLevel != "any" {
		t.Errorf("experience level = %v", open.ExperienceLevel)
	}
	if skills := open.SkillValues(); len(skills) != 2 || skills[0] != "color grading" {
		t.Errorf("skills = %v", skills)
	}

	in := validProject()
	in.Status = models.ProjectStatusDraft
	draft, err := svc.Create(ctx, clientID, in)
	if err != nil {
		t.Fatal(err)
	}
	if draft.PublishedAt != nil {
		t.Errorf("draft published_at = %v", draft.PublishedAt)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	svc := NewProjectService(database.New(dbtest.Closed(t)), nil)

	tests := []struct {
		name   string
		mutate func(*ProjectInput)
		field  string
	}{
		{"budget type", func(in *ProjectInput) { in.BudgetType = "barter" }, "budget_type"},
		{"inverted budget", func(in *ProjectInput) { *in.BudgetMin = 900 }, "budget_max"},
		{"negative budget", func(in *ProjectInput) { *in.BudgetMin = -1 }, "budget_min"},
		{"experience", func(in *ProjectInput) { in.ExperienceLevel = "guru" }, "experience_level"},
		{"closed on create", func(in *ProjectInput) { in.Status = models.ProjectStatusClosed }, "status"},
		{"deadline with time", func(in *ProjectInput) { in.DeadlineDate = strPtr("2024-07-01T10:00:00Z") }, "deadline_date"},
		{"attachment url", func(in *ProjectInput) { in.Attachments = []string{"ftp://files/brief.pdf"} }, "attachments[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validProject()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), uuid.New(), in)
			apiErr, ok := errs.As(err)
			if !ok || apiErr.Field != tt.field {
				t.Errorf("err = %v, want field %q", err, tt.field)
			}
		})
	}
}

func TestUpdateProjectLifecycle(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewProjectService(database.New(db), nil)
	clientID := newClient(t, db)
	ctx := context.Background()

	in := validProject()
	in.Status = models.ProjectStatusDraft
	project, err := svc.Create(ctx, clientID, in)
	if err != nil {
		t.Fatal(err)
	}

	opened := time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return opened }
	project, err = svc.Update(ctx, project.ID, clientID, ProjectPatch{Status: strPtr(models.ProjectStatusOpen)})
	if err != nil {
		t.Fatal(err)
	}
	if project.PublishedAt == nil || !project.PublishedAt.Equal(opened) || project.ClosedAt != nil {
		t.Errorf("after open: published=%v closed=%v", project.PublishedAt, project.ClosedAt)
	}

	closed := opened.Add(72 * time.Hour)
	svc.now = func() time.Time { return closed }
	project, err = svc.Update(ctx, project.ID, clientID, ProjectPatch{Status: strPtr(models.ProjectStatusCompleted)})
	if err != nil {
		t.Fatal(err)
	}
	if project.ClosedAt == nil || !project.ClosedAt.Equal(closed) {
		t.Errorf("closed_at = %v, want %v", project.ClosedAt, closed)
	}
	if !project.PublishedAt.Equal(opened) {
		t.Errorf("published_at moved to %v", project.PublishedAt)
	}

	if _, err := svc.Update(ctx, project.ID, clientID, ProjectPatch{Status: strPtr("archived")}); !errs.IsInvalidEnumError(err) {
		t.Errorf("unknown status: %v", err)
	}
	if _, err := svc.Update(ctx, project.ID, uuid.New(), ProjectPatch{Title: strPtr("A different project title")}); !errs.IsNotOwnerError(err) {
		t.Errorf("non-owner update: %v", err)
	}
	if _, err := svc.Update(ctx, project.ID, clientID, ProjectPatch{BudgetMax: ptrFloat(100)}); err == nil {
		t.Error("budget_max below stored budget_min accepted")
	}
}

func TestProjectListPagesAndValidation(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewProjectService(database.New(db), nil)
	clientID := newClient(t, db)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if _, err := svc.Create(ctx, clientID, validProject()); err != nil {
			t.Fatal(err)
		}
	}

	page, err := svc.List(ctx, ProjectListParams{Filter: database.ProjectFilter{Status: models.ProjectStatusOpen}, Page: 2, PageSize: 3})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 7 || page.TotalPages != 3 || page.Page != 2 || page.PageSize != 3 || len(page.Items) != 3 {
		t.Errorf("page = %+v", page)
	}

	mine, err := svc.ListByClient(ctx, clientID, "", 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine.Items) != 1 || mine.TotalPages != 3 {
		t.Errorf("last page = %d items, %d pages", len(mine.Items), mine.TotalPages)
	}

	tests := []struct {
		params ProjectListParams
		field  string
	}{
		{ProjectListParams{SortBy: "nonexistent_field", Page: 1, PageSize: 12}, "sort_by"},
		{ProjectListParams{SortBy: "price", Page: 1, PageSize: 12}, "sort_by"},
		{ProjectListParams{Page: 0, PageSize: 12}, "page"},
		{ProjectListParams{Page: 1, PageSize: 0}, "page_size"},
	}
	for _, tt := range tests {
		_, err := svc.List(ctx, tt.params)
		if apiErr, ok := errs.As(err); !ok || apiErr.Field != tt.field {
			t.Errorf("%+v: err = %v, want field %q", tt.params, err, tt.field)
		}
	}
}

func TestGetProjectAndClient(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewProjectService(database.New(db), nil)
	clients := NewClientService(database.New(db))
	clientID := newClient(t, db)
	ctx := context.Background()

	project, err := svc.Create(ctx, clientID, validProject())
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.Get(ctx, project.ID, true, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.ViewCount != 1 || got.Client == nil || got.Client.CompanyName != "Sunrise Bakery" {
		t.Errorf("project = views %d client %+v", got.ViewCount, got.Client)
	}

	if _, err := svc.Get(ctx, uuid.New(), false, ""); !errs.IsNotFound(err) {
		t.Errorf("missing project: %v", err)
	}

	client, err := clients.Get(ctx, clientID)
	if err != nil || client.CompanyName != "Sunrise Bakery" {
		t.Errorf("client = %+v, %v", client, err)
	}
	if _, err := clients.Get(ctx, uuid.New()); !errs.IsNotFound(err) {
		t.Errorf("missing client: %v", err)
	}
}

func ptrFloat(v float64) *float64 { return &v }
