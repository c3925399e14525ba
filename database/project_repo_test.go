package database

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/database/dbtest"
	"github.com/rpupo63/reelbyte-backend/errs"
	"github.com/rpupo63/reelbyte-backend/listing"
	"github.com/rpupo63/reelbyte-backend/models"
	"gorm.io/gorm"
)

func seedClient(t *testing.T, db *gorm.DB) models.ClientProfile {
	t.Helper()
	client := models.ClientProfile{UserID: uuid.New(), CompanyName: "Taco Loco"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return client
}

func seedProject(t *testing.T, repo *ProjectRepo, clientID uuid.UUID, mutate func(*models.Project)) models.Project {
	t.Helper()
	project := models.Project{
		ClientProfileID: clientID,
		Title:           "Menu launch reels",
		Description:     "Three vertical videos announcing our new menu.",
		Category:        "Social Media",
		Status:          models.ProjectStatusOpen,
	}
	if mutate != nil {
		mutate(&project)
	}
	if err := repo.Add(context.Background(), &project); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

func TestProjectSecondPageByCreatedAt(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewProjectRepo(db)
	client := seedClient(t, db)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	created := make([]models.Project, 0, 12)
	for i := 0; i < 12; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		created = append(created, seedProject(t, repo, client.ID, func(p *models.Project) {
			p.CreatedAt = at
			p.UpdatedAt = at
		}))
	}
	seedProject(t, repo, client.ID, func(p *models.Project) { p.Status = models.ProjectStatusDraft })

	window, err := listing.PageSize(2, 5)
	if err != nil {
		t.Fatal(err)
	}
	projects, total, err := repo.List(context.Background(), ProjectFilter{Status: models.ProjectStatusOpen}, mustSort(t, ProjectSorts, "", ""), window)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if total != 12 {
		t.Errorf("total = %d, want 12", total)
	}
	if pages := listing.TotalPages(total, 5); pages != 3 {
		t.Errorf("total pages = %d, want 3", pages)
	}
	if len(projects) != 5 {
		t.Fatalf("got %d projects, want 5", len(projects))
	}
	// Newest first: ranks 6-10 are created[6] down to created[2].
	for i, p := range projects {
		want := created[11-5-i]
		if p.ID != want.ID {
			t.Errorf("projects[%d] = %s, want %s", i, p.ID, want.ID)
		}
		if p.Client == nil || p.Client.CompanyName != "Taco Loco" {
			t.Errorf("projects[%d] client summary not loaded", i)
		}
	}
}

func TestProjectHugePageIsEmpty(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewProjectRepo(db)
	client := seedClient(t, db)
	for i := 0; i < 3; i++ {
		seedProject(t, repo, client.ID, nil)
	}

	window, err := listing.PageSize(math.MaxInt/50, 100)
	if err != nil {
		t.Fatal(err)
	}
	projects, total, err := repo.List(context.Background(), ProjectFilter{Status: models.ProjectStatusOpen}, mustSort(t, ProjectSorts, "", ""), window)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(projects) != 0 {
		t.Errorf("total=%d items=%d, want 3 and an empty page", total, len(projects))
	}
}

func TestProjectBudgetEitherBound(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewProjectRepo(db)
	client := seedClient(t, db)

	wide := seedProject(t, repo, client.ID, func(p *models.Project) {
		p.BudgetMin, p.BudgetMax = ptr(10.0), ptr(1000.0)
	})
	minOnly := seedProject(t, repo, client.ID, func(p *models.Project) {
		p.BudgetMin = ptr(50.0)
	})
	mid := seedProject(t, repo, client.ID, func(p *models.Project) {
		p.BudgetMin, p.BudgetMax = ptr(100.0), ptr(500.0)
	})

	tests := []struct {
		name     string
		min, max *float64
		want     []uuid.UUID
	}{
		{"min only matches via upper bound", ptr(200.0), nil, []uuid.UUID{wide.ID, mid.ID}},
		{"max only matches via lower bound", nil, ptr(60.0), []uuid.UUID{wide.ID, minOnly.ID}},
		// A strict containment test would exclude the wide project here.
		{"both bounds", ptr(200.0), ptr(300.0), []uuid.UUID{wide.ID, mid.ID}},
		{"nothing above", ptr(2000.0), nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := ProjectFilter{MinBudget: tt.min, MaxBudget: tt.max}
			projects, total, err := repo.List(context.Background(), filter, mustSort(t, ProjectSorts, "", ""), listing.Window{Limit: 100})
			if err != nil {
				t.Fatal(err)
			}
			if int(total) != len(tt.want) {
				t.Fatalf("total = %d, want %d", total, len(tt.want))
			}
			got := map[uuid.UUID]bool{}
			for _, p := range projects {
				got[p.ID] = true
			}
			for _, id := range tt.want {
				if !got[id] {
					t.Errorf("missing project %s", id)
				}
			}
		})
	}
}

func TestProjectFilters(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewProjectRepo(db)
	client := seedClient(t, db)
	other := seedClient(t, db)

	seedProject(t, repo, client.ID, func(p *models.Project) {
		p.ExperienceLevel = ptr("expert")
		p.VideoType = ptr("ugc")
	})
	seedProject(t, repo, client.ID, func(p *models.Project) {
		p.ExperienceLevel = ptr("entry")
		p.Title = "Drone footage for a Food Truck"
	})
	seedProject(t, repo, other.ID, nil)

	tests := []struct {
		name   string
		filter ProjectFilter
		want   int64
	}{
		{"empty", ProjectFilter{}, 3},
		{"experience", ProjectFilter{ExperienceLevel: "expert"}, 1},
		{"video type", ProjectFilter{VideoType: "ugc"}, 1},
		{"client", ProjectFilter{ClientProfileID: &client.ID}, 2},
		{"search", ProjectFilter{Search: "FOOD truck"}, 1},
		{"status", ProjectFilter{Status: models.ProjectStatusClosed}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := repo.List(context.Background(), tt.filter, mustSort(t, ProjectSorts, "", ""), listing.Window{Limit: 20})
			if err != nil {
				t.Fatal(err)
			}
			if total != tt.want {
				t.Errorf("total = %d, want %d", total, tt.want)
			}
		})
	}
}

func TestProjectUpdateReplacesSkills(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewProjectRepo(db)
	client := seedClient(t, db)
	project := seedProject(t, repo, client.ID, func(p *models.Project) {
		p.Skills = []models.ProjectSkill{{Value: "color grading"}}
	})

	ctx := context.Background()
	loaded, err := repo.FindByID(ctx, project.ID)
	if err != nil {
		t.Fatal(err)
	}
	loaded.Status = models.ProjectStatusInProgress
	if err := repo.Update(ctx, loaded, []string{"drone", "premiere"}); err != nil {
		t.Fatal(err)
	}
	if got := loaded.SkillValues(); len(got) != 2 {
		t.Errorf("skills = %v", got)
	}

	// Nil skills leaves the stored set alone.
	loaded.Title = "Menu launch reels, part two"
	if err := repo.Update(ctx, loaded, nil); err != nil {
		t.Fatal(err)
	}
	if got := loaded.SkillValues(); len(got) != 2 {
		t.Errorf("skills after nil update = %v", got)
	}
}

func TestProjectFilterValidate(t *testing.T) {
	tests := []struct {
		filter ProjectFilter
		field  string
	}{
		{ProjectFilter{Status: "in_progress", ExperienceLevel: "any"}, ""},
		{ProjectFilter{MinBudget: ptr(-0.01)}, "min_budget"},
		{ProjectFilter{MaxBudget: ptr(-1.0)}, "max_budget"},
		{ProjectFilter{Status: "active"}, "status"},
		{ProjectFilter{ExperienceLevel: "guru"}, "experience_level"},
	}
	for _, tt := range tests {
		err := tt.filter.Validate()
		if tt.field == "" {
			if err != nil {
				t.Errorf("%+v: %v", tt.filter, err)
			}
			continue
		}
		apiErr, ok := errs.As(err)
		if !ok || apiErr.Field != tt.field || apiErr.StatusCode != 400 {
			t.Errorf("%+v: err = %v, want 400 on %q", tt.filter, err, tt.field)
		}
	}
}
