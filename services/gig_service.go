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

// GigListParams is a gig listing request after query parsing and defaults.
type GigListParams struct {
	Filter    database.GigFilter
	SortBy    string
	SortOrder string
	Skip      int
	Limit     int
}

// GigService holds the gig business rules. Domain failures come back as
// *errs.ApiErr; store failures are returned as they are.
type GigService struct {
	gigs     *database.GigRepo
	profiles *database.ProfileRepo
	views    viewCounter
	logger   zerolog.Logger
	now      func() time.Time
}

func NewGigService(db database.Database, deduper ViewDeduper) *GigService {
	return &GigService{
		gigs:     db.GigRepo(),
		profiles: db.ProfileRepo(),
		views:    newViewCounter(deduper),
		logger:   log.With().Str("serviceName", "gigService").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List validates p completely before the store is touched, then returns one
// skip/limit page.
func (s *GigService) List(ctx context.Context, p GigListParams) (listing.SkipPage[models.Gig], error) {
	if err := p.Filter.Validate(); err != nil {
		return listing.SkipPage[models.Gig]{}, err
	}
	sort, err := database.GigSorts.Resolve(p.SortBy, p.SortOrder)
	if err != nil {
		return listing.SkipPage[models.Gig]{}, err
	}
	window, err := listing.SkipLimit(p.Skip, p.Limit)
	if err != nil {
		return listing.SkipPage[models.Gig]{}, err
	}

	gigs, total, err := s.gigs.List(ctx, p.Filter, sort, window)
	if err != nil {
		return listing.SkipPage[models.Gig]{}, err
	}
	return listing.NewSkipPage(gigs, total, window), nil
}

// ListByCreator lists one creator's gigs newest first. An empty status
// means every listable status.
func (s *GigService) ListByCreator(ctx context.Context, creatorID uuid.UUID, status string, skip, limit int) (listing.SkipPage[models.Gig], error) {
	return s.List(ctx, GigListParams{
		Filter: database.GigFilter{CreatorProfileID: &creatorID, Status: status},
		Skip:   skip,
		Limit:  limit,
	})
}

// Get returns a live gig. With incrementViews the view counter is bumped in
// its own statement, at most once per viewer per dedupe window.
func (s *GigService) Get(ctx context.Context, id uuid.UUID, incrementViews bool, viewer string) (*models.Gig, error) {
	gig, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if incrementViews {
		counted, err := s.views.record(ctx, models.EntityGig, id, viewer, s.gigs.IncrementViews)
		if err != nil {
			return nil, err
		}
		if counted {
			gig.ViewCount++
		}
	}
	return gig, nil
}

func (s *GigService) GetBySlug(ctx context.Context, slug string) (*models.Gig, error) {
	gig, err := s.gigs.FindBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && gig.Status == models.GigStatusDeleted) {
		return nil, errs.NewNotFound("gig")
	}
	return gig, err
}

// Packages returns the basic tier and every optional tier that has a price.
func (s *GigService) Packages(ctx context.Context, id uuid.UUID) ([]models.Package, error) {
	gig, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return gig.Packages(), nil
}

// Create stores a new draft gig for creatorID with a unique slug.
func (s *GigService) Create(ctx context.Context, creatorID uuid.UUID, in GigInput) (*models.Gig, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	tags, err := NormalizeTags("search_tags", in.SearchTags, MaxSearchTags)
	if err != nil {
		return nil, err
	}

	creator, err := s.profiles.FindCreator(ctx, creatorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewMissingProfileError("creator")
	}
	if err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(ctx, Slugify(in.Title, creatorID), s.gigs.SlugExists)
	if err != nil {
		return nil, err
	}

	gig, err := in.toModel()
	if err != nil {
		return nil, err
	}
	gig.CreatorProfileID = creatorID
	gig.Slug = slug
	for _, tag := range tags {
		gig.Tags = append(gig.Tags, models.GigTag{Value: tag})
	}

	if err := s.gigs.Add(ctx, gig); err != nil {
		return nil, err
	}
	gig.Creator = creator

	s.logger.Info().Str("gigID", gig.ID.String()).Str("slug", slug).Msg("gig created")
	return gig, nil
}

// Update applies patch to a gig owned by creatorID. The slug never changes.
func (s *GigService) Update(ctx context.Context, id, creatorID uuid.UUID, patch GigPatch) (*models.Gig, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	var tags []string
	if patch.SearchTags != nil {
		normalized, err := NormalizeTags("search_tags", *patch.SearchTags, MaxSearchTags)
		if err != nil {
			return nil, err
		}
		tags = normalized
	}

	gig, err := s.owned(ctx, id, creatorID)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && *patch.Status == models.GigStatusDeleted {
		if err := checkDeletable(gig); err != nil {
			return nil, err
		}
	}
	if err := patch.apply(gig, s.now()); err != nil {
		return nil, err
	}

	if gig.Status == models.GigStatusDeleted {
		err = s.gigs.SoftDelete(ctx, gig)
	} else {
		err = s.gigs.Update(ctx, gig, tags)
	}
	if err != nil {
		return nil, err
	}
	return gig, nil
}

// Delete soft-deletes a gig owned by creatorID.
func (s *GigService) Delete(ctx context.Context, id, creatorID uuid.UUID) error {
	gig, err := s.owned(ctx, id, creatorID)
	if err != nil {
		return err
	}
	if err := checkDeletable(gig); err != nil {
		return err
	}
	gig.Status = models.GigStatusDeleted
	if err := s.gigs.SoftDelete(ctx, gig); err != nil {
		return err
	}
	s.logger.Info().Str("gigID", id.String()).Msg("gig deleted")
	return nil
}

func checkDeletable(gig *models.Gig) error {
	if gig.Status == models.GigStatusActive && gig.OrderCount > 0 {
		return errs.NewInvalidStateError("cannot delete a gig with active orders, pause it instead")
	}
	return nil
}

// find loads a gig, treating soft-deleted gigs as missing.
func (s *GigService) find(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	gig, err := s.gigs.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("gig")
	}
	if err != nil {
		return nil, err
	}
	if gig.Status == models.GigStatusDeleted {
		return nil, errs.NewNotFound("gig")
	}
	return gig, nil
}

func (s *GigService) owned(ctx context.Context, id, creatorID uuid.UUID) (*models.Gig, error) {
	gig, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if gig.CreatorProfileID != creatorID {
		return nil, errs.NewNotOwnerError("gig")
	}
	return gig, nil
}
