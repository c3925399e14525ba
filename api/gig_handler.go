package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/reelbyte-backend/database"
	"github.com/rpupo63/reelbyte-backend/listing"
	"github.com/rpupo63/reelbyte-backend/models"
	"github.com/rpupo63/reelbyte-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type gigHandler struct {
	responder Responder
	logger    zerolog.Logger
	gigs      *services.GigService
}

func newGigHandler(gigs *services.GigService) gigHandler {
	logger := log.With().Str("handlerName", "gigHandler").Logger()

	return gigHandler{
		responder: NewResponder(logger),
		logger:    logger,
		gigs:      gigs,
	}
}

// listGigs searches the public gig catalogue
// @Summary List gigs
// @Description Filtered, sorted, skip/limit paginated gig listing. Status defaults to active.
// @Tags Gigs
// @Produce json
// @Param search query string false "Case-insensitive match on title or description"
// @Param category query string false "Category"
// @Param subcategory query string false "Subcategory"
// @Param video_type query string false "Video type"
// @Param min_price query number false "Minimum basic price"
// @Param max_price query number false "Maximum basic price"
// @Param tags query []string false "Any of these tags"
// @Param creator_profile_id query string false "Creator profile" format(uuid)
// @Param status query string false "draft, active or paused" default(active)
// @Param sort_by query string false "created_at, price, popularity or views" default(created_at)
// @Param sort_order query string false "asc or desc" default(desc)
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Rows to return, 1-100" default(20)
// @Success 200 {object} listing.SkipPage[GigResponse]
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid filter, sort or window"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching gigs"
// @Router /gigs [get]
func (h gigHandler) listGigs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := newQueryReader(r)
		params := services.GigListParams{
			Filter: database.GigFilter{
				Search:           q.String("search"),
				Category:         q.String("category"),
				Subcategory:      q.String("subcategory"),
				VideoType:        q.String("video_type"),
				CreatorProfileID: q.UUID("creator_profile_id"),
				Status:           q.String("status", "gig_status"),
				MinPrice:         q.Float("min_price"),
				MaxPrice:         q.Float("max_price"),
				Tags:             q.List("tags"),
			},
			SortBy:    q.String("sort_by"),
			SortOrder: q.String("sort_order"),
			Skip:      q.Int("skip", 0),
			Limit:     q.Int("limit", listing.DefaultLimit),
		}
		if err := q.Err(); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if params.Filter.Status == "" {
			params.Filter.Status = models.GigStatusActive
		}

		page, err := h.gigs.List(r.Context(), params)
		if err != nil {
			h.responder.WriteServiceError(w, "list", "gigs", err)
			return
		}
		h.responder.WriteJSON(w, listing.MapSkip(page, newGigResponse))
	}
}

// listCreatorGigs lists one creator's gigs in every status unless one is given
// @Summary List a creator's gigs
// @Tags Gigs
// @Produce json
// @Param creatorProfileID path string true "Creator profile ID" format(uuid)
// @Param gig_status query string false "Status filter"
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Rows to return, 1-100" default(20)
// @Success 200 {object} listing.SkipPage[GigResponse]
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid creatorProfileID or window"
// @Router /gigs/creator/{creatorProfileID} [get]
func (h gigHandler) listCreatorGigs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creatorID, err := urlID(r, "creatorProfileID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		q := newQueryReader(r)
		status := q.String("gig_status", "status")
		skip := q.Int("skip", 0)
		limit := q.Int("limit", listing.DefaultLimit)
		if err := q.Err(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		page, err := h.gigs.ListByCreator(r.Context(), creatorID, status, skip, limit)
		if err != nil {
			h.responder.WriteServiceError(w, "list", "creator gigs", err)
			return
		}
		h.responder.WriteJSON(w, listing.MapSkip(page, newGigResponse))
	}
}

// getGig retrieves a gig by ID
// @Summary Get gig
// @Tags Gigs
// @Produce json
// @Param gigID path string true "Gig ID" format(uuid)
// @Param increment_views query bool false "Count this request as a view" default(false)
// @Success 200 {object} GigResponse
// @Failure 404 {object} ErrorResponse "Not Found - Gig not found"
// @Router /gigs/{gigID} [get]
func (h gigHandler) getGig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gigID, err := urlID(r, "gigID")
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

		gig, err := h.gigs.Get(r.Context(), gigID, incrementViews, viewerKey(r))
		if err != nil {
			h.responder.WriteServiceError(w, "find", "gig", err)
			return
		}
		h.responder.WriteJSON(w, newGigResponse(*gig))
	}
}

// getGigBySlug retrieves a gig by its public slug
// @Summary Get gig by slug
// @Tags Gigs
// @Produce json
// @Param slug path string true "Gig slug"
// @Success 200 {object} GigResponse
// @Failure 404 {object} ErrorResponse "Not Found - Gig not found"
// @Router /gigs/slug/{slug} [get]
func (h gigHandler) getGigBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gig, err := h.gigs.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteServiceError(w, "find", "gig", err)
			return
		}
		h.responder.WriteJSON(w, newGigResponse(*gig))
	}
}

// getGigPackages lists the pricing tiers a gig offers
// @Summary Get gig packages
// @Tags Gigs
// @Produce json
// @Param gigID path string true "Gig ID" format(uuid)
// @Success 200 {array} models.Package
// @Failure 404 {object} ErrorResponse "Not Found - Gig not found"
// @Router /gigs/{gigID}/packages [get]
func (h gigHandler) getGigPackages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gigID, err := urlID(r, "gigID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		packages, err := h.gigs.Packages(r.Context(), gigID)
		if err != nil {
			h.responder.WriteServiceError(w, "find", "gig", err)
			return
		}
		h.responder.WriteJSON(w, packages)
	}
}

// createGig creates a draft gig for the calling creator
// @Summary Create gig
// @Tags Gigs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param gig body services.GigInput true "Gig data"
// @Success 201 {object} GigResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid gig data"
// @Failure 403 {object} ErrorResponse "Forbidden - Caller is not a creator"
// @Router /gigs [post]
func (h gigHandler) createGig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creatorID, err := ctxGetClaims(r.Context()).CreatorID()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in services.GigInput
		if err := decodeJSON(w, r, "gig", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		gig, err := h.gigs.Create(r.Context(), creatorID, in)
		if err != nil {
			h.responder.WriteServiceError(w, "create", "gig", err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, newGigResponse(*gig))
	}
}

// updateGig applies a partial update to a gig the caller owns
// @Summary Update gig
// @Tags Gigs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param gigID path string true "Gig ID" format(uuid)
// @Param gig body services.GigPatch true "Fields to change"
// @Success 200 {object} GigResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid gig data"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} ErrorResponse "Not Found - Gig not found"
// @Router /gigs/{gigID} [put]
func (h gigHandler) updateGig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creatorID, err := ctxGetClaims(r.Context()).CreatorID()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		gigID, err := urlID(r, "gigID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch services.GigPatch
		if err := decodeJSON(w, r, "gig", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		gig, err := h.gigs.Update(r.Context(), gigID, creatorID, patch)
		if err != nil {
			h.responder.WriteServiceError(w, "update", "gig", err)
			return
		}
		h.responder.WriteJSON(w, newGigResponse(*gig))
	}
}

// deleteGig soft-deletes a gig the caller owns
// @Summary Delete gig
// @Tags Gigs
// @Produce json
// @Security BearerAuth
// @Param gigID path string true "Gig ID" format(uuid)
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Gig has active orders"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the owner"
// @Failure 404 {object} ErrorResponse "Not Found - Gig not found"
// @Router /gigs/{gigID} [delete]
func (h gigHandler) deleteGig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creatorID, err := ctxGetClaims(r.Context()).CreatorID()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		gigID, err := urlID(r, "gigID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.gigs.Delete(r.Context(), gigID, creatorID); err != nil {
			h.responder.WriteServiceError(w, "delete", "gig", err)
			return
		}
		h.responder.WriteJSON(w, MessageResponse{Message: "Gig deleted successfully"})
	}
}
