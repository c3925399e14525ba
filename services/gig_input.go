package services

import (
	"encoding/json"
	"time"

	"github.com/rpupo63/reelbyte-backend/errs"
	"github.com/rpupo63/reelbyte-backend/models"
	"gorm.io/datatypes"
)

const maxVideoSamples = 5

// GigInput is the body of a create-gig request.
type GigInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`

	BasicPrice        float64 `json:"basic_price"`
	BasicDescription  *string `json:"basic_description"`
	BasicDeliveryDays int     `json:"basic_delivery_days"`
	BasicRevisions    int     `json:"basic_revisions"`

	StandardPrice        *float64 `json:"standard_price"`
	StandardDescription  *string  `json:"standard_description"`
	StandardDeliveryDays *int     `json:"standard_delivery_days"`
	StandardRevisions    *int     `json:"standard_revisions"`

	PremiumPrice        *float64 `json:"premium_price"`
	PremiumDescription  *string  `json:"premium_description"`
	PremiumDeliveryDays *int     `json:"premium_delivery_days"`
	PremiumRevisions    *int     `json:"premium_revisions"`

	Category    string  `json:"category"`
	Subcategory *string `json:"subcategory"`
	VideoType   *string `json:"video_type"`

	ThumbnailURL *string  `json:"thumbnail_url"`
	VideoSamples []string `json:"video_samples"`
	Requirements *string  `json:"requirements"`
	SearchTags   []string `json:"search_tags"`
}

func (in GigInput) Validate() error {
	if err := firstError(
		checkLength("title", in.Title, 10, 200),
		checkLength("description", in.Description, 50, 5000),
		checkPositive("basic_price", in.BasicPrice),
		checkOptionalLength("basic_description", in.BasicDescription, 10, 500),
		checkRange("basic_delivery_days", in.BasicDeliveryDays, 1, 90),
		checkRange("basic_revisions", in.BasicRevisions, 0, 10),
		checkLength("category", in.Category, 2, 50),
		checkOptionalLength("subcategory", in.Subcategory, 0, 50),
		checkOptionalLength("video_type", in.VideoType, 0, 50),
		checkOptionalLength("requirements", in.Requirements, 0, 2000),
		checkURLs("video_samples", in.VideoSamples, maxVideoSamples),
	); err != nil {
		return err
	}
	if in.ThumbnailURL != nil {
		if err := checkURL("thumbnail_url", *in.ThumbnailURL); err != nil {
			return err
		}
	}
	if err := checkTier("standard", in.StandardPrice, in.StandardDescription, in.StandardDeliveryDays, in.StandardRevisions); err != nil {
		return err
	}
	return checkTier("premium", in.PremiumPrice, in.PremiumDescription, in.PremiumDeliveryDays, in.PremiumRevisions)
}

// checkTier validates an optional pricing tier. A tier is present as a unit:
// without a price none of its other fields may be set, and with a price its
// delivery days are required.
func checkTier(name string, price *float64, description *string, days, revisions *int) error {
	if price == nil {
		if description != nil || days != nil || revisions != nil {
			return errs.NewMissingRequiredFieldError(name + "_price")
		}
		return nil
	}
	if days == nil {
		return errs.NewMissingRequiredFieldError(name + "_delivery_days")
	}
	if err := firstError(
		checkPositive(name+"_price", *price),
		checkOptionalLength(name+"_description", description, 10, 500),
		checkRange(name+"_delivery_days", *days, 1, 90),
	); err != nil {
		return err
	}
	if revisions != nil {
		return checkRange(name+"_revisions", *revisions, 0, 10)
	}
	return nil
}

func (in GigInput) toModel() (*models.Gig, error) {
	samples, err := jsonList(in.VideoSamples)
	if err != nil {
		return nil, err
	}
	return &models.Gig{
		Title:                in.Title,
		Description:          in.Description,
		BasicPrice:           in.BasicPrice,
		BasicDescription:     in.BasicDescription,
		BasicDeliveryDays:    in.BasicDeliveryDays,
		BasicRevisions:       in.BasicRevisions,
		StandardPrice:        in.StandardPrice,
		StandardDescription:  in.StandardDescription,
		StandardDeliveryDays: in.StandardDeliveryDays,
		StandardRevisions:    in.StandardRevisions,
		PremiumPrice:         in.PremiumPrice,
		PremiumDescription:   in.PremiumDescription,
		PremiumDeliveryDays:  in.PremiumDeliveryDays,
		PremiumRevisions:     in.PremiumRevisions,
		Category:             in.Category,
		Subcategory:          in.Subcategory,
		VideoType:            in.VideoType,
		ThumbnailURL:         in.ThumbnailURL,
		VideoSamples:         samples,
		Requirements:         in.Requirements,
		Status:               models.GigStatusDraft,
	}, nil
}

// GigPatch is the body of an update-gig request. Nil fields are left as
// they are.
type GigPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`

	BasicPrice        *float64 `json:"basic_price"`
	BasicDescription  *string  `json:"basic_description"`
	BasicDeliveryDays *int     `json:"basic_delivery_days"`
	BasicRevisions    *int     `json:"basic_revisions"`

	StandardPrice        *float64 `json:"standard_price"`
	StandardDescription  *string  `json:"standard_description"`
	StandardDeliveryDays *int     `json:"standard_delivery_days"`
	StandardRevisions    *int     `json:"standard_revisions"`

	PremiumPrice        *float64 `json:"premium_price"`
	PremiumDescription  *string  `json:"premium_description"`
	PremiumDeliveryDays *int     `json:"premium_delivery_days"`
	PremiumRevisions    *int     `json:"premium_revisions"`

	// RemoveStandard and RemovePremium drop the whole tier. A null tier
	// field means "unchanged", like every other field of the patch.
	RemoveStandard bool `json:"remove_standard"`
	RemovePremium  bool `json:"remove_premium"`

	Category    *string `json:"category"`
	Subcategory *string `json:"subcategory"`
	VideoType   *string `json:"video_type"`

	ThumbnailURL *string   `json:"thumbnail_url"`
	VideoSamples *[]string `json:"video_samples"`
	Requirements *string   `json:"requirements"`
	Status       *string   `json:"status"`
	SearchTags   *[]string `json:"search_tags"`
}

// Validate checks each field that is present on its own.
func (p GigPatch) Validate() error {
	var errList []error
	if p.Title != nil {
		errList = append(errList, checkLength("title", *p.Title, 10, 200))
	}
	if p.Description != nil {
		errList = append(errList, checkLength("description", *p.Description, 50, 5000))
	}
	if p.BasicPrice != nil {
		errList = append(errList, checkPositive("basic_price", *p.BasicPrice))
	}
	errList = append(errList, checkOptionalLength("basic_description", p.BasicDescription, 10, 500))
	if p.BasicDeliveryDays != nil {
		errList = append(errList, checkRange("basic_delivery_days", *p.BasicDeliveryDays, 1, 90))
	}
	if p.BasicRevisions != nil {
		errList = append(errList, checkRange("basic_revisions", *p.BasicRevisions, 0, 10))
	}
	if p.RemoveStandard && (p.StandardPrice != nil || p.StandardDescription != nil || p.StandardDeliveryDays != nil || p.StandardRevisions != nil) {
		errList = append(errList, errs.NewInvalidFieldError("remove_standard", "cannot be combined with standard tier fields"))
	}
	if p.RemovePremium && (p.PremiumPrice != nil || p.PremiumDescription != nil || p.PremiumDeliveryDays != nil || p.PremiumRevisions != nil) {
		errList = append(errList, errs.NewInvalidFieldError("remove_premium", "cannot be combined with premium tier fields"))
	}
	if p.StandardPrice != nil {
		errList = append(errList, checkPositive("standard_price", *p.StandardPrice))
	}
	if p.PremiumPrice != nil {
		errList = append(errList, checkPositive("premium_price", *p.PremiumPrice))
	}
	if p.Category != nil {
		errList = append(errList, checkLength("category", *p.Category, 2, 50))
	}
	errList = append(errList,
		checkOptionalLength("subcategory", p.Subcategory, 0, 50),
		checkOptionalLength("video_type", p.VideoType, 0, 50),
		checkOptionalLength("requirements", p.Requirements, 0, 2000),
	)
	if p.ThumbnailURL != nil {
		errList = append(errList, checkURL("thumbnail_url", *p.ThumbnailURL))
	}
	if p.VideoSamples != nil {
		errList = append(errList, checkURLs("video_samples", *p.VideoSamples, maxVideoSamples))
	}
	if p.Status != nil {
		errList = append(errList, checkEnum("status", *p.Status, models.GigStatuses))
	}
	return firstError(errList...)
}

// apply copies the present fields onto gig. The first move to active stamps
// published_at; later re-activations keep the original stamp.
func (p GigPatch) apply(gig *models.Gig, now time.Time) error {
	setString(&gig.Title, p.Title)
	setString(&gig.Description, p.Description)
	setFloat(&gig.BasicPrice, p.BasicPrice)
	setPtr(&gig.BasicDescription, p.BasicDescription)
	setInt(&gig.BasicDeliveryDays, p.BasicDeliveryDays)
	setInt(&gig.BasicRevisions, p.BasicRevisions)
	setPtr(&gig.StandardPrice, p.StandardPrice)
	setPtr(&gig.StandardDescription, p.StandardDescription)
	setPtr(&gig.StandardDeliveryDays, p.StandardDeliveryDays)
	setPtr(&gig.StandardRevisions, p.StandardRevisions)
	setPtr(&gig.PremiumPrice, p.PremiumPrice)
	setPtr(&gig.PremiumDescription, p.PremiumDescription)
	setPtr(&gig.PremiumDeliveryDays, p.PremiumDeliveryDays)
	setPtr(&gig.PremiumRevisions, p.PremiumRevisions)
	if p.RemoveStandard {
		gig.StandardPrice, gig.StandardDescription = nil, nil
		gig.StandardDeliveryDays, gig.StandardRevisions = nil, nil
	}
	if p.RemovePremium {
		gig.PremiumPrice, gig.PremiumDescription = nil, nil
		gig.PremiumDeliveryDays, gig.PremiumRevisions = nil, nil
	}
	setString(&gig.Category, p.Category)
	setPtr(&gig.Subcategory, p.Subcategory)
	setPtr(&gig.VideoType, p.VideoType)
	setPtr(&gig.ThumbnailURL, p.ThumbnailURL)
	setPtr(&gig.Requirements, p.Requirements)

	if p.VideoSamples != nil {
		samples, err := jsonList(*p.VideoSamples)
		if err != nil {
			return err
		}
		gig.VideoSamples = samples
	}

	if p.Status != nil {
		if *p.Status == models.GigStatusActive && gig.PublishedAt == nil {
			stamp := now
			gig.PublishedAt = &stamp
		}
		gig.Status = *p.Status
	}

	// Re-check the optional tiers as a whole after merging.
	if err := checkTier("standard", gig.StandardPrice, gig.StandardDescription, gig.StandardDeliveryDays, gig.StandardRevisions); err != nil {
		return err
	}
	return checkTier("premium", gig.PremiumPrice, gig.PremiumDescription, gig.PremiumDeliveryDays, gig.PremiumRevisions)
}

func jsonList(values []string) (datatypes.JSON, error) {
	if len(values) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setPtr[T any](dst **T, v *T) {
	if v != nil {
		value := *v
		*dst = &value
	}
}
