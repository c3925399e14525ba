package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GigStatusDraft   = "draft"
	GigStatusActive  = "active"
	GigStatusPaused  = "paused"
	GigStatusDeleted = "deleted"
)

// GigStatuses lists every lifecycle value a gig can hold.
var GigStatuses = []string{GigStatusDraft, GigStatusActive, GigStatusPaused, GigStatusDeleted}

// Gig is a creator's pre-packaged service offering
type Gig struct {
	ID               uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	CreatorProfileID uuid.UUID `json:"creator_profile_id" db:"creator_profile_id" gorm:"type:uuid;not null;index"`
	Title            string    `json:"title" db:"title" gorm:"type:varchar(200);not null"`
	Slug             string    `json:"slug" db:"slug" gorm:"type:varchar(250);not null;uniqueIndex"`
	Description      string    `json:"description" db:"description" gorm:"type:text;not null"`

	BasicPrice        float64 `json:"basic_price" db:"basic_price" gorm:"type:numeric(10,2);not null"`
	BasicDescription  *string `json:"basic_description" db:"basic_description" gorm:"type:text"`
	BasicDeliveryDays int     `json:"basic_delivery_days" db:"basic_delivery_days" gorm:"not null"`
	BasicRevisions    int     `json:"basic_revisions" db:"basic_revisions" gorm:"not null;default:0"`

	StandardPrice        *float64 `json:"standard_price" db:"standard_price" gorm:"type:numeric(10,2)"`
	StandardDescription  *string  `json:"standard_description" db:"standard_description" gorm:"type:text"`
	StandardDeliveryDays *int     `json:"standard_delivery_days" db:"standard_delivery_days"`
	StandardRevisions    *int     `json:"standard_revisions" db:"standard_revisions"`

	PremiumPrice        *float64 `json:"premium_price" db:"premium_price" gorm:"type:numeric(10,2)"`
	PremiumDescription  *string  `json:"premium_description" db:"premium_description" gorm:"type:text"`
	PremiumDeliveryDays *int     `json:"premium_delivery_days" db:"premium_delivery_days"`
	PremiumRevisions    *int     `json:"premium_revisions" db:"premium_revisions"`

	Category    string  `json:"category" db:"category" gorm:"type:varchar(50);not null;index"`
	Subcategory *string `json:"subcategory" db:"subcategory" gorm:"type:varchar(50)"`
	VideoType   *string `json:"video_type" db:"video_type" gorm:"type:varchar(50)"`

	ThumbnailURL *string        `json:"thumbnail_url" db:"thumbnail_url" gorm:"type:text"`
	VideoSamples datatypes.JSON `json:"video_samples" db:"video_samples"`
	Requirements *string        `json:"requirements" db:"requirements" gorm:"type:text"`

	ViewCount     int `json:"view_count" db:"view_count" gorm:"not null;default:0"`
	OrderCount    int `json:"order_count" db:"order_count" gorm:"not null;default:0"`
	FavoriteCount int `json:"favorite_count" db:"favorite_count" gorm:"not null;default:0"`

	Status string `json:"status" db:"status" gorm:"type:varchar(20);not null;default:'draft';index"`

	CreatedAt   time.Time  `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at" gorm:"not null"`
	PublishedAt *time.Time `json:"published_at" db:"published_at"`

	Creator *CreatorProfile `json:"creator,omitempty" gorm:"foreignKey:CreatorProfileID;references:ID"`
	Tags    []GigTag        `json:"-" gorm:"foreignKey:GigID;references:ID;constraint:OnDelete:CASCADE"`
}

func (g *Gig) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// TagValues returns the gig's search tags in stored order.
func (g *Gig) TagValues() []string {
	values := make([]string, 0, len(g.Tags))
	for _, t := range g.Tags {
		values = append(values, t.Value)
	}
	return values
}

// Package is one pricing tier of a gig
type Package struct {
	PackageType  string  `json:"package_type"`
	Price        float64 `json:"price"`
	Description  *string `json:"description"`
	DeliveryDays int     `json:"delivery_days"`
	Revisions    int     `json:"revisions"`
}

// Packages returns the basic tier plus whichever optional tiers are priced.
func (g *Gig) Packages() []Package {
	packages := []Package{{
		PackageType:  "basic",
		Price:        g.BasicPrice,
		Description:  g.BasicDescription,
		DeliveryDays: g.BasicDeliveryDays,
		Revisions:    g.BasicRevisions,
	}}

	if g.StandardPrice != nil {
		packages = append(packages, Package{
			PackageType:  "standard",
			Price:        *g.StandardPrice,
			Description:  g.StandardDescription,
			DeliveryDays: derefInt(g.StandardDeliveryDays),
			Revisions:    derefInt(g.StandardRevisions),
		})
	}
	if g.PremiumPrice != nil {
		packages = append(packages, Package{
			PackageType:  "premium",
			Price:        *g.PremiumPrice,
			Description:  g.PremiumDescription,
			DeliveryDays: derefInt(g.PremiumDeliveryDays),
			Revisions:    derefInt(g.PremiumRevisions),
		})
	}
	return packages
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
