package handlers

import (
	"encoding/json"
	"strings"

	"thrive/internal/domain/models"
	"thrive/internal/http/middleware"
	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminListPackages includes inactive packages, unlike the public search.
func AdminListPackages(c *gin.Context) {
	search := repositories.PackageSearch{
		Query:         strings.TrimSpace(c.Query("q")),
		City:          strings.TrimSpace(c.Query("city")),
		Country:       strings.TrimSpace(c.Query("country")),
		Sort:          strings.TrimSpace(c.Query("sort")),
		IncludeHidden: true,
	}
	page := pageFromQuery(c)
	items, err := repositories.PackageRepository{}.Search(search, &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondPage(c, "packages", items, page)
}

type packageRequest struct {
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	DestinationCity     string          `json:"destinationCity"`
	DestinationCountry  string          `json:"destinationCountry"`
	DurationDays        int             `json:"durationDays"`
	DurationNights      int             `json:"durationNights"`
	StartingPriceCents  int64           `json:"startingPriceCents"`
	PricePerPersonCents int64           `json:"pricePerPersonCents"`
	Highlights          json.RawMessage `json:"highlights"`
	Inclusions          json.RawMessage `json:"inclusions"`
	Exclusions          json.RawMessage `json:"exclusions"`
	Itinerary           json.RawMessage `json:"itinerary"`
	HotelName           string          `json:"hotelName"`
	HotelRating         int             `json:"hotelRating"`
	RoomType            string          `json:"roomType"`
	AvailableFrom       string          `json:"availableFrom"`
	AvailableUntil      string          `json:"availableUntil"`
	MaxCapacity         int             `json:"maxCapacity"`
	MinBooking          int             `json:"minBooking"`
	FeaturedImage       string          `json:"featuredImage"`
	GalleryImages       json.RawMessage `json:"galleryImages"`
	MetaTitle           string          `json:"metaTitle"`
	MetaDescription     string          `json:"metaDescription"`
}

func (r packageRequest) validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(r.DestinationCity) == "" {
		errs["destinationCity"] = "destination city is required"
	}
	if strings.TrimSpace(r.DestinationCountry) == "" {
		errs["destinationCountry"] = "destination country is required"
	}
	if r.DurationDays < 1 {
		errs["durationDays"] = "duration must be at least one day"
	}
	if r.PricePerPersonCents <= 0 {
		errs["pricePerPersonCents"] = "price per person must be positive"
	}
	return errs
}

// AdminCreatePackage adds a catalog package with a unique slug derived from
// the name.
func AdminCreatePackage(c *gin.Context) {
	var req packageRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		RespondValidation(c, "package failed validation", errs)
		return
	}

	repo := repositories.PackageRepository{}
	slug := utils.Slugify(req.Name)
	exists, err := repo.SlugExists(slug)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if exists {
		slug = slug + "-" + strings.ToLower(utils.NewReference("PKG")[4:])
	}

	startingPrice := req.StartingPriceCents
	if startingPrice == 0 {
		startingPrice = req.PricePerPersonCents
	}
	nights := req.DurationNights
	if nights == 0 && req.DurationDays > 0 {
		nights = req.DurationDays - 1
	}
	minBooking := req.MinBooking
	if minBooking < 1 {
		minBooking = 1
	}

	pkg := models.Package{
		ID:                  utils.NewID(),
		Name:                strings.TrimSpace(req.Name),
		Slug:                slug,
		Description:         strings.TrimSpace(req.Description),
		DestinationCity:     strings.TrimSpace(req.DestinationCity),
		DestinationCountry:  strings.TrimSpace(req.DestinationCountry),
		DurationDays:        req.DurationDays,
		DurationNights:      nights,
		StartingPriceCents:  startingPrice,
		PricePerPersonCents: req.PricePerPersonCents,
		Highlights:          req.Highlights,
		Inclusions:          req.Inclusions,
		Exclusions:          req.Exclusions,
		Itinerary:           req.Itinerary,
		HotelName:           strings.TrimSpace(req.HotelName),
		HotelRating:         req.HotelRating,
		RoomType:            strings.TrimSpace(req.RoomType),
		IsActive:            true,
		AvailableFrom:       req.AvailableFrom,
		AvailableUntil:      req.AvailableUntil,
		MaxCapacity:         req.MaxCapacity,
		MinBooking:          minBooking,
		FeaturedImage:       strings.TrimSpace(req.FeaturedImage),
		GalleryImages:       req.GalleryImages,
		MetaTitle:           strings.TrimSpace(req.MetaTitle),
		MetaDescription:     strings.TrimSpace(req.MetaDescription),
	}
	if err := repo.Create(pkg); err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).Record(middleware.UserID(c), "admin.package_create", "package", pkg.ID, "package created "+pkg.Slug, nil)
	RespondCreated(c, "package created", gin.H{"package": pkg})
}

type packagePatchRequest struct {
	Name                *string         `json:"name"`
	Description         *string         `json:"description"`
	DestinationCity     *string         `json:"destinationCity"`
	DestinationCountry  *string         `json:"destinationCountry"`
	DurationDays        *int            `json:"durationDays"`
	DurationNights      *int            `json:"durationNights"`
	StartingPriceCents  *int64          `json:"startingPriceCents"`
	PricePerPersonCents *int64          `json:"pricePerPersonCents"`
	Highlights          json.RawMessage `json:"highlights"`
	Inclusions          json.RawMessage `json:"inclusions"`
	Exclusions          json.RawMessage `json:"exclusions"`
	Itinerary           json.RawMessage `json:"itinerary"`
	HotelName           *string         `json:"hotelName"`
	HotelRating         *int            `json:"hotelRating"`
	RoomType            *string         `json:"roomType"`
	IsActive            *bool           `json:"isActive"`
	AvailableFrom       *string         `json:"availableFrom"`
	AvailableUntil      *string         `json:"availableUntil"`
	MaxCapacity         *int            `json:"maxCapacity"`
	MinBooking          *int            `json:"minBooking"`
	FeaturedImage       *string         `json:"featuredImage"`
	GalleryImages       json.RawMessage `json:"galleryImages"`
	MetaTitle           *string         `json:"metaTitle"`
	MetaDescription     *string         `json:"metaDescription"`
}

// AdminUpdatePackage patches only the keys present in the payload.
func AdminUpdatePackage(c *gin.Context) {
	var req packagePatchRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.PackageRepository{}
	pkg, err := repo.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	err = repo.Patch(pkg.ID, repositories.PackageUpdate{
		Name:                req.Name,
		Description:         req.Description,
		DestinationCity:     req.DestinationCity,
		DestinationCountry:  req.DestinationCountry,
		DurationDays:        req.DurationDays,
		DurationNights:      req.DurationNights,
		StartingPriceCents:  req.StartingPriceCents,
		PricePerPersonCents: req.PricePerPersonCents,
		Highlights:          req.Highlights,
		Inclusions:          req.Inclusions,
		Exclusions:          req.Exclusions,
		Itinerary:           req.Itinerary,
		HotelName:           req.HotelName,
		HotelRating:         req.HotelRating,
		RoomType:            req.RoomType,
		IsActive:            req.IsActive,
		AvailableFrom:       req.AvailableFrom,
		AvailableUntil:      req.AvailableUntil,
		MaxCapacity:         req.MaxCapacity,
		MinBooking:          req.MinBooking,
		FeaturedImage:       req.FeaturedImage,
		GalleryImages:       req.GalleryImages,
		MetaTitle:           req.MetaTitle,
		MetaDescription:     req.MetaDescription,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).Record(middleware.UserID(c), "admin.package_update", "package", pkg.ID, "package patched", req)

	updated, err := repo.GetByID(pkg.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "package updated", gin.H{"package": updated})
}

// AdminDeletePackage removes a package, or deactivates it when bookings
// reference it so history stays intact.
func AdminDeletePackage(c *gin.Context) {
	repo := repositories.PackageRepository{}
	pkg, err := repo.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	hasBookings, err := repo.HasBookings(pkg.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if hasBookings {
		if err := repo.Deactivate(pkg.ID); err != nil {
			RespondDomainError(c, err)
			return
		}
		auditor(c).Record(middleware.UserID(c), "admin.package_deactivate", "package", pkg.ID, "package deactivated, has bookings", nil)
		RespondOK(c, "package has bookings and was deactivated instead", gin.H{"deactivated": true})
		return
	}

	if err := repo.Delete(pkg.ID); err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).Record(middleware.UserID(c), "admin.package_delete", "package", pkg.ID, "package deleted", nil)
	RespondOK(c, "package deleted", nil)
}

// AdminPackageStats powers the catalog overview cards.
func AdminPackageStats(c *gin.Context) {
	stats, err := repositories.PackageRepository{}.Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "package stats", stats)
}
