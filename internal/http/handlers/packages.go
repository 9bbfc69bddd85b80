package handlers

import (
	"strings"

	"thrive/internal/http/middleware"
	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

// SearchPackages filters the public catalog. Inactive packages never show
// up here; admin listings go through the admin routes.
func SearchPackages(c *gin.Context) {
	search := repositories.PackageSearch{
		Query:         strings.TrimSpace(c.Query("q")),
		City:          strings.TrimSpace(c.Query("city")),
		Country:       strings.TrimSpace(c.Query("country")),
		MinPriceCents: int64Query(c, "min_price_cents"),
		MaxPriceCents: int64Query(c, "max_price_cents"),
		MinDays:       intQuery(c, "min_days", 0),
		MaxDays:       intQuery(c, "max_days", 0),
		Sort:          strings.TrimSpace(c.Query("sort")),
	}

	page := pageFromQuery(c)
	items, err := repositories.PackageRepository{}.Search(search, &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondPage(c, "packages", items, page)
}

// FeaturedPackages returns the curated carousel entries.
func FeaturedPackages(c *gin.Context) {
	items, err := repositories.PackageRepository{}.Featured(intQuery(c, "limit", 6))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "featured packages", items)
}

// PopularPackages orders by booking volume.
func PopularPackages(c *gin.Context) {
	items, err := repositories.PackageRepository{}.Popular(intQuery(c, "limit", 6))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "popular packages", items)
}

// PackageDestinations lists distinct destinations with package counts.
func PackageDestinations(c *gin.Context) {
	items, err := repositories.PackageRepository{}.Destinations()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "destinations", items)
}

// PackagePriceRange returns the catalog price bounds for filter sliders.
func PackagePriceRange(c *gin.Context) {
	min, max, err := repositories.PackageRepository{}.PriceRange()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "price range", gin.H{
		"min_cents": min,
		"max_cents": max,
	})
}

// GetPackage returns one package by id and counts the view.
func GetPackage(c *gin.Context) {
	repo := repositories.PackageRepository{}
	pkg, err := repo.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := repo.IncrementViews(pkg.ID); err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "packages", "view_count_failed", err.Error())
	}
	RespondOK(c, "package detail", gin.H{"package": pkg})
}

// GetPackageBySlug resolves the SEO URL form.
func GetPackageBySlug(c *gin.Context) {
	repo := repositories.PackageRepository{}
	pkg, err := repo.GetBySlug(c.Param("slug"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := repo.IncrementViews(pkg.ID); err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "packages", "view_count_failed", err.Error())
	}
	RespondOK(c, "package detail", gin.H{"package": pkg})
}

// SimilarPackages suggests other trips in the same country.
func SimilarPackages(c *gin.Context) {
	repo := repositories.PackageRepository{}
	pkg, err := repo.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	items, err := repo.Similar(pkg, intQuery(c, "limit", 4))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "similar packages", items)
}

// PackageStats publishes catalog totals for the marketing pages.
func PackageStats(c *gin.Context) {
	stats, err := repositories.PackageRepository{}.Stats()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "package stats", stats)
}
