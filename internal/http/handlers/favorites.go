package handlers

import (
	"thrive/internal/repositories"

	"github.com/gin-gonic/gin"
)

// ListFavorites returns the caller's saved packages, most recent first.
func ListFavorites(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := repositories.FavoritesRepository{}.ListByUser(u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "favorites", items)
}

// AddFavorite saves a package. Saving twice is a no-op.
func AddFavorite(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	pkg, err := repositories.PackageRepository{}.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := (repositories.FavoritesRepository{}).Add(u.ID, pkg.ID); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, "package saved", gin.H{"package_id": pkg.ID})
}

// RemoveFavorite unsaves a package.
func RemoveFavorite(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	if err := (repositories.FavoritesRepository{}).Remove(u.ID, c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "package removed from favorites", nil)
}

// CheckFavorite reports whether a package is saved.
func CheckFavorite(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	saved, err := repositories.FavoritesRepository{}.Exists(u.ID, c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "favorite status", gin.H{"is_favorite": saved})
}
