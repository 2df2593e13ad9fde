package handlers

import (
	"context"
	"errors"
	"foodgram/images"
	"foodgram/report"
	"foodgram/repository"
	"foodgram/shopping"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
)

// 購物車及最愛共用的加入/移除操作
type recipeCollection interface {
	Add(ctx context.Context, userID, recipeID uint) error
	Remove(ctx context.Context, userID, recipeID uint) error
}

func addToCollection(c *gin.Context, db *gorm.DB, store *images.Store, collection recipeCollection, duplicateMessage string) {
	recipe, ok := findRecipe(c, db)
	if !ok {
		return
	}

	err := collection.Add(c, currentUserID(c), recipe.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": duplicateMessage,
			})
			return
		}
		internalError(c, "無法加入食譜", err)
		return
	}

	c.JSON(http.StatusOK, newShortRecipeData(recipe, store))
}

// 移除後回傳被移除的食譜
func removeFromCollection(c *gin.Context, db *gorm.DB, store *images.Store, collection recipeCollection, missingMessage string) {
	recipe, ok := findRecipe(c, db)
	if !ok {
		return
	}

	err := collection.Remove(c, currentUserID(c), recipe.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": missingMessage,
			})
			return
		}
		internalError(c, "無法移除食譜", err)
		return
	}

	c.JSON(http.StatusOK, newShortRecipeData(recipe, store))
}

// 新增食譜至購物車
func AddToCartHandler(c *gin.Context, db *gorm.DB, store *images.Store) {
	addToCollection(c, db, store, repository.NewCartRepository(db), "食譜已在購物車內")
}

// 從購物車移除食譜
func RemoveFromCartHandler(c *gin.Context, db *gorm.DB, store *images.Store) {
	removeFromCollection(c, db, store, repository.NewCartRepository(db), "購物車內沒有此食譜")
}

// 新增食譜至最愛
func AddToFavoritesHandler(c *gin.Context, db *gorm.DB, store *images.Store) {
	addToCollection(c, db, store, repository.NewFavoriteRepository(db), "食譜已在最愛內")
}

// 從最愛移除食譜
func RemoveFromFavoritesHandler(c *gin.Context, db *gorm.DB, store *images.Store) {
	removeFromCollection(c, db, store, repository.NewFavoriteRepository(db), "最愛內沒有此食譜")
}

// 下載購物清單PDF
func DownloadShoppingCartHandler(c *gin.Context, db *gorm.DB, renderer *report.Renderer) {
	//合併購物車內所有食譜的食材
	totals, err := shopping.Aggregate(c, repository.NewCartRepository(db), currentUserID(c))
	if err != nil {
		internalError(c, "無法統計購物車食材", err)
		return
	}

	pdf, err := renderer.Render(totals)
	if err != nil {
		internalError(c, "無法產生購物清單", err)
		return
	}

	c.Header("Content-Disposition", report.ContentDisposition())
	c.Data(http.StatusOK, report.ContentType, pdf)
}
