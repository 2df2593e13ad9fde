package handlers

import (
	"errors"
	"foodgram/images"
	"foodgram/models"
	"foodgram/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
	"strconv"
)

type subscriptionData struct {
	userData
	Recipes      []shortRecipeData `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

// 讀取 recipes_limit，未提供或不合法時回傳0代表不限數量
func recipesLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func newSubscriptionData(c *gin.Context, db *gorm.DB, store *images.Store, author *models.User, subscribed bool, limit int) (subscriptionData, error) {
	recipes, count, err := repository.NewRecipeRepository(db).ByAuthor(c, author.ID, limit)
	if err != nil {
		return subscriptionData{}, err
	}

	data := subscriptionData{
		userData:     newUserData(author, subscribed),
		Recipes:      make([]shortRecipeData, 0, len(recipes)),
		RecipesCount: count,
	}
	for i := range recipes {
		data.Recipes = append(data.Recipes, newShortRecipeData(&recipes[i], store))
	}
	return data, nil
}

// 查詢已訂閱的作者及其食譜
func GetSubscriptionsHandler(c *gin.Context, db *gorm.DB, store *images.Store) {
	p, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "分頁參數錯誤",
			"error":   err.Error(),
		})
		return
	}

	authors, count, err := repository.NewSubscriptionRepository(db).Authors(c, currentUserID(c), p.Offset, p.Limit)
	if err != nil {
		internalError(c, "無法查詢訂閱列表", err)
		return
	}

	limit := recipesLimit(c)
	results := make([]subscriptionData, 0, len(authors))
	for i := range authors {
		data, err := newSubscriptionData(c, db, store, &authors[i], true, limit)
		if err != nil {
			internalError(c, "無法查詢作者食譜", err)
			return
		}
		results = append(results, data)
	}
	c.JSON(http.StatusOK, newPageData(c, p, count, results))
}

// 訂閱作者
func SubscribeHandler(c *gin.Context, db *gorm.DB, store *images.Store) {
	authorID, err := paramID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "找不到此使用者",
		})
		return
	}

	author, ok := findUser(c, db, authorID)
	if !ok {
		return
	}

	err = repository.NewSubscriptionRepository(db).Subscribe(c, currentUserID(c), author.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSelfSubscription) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "無法訂閱自己",
				"error":   err.Error(),
			})
			return
		}
		internalError(c, "訂閱失敗", err)
		return
	}

	data, err := newSubscriptionData(c, db, store, author, true, recipesLimit(c))
	if err != nil {
		internalError(c, "無法查詢作者食譜", err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// 取消訂閱作者，回傳該作者資料
func UnsubscribeHandler(c *gin.Context, db *gorm.DB, store *images.Store) {
	authorID, err := paramID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "找不到此使用者",
		})
		return
	}

	author, ok := findUser(c, db, authorID)
	if !ok {
		return
	}

	err = repository.NewSubscriptionRepository(db).Unsubscribe(c, currentUserID(c), author.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "尚未訂閱此作者",
			})
			return
		}
		internalError(c, "取消訂閱失敗", err)
		return
	}

	data, err := newSubscriptionData(c, db, store, author, false, recipesLimit(c))
	if err != nil {
		internalError(c, "無法查詢作者食譜", err)
		return
	}
	c.JSON(http.StatusOK, data)
}
