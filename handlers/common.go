package handlers

import (
	"errors"
	"foodgram/images"
	"foodgram/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
	"net/url"
	"strconv"
)

const (
	defaultPageSize = 6
	maxPageSize     = 50
)

var errInvalidID = errors.New("invalid id")

// 從路徑參數取得ID
func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

// 取得登入使用者ID，未登入回傳0
func currentUserID(c *gin.Context) uint {
	userID, ok := c.Get("UserID")
	if !ok {
		return 0
	}
	id, _ := userID.(uint)
	return id
}

func currentRole(c *gin.Context) string {
	role, _ := c.Get("Role")
	s, _ := role.(string)
	return s
}

// 回傳500並記錄錯誤
func internalError(c *gin.Context, message string, err error) {
	zap.L().Error(message, zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": message,
		"error":   err.Error(),
	})
}

type pagination struct {
	Page   int
	Limit  int
	Offset int
}

// 讀取 page 及 limit 參數
func parsePagination(c *gin.Context) (pagination, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return pagination{}, errors.New("page輸入錯誤")
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		return pagination{}, errors.New("limit輸入錯誤")
	}
	//限制最高查詢數量為50
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}, nil
}

type pageData struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

func pageURL(c *gin.Context, page int) *string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	query := c.Request.URL.Query()
	query.Set("page", strconv.Itoa(page))
	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	s := u.String()
	return &s
}

func newPageData(c *gin.Context, p pagination, count int64, results interface{}) pageData {
	data := pageData{Count: count, Results: results}
	if int64(p.Offset+p.Limit) < count {
		data.Next = pageURL(c, p.Page+1)
	}
	if p.Page > 1 {
		data.Previous = pageURL(c, p.Page-1)
	}
	return data
}

type userData struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

func newUserData(user *models.User, subscribed bool) userData {
	return userData{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}

type tagData struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

func newTagData(tag *models.Tag) tagData {
	return tagData{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
}

type ingredientData struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func newIngredientData(ingredient *models.Ingredient) ingredientData {
	return ingredientData{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}

type recipeIngredientData struct {
	ingredientData
	Amount uint `json:"amount"`
}

type recipeData struct {
	ID               uint                   `json:"id"`
	Tags             []tagData              `json:"tags"`
	Author           userData               `json:"author"`
	Ingredients      []recipeIngredientData `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      uint                   `json:"cooking_time"`
}

type recipeFlags struct {
	AuthorSubscribed bool
	Favorited        bool
	InShoppingCart   bool
}

func newRecipeData(recipe *models.Recipe, store *images.Store, flags recipeFlags) recipeData {
	data := recipeData{
		ID:               recipe.ID,
		Tags:             make([]tagData, 0, len(recipe.Tags)),
		Author:           newUserData(&recipe.Author, flags.AuthorSubscribed),
		Ingredients:      make([]recipeIngredientData, 0, len(recipe.AmountIngredients)),
		IsFavorited:      flags.Favorited,
		IsInShoppingCart: flags.InShoppingCart,
		Name:             recipe.Name,
		Image:            store.URL(recipe.Image),
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
	for i := range recipe.Tags {
		data.Tags = append(data.Tags, newTagData(&recipe.Tags[i]))
	}
	for i := range recipe.AmountIngredients {
		amount := &recipe.AmountIngredients[i]
		data.Ingredients = append(data.Ingredients, recipeIngredientData{
			ingredientData: newIngredientData(&amount.Ingredient),
			Amount:         amount.Amount,
		})
	}
	return data
}

type shortRecipeData struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime uint   `json:"cooking_time"`
}

func newShortRecipeData(recipe *models.Recipe, store *images.Store) shortRecipeData {
	return shortRecipeData{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       store.URL(recipe.Image),
		CookingTime: recipe.CookingTime,
	}
}
