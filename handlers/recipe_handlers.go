package handlers

import (
	"errors"
	"foodgram/images"
	"foodgram/models"
	"foodgram/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"net/http"
	"strconv"
)

// 數量及烹飪時間上限與 smallint 相同
type recipeRequest struct {
	Ingredients []struct {
		ID     int `json:"id" binding:"required,min=1"`
		Amount int `json:"amount" binding:"required,min=1,max=32767"`
	} `json:"ingredients" binding:"required,min=1,dive"`
	Tags        []int  `json:"tags" binding:"required,min=1,dive,min=1"`
	Image       string `json:"image"`
	Name        string `json:"name" binding:"required,max=200"`
	Text        string `json:"text" binding:"required"`
	CookingTime int    `json:"cooking_time" binding:"required,min=1,max=32767"`
}

// 檢查食材及標籤是否重複、是否存在，欄位範圍由binding檢查
// 回傳的 message 不為空代表請求不合法
func validateRecipeRequest(c *gin.Context, db *gorm.DB, req *recipeRequest, requireImage bool) (tags []models.Tag, amounts []models.AmountIngredient, message string, err error) {
	if requireImage && req.Image == "" {
		return nil, nil, "圖片為必填", nil
	}

	//檢查食材是否重複
	ingredientIDs := make([]uint, 0, len(req.Ingredients))
	seen := make(map[int]bool)
	for _, item := range req.Ingredients {
		if seen[item.ID] {
			return nil, nil, "食材不可重複", nil
		}
		seen[item.ID] = true
		ingredientIDs = append(ingredientIDs, uint(item.ID))
		amounts = append(amounts, models.AmountIngredient{
			IngredientID: uint(item.ID),
			Amount:       uint(item.Amount),
		})
	}

	var count int64
	err = db.WithContext(c).
		Model(&models.Ingredient{}).
		Where("id IN ?", ingredientIDs).
		Count(&count).
		Error
	if err != nil {
		return nil, nil, "", err
	}
	if int(count) != len(ingredientIDs) {
		return nil, nil, "食材不存在", nil
	}

	//檢查標籤是否重複及存在
	tagIDs := make([]uint, 0, len(req.Tags))
	seen = make(map[int]bool)
	for _, id := range req.Tags {
		if seen[id] {
			return nil, nil, "標籤不可重複", nil
		}
		seen[id] = true
		tagIDs = append(tagIDs, uint(id))
	}

	err = db.WithContext(c).
		Where("id IN ?", tagIDs).
		Find(&tags).
		Error
	if err != nil {
		return nil, nil, "", err
	}
	if len(tags) != len(tagIDs) {
		return nil, nil, "標籤不存在", nil
	}

	return tags, amounts, "", nil
}

// 解碼並儲存圖片
func saveRecipeImage(c *gin.Context, store *images.Store, data string) (string, bool) {
	file, err := images.DecodeDataURI(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "不合法的圖片",
			"error":   err.Error(),
		})
		return "", false
	}

	name, err := store.Save(file)
	if err != nil {
		internalError(c, "無法儲存圖片", err)
		return "", false
	}
	return name, true
}

func removeImage(store *images.Store, name string) {
	if err := store.Remove(name); err != nil {
		zap.L().Warn("無法刪除圖片", zap.String("image", name), zap.Error(err))
	}
}

// 組合食譜回應資料，包含使用者的最愛/購物車/訂閱狀態
func buildRecipeData(c *gin.Context, db *gorm.DB, store *images.Store, recipes []models.Recipe) ([]recipeData, error) {
	userID := currentUserID(c)
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		authorIDs = append(authorIDs, recipe.AuthorID)
	}

	favorited, inCart, err := repository.NewRecipeRepository(db).FlagsFor(c, userID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := repository.NewSubscriptionRepository(db).SubscribedTo(c, userID, authorIDs)
	if err != nil {
		return nil, err
	}

	results := make([]recipeData, 0, len(recipes))
	for i := range recipes {
		recipe := &recipes[i]
		results = append(results, newRecipeData(recipe, store, recipeFlags{
			AuthorSubscribed: subscribed[recipe.AuthorID],
			Favorited:        favorited[recipe.ID],
			InShoppingCart:   inCart[recipe.ID],
		}))
	}
	return results, nil
}

func respondRecipe(c *gin.Context, db *gorm.DB, store *images.Store, status int, recipeID uint) {
	recipe, err := repository.NewRecipeRepository(db).Get(c, recipeID)
	if err != nil {
		internalError(c, "查詢食譜失敗", err)
		return
	}

	data, err := buildRecipeData(c, db, store, []models.Recipe{*recipe})
	if err != nil {
		internalError(c, "查詢食譜狀態失敗", err)
		return
	}
	c.JSON(status, data[0])
}

// 布林查詢參數，接受 1/true
func queryFlag(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

// 查詢食譜列表
func GetRecipeListHandler(c *gin.Context, db *gorm.DB, store *images.Store) {
	p, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "分頁參數錯誤",
			"error":   err.Error(),
		})
		return
	}

	var filter repository.RecipeFilter
	if author := c.Query("author"); author != "" {
		authorID, err := strconv.ParseUint(author, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "author輸入錯誤",
				"error":   err.Error(),
			})
			return
		}
		filter.AuthorID = uint(authorID)
	}
	filter.TagSlugs = c.QueryArray("tags")

	//匿名使用者忽略最愛及購物車篩選
	if userID := currentUserID(c); userID != 0 {
		if queryFlag(c, "is_favorited") {
			filter.FavoritedBy = userID
		}
		if queryFlag(c, "is_in_shopping_cart") {
			filter.InShoppingCartOf = userID
		}
	}

	recipes, count, err := repository.NewRecipeRepository(db).List(c, filter, p.Offset, p.Limit)
	if err != nil {
		internalError(c, "無法獲取食譜列表", err)
		return
	}

	results, err := buildRecipeData(c, db, store, recipes)
	if err != nil {
		internalError(c, "查詢食譜狀態失敗", err)
		return
	}
	c.JSON(http.StatusOK, newPageData(c, p, count, results))
}

// 查詢目標食譜，不存在時回應404
func findRecipe(c *gin.Context, db *gorm.DB) (*models.Recipe, bool) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "找不到此食譜",
		})
		return nil, false
	}

	recipe, err := repository.NewRecipeRepository(db).Get(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "找不到此食譜",
			})
			return nil, false
		}
		internalError(c, "查詢食譜失敗", err)
		return nil, false
	}
	return recipe, true
}

// 檢查是否為作者或admin
func canEditRecipe(c *gin.Context, recipe *models.Recipe) bool {
	if recipe.AuthorID == currentUserID(c) || models.IsAdminRole(currentRole(c)) {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{
		"error": "沒有權限",
	})
	return false
}

// 查詢單一食譜
func GetRecipeHandler(c *gin.Context, db *gorm.DB, store *images.Store) {
	recipe, ok := findRecipe(c, db)
	if !ok {
		return
	}

	data, err := buildRecipeData(c, db, store, []models.Recipe{*recipe})
	if err != nil {
		internalError(c, "查詢食譜狀態失敗", err)
		return
	}
	c.JSON(http.StatusOK, data[0])
}

// 新增食譜
func CreateRecipeHandler(c *gin.Context, db *gorm.DB, store *images.Store) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	tags, amounts, message, err := validateRecipeRequest(c, db, &req, true)
	if err != nil {
		internalError(c, "檢查食譜資料失敗", err)
		return
	}
	if message != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": message,
		})
		return
	}

	image, ok := saveRecipeImage(c, store, req.Image)
	if !ok {
		return
	}

	recipe := models.Recipe{
		AuthorID:          currentUserID(c),
		Name:              req.Name,
		Image:             image,
		Text:              req.Text,
		CookingTime:       uint(req.CookingTime),
		Tags:              tags,
		AmountIngredients: amounts,
	}
	if err := repository.NewRecipeRepository(db).Create(c, &recipe); err != nil {
		removeImage(store, image)
		internalError(c, "無法新增食譜", err)
		return
	}

	respondRecipe(c, db, store, http.StatusCreated, recipe.ID)
}

// 修改食譜，未提供圖片時保留原圖片
func UpdateRecipeHandler(c *gin.Context, db *gorm.DB, store *images.Store) {
	recipe, ok := findRecipe(c, db)
	if !ok {
		return
	}
	if !canEditRecipe(c, recipe) {
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	tags, amounts, message, err := validateRecipeRequest(c, db, &req, false)
	if err != nil {
		internalError(c, "檢查食譜資料失敗", err)
		return
	}
	if message != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": message,
		})
		return
	}

	oldImage := recipe.Image
	if req.Image != "" {
		image, ok := saveRecipeImage(c, store, req.Image)
		if !ok {
			return
		}
		recipe.Image = image
	}
	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = uint(req.CookingTime)

	if err := repository.NewRecipeRepository(db).Update(c, recipe, tags, amounts); err != nil {
		if recipe.Image != oldImage {
			removeImage(store, recipe.Image)
		}
		internalError(c, "無法修改食譜", err)
		return
	}
	if recipe.Image != oldImage {
		removeImage(store, oldImage)
	}

	respondRecipe(c, db, store, http.StatusOK, recipe.ID)
}

// 刪除食譜
func DeleteRecipeHandler(c *gin.Context, db *gorm.DB, store *images.Store) {
	recipe, ok := findRecipe(c, db)
	if !ok {
		return
	}
	if !canEditRecipe(c, recipe) {
		return
	}

	if err := repository.NewRecipeRepository(db).Delete(c, recipe); err != nil {
		internalError(c, "無法刪除食譜", err)
		return
	}
	removeImage(store, recipe.Image)

	c.Status(http.StatusNoContent)
}

// 不支援部分修改
func MethodNotAllowedHandler(c *gin.Context) {
	c.Header("Allow", "GET, PUT, DELETE")
	c.JSON(http.StatusMethodNotAllowed, gin.H{
		"error": "不支援此方法: " + c.Request.Method,
	})
}
