package handlers

import (
	"errors"
	"foodgram/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
	"strings"
	"unicode/utf8"
)

// 查詢食材列表，name參數為不分大小寫的部分比對
func GetIngredientListHandler(c *gin.Context, db *gorm.DB) {
	query := db.WithContext(c).Order("name").Order("measurement_unit")
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		internalError(c, "無法獲取食材列表", err)
		return
	}

	results := make([]ingredientData, 0, len(ingredients))
	for i := range ingredients {
		results = append(results, newIngredientData(&ingredients[i]))
	}
	c.JSON(http.StatusOK, results)
}

// 查詢單一食材
func GetIngredientHandler(c *gin.Context, db *gorm.DB) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "找不到此食材",
		})
		return
	}

	var ingredient models.Ingredient
	err = db.WithContext(c).First(&ingredient, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "找不到此食材",
			})
			return
		}
		internalError(c, "查詢食材失敗", err)
		return
	}

	c.JSON(http.StatusOK, newIngredientData(&ingredient))
}

// 新增食材
func CreateIngredientHandler(c *gin.Context, db *gorm.DB) {
	var req struct {
		Name            string `json:"name" binding:"required"`
		MeasurementUnit string `json:"measurement_unit" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	if utf8.RuneCountInString(req.Name) > 100 || utf8.RuneCountInString(req.MeasurementUnit) > 20 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "食材名稱或單位過長",
		})
		return
	}

	ingredient := models.Ingredient{
		Name:            req.Name,
		MeasurementUnit: req.MeasurementUnit,
	}
	created, err := CreateIngredient(db.WithContext(c), &ingredient)
	if err != nil {
		internalError(c, "無法新增食材", err)
		return
	}
	if !created {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "此食材及單位已存在",
		})
		return
	}

	c.JSON(http.StatusCreated, newIngredientData(&ingredient))
}

// CreateIngredient 新增食材，名稱+單位已存在時回傳false
func CreateIngredient(db *gorm.DB, ingredient *models.Ingredient) (bool, error) {
	var existing models.Ingredient
	err := db.
		Where("name = ? AND measurement_unit = ?", ingredient.Name, ingredient.MeasurementUnit).
		First(&existing).
		Error
	if err == nil {
		*ingredient = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := db.Create(ingredient).Error; err != nil {
		return false, err
	}
	return true, nil
}
