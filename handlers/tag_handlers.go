package handlers

import (
	"errors"
	"foodgram/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// 查詢標籤列表(依名稱排序)，優先讀取快取
func GetTagListHandler(c *gin.Context, db *gorm.DB, cache *TagCache) {
	if tags, ok := cache.get(c); ok {
		c.JSON(http.StatusOK, tags)
		return
	}

	var tags []models.Tag
	err := db.WithContext(c).
		Order("name").
		Find(&tags).
		Error
	if err != nil {
		internalError(c, "無法獲取標籤列表", err)
		return
	}

	results := make([]tagData, 0, len(tags))
	for i := range tags {
		results = append(results, newTagData(&tags[i]))
	}
	cache.set(c, results)

	c.JSON(http.StatusOK, results)
}

// 查詢單一標籤
func GetTagHandler(c *gin.Context, db *gorm.DB) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "找不到此標籤",
		})
		return
	}

	var tag models.Tag
	err = db.WithContext(c).First(&tag, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "找不到此標籤",
			})
			return
		}
		internalError(c, "查詢標籤失敗", err)
		return
	}

	c.JSON(http.StatusOK, newTagData(&tag))
}

// 新增標籤
func CreateTagHandler(c *gin.Context, db *gorm.DB, cache *TagCache) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color" binding:"required"`
		Slug  string `json:"slug" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	//檢查欄位格式
	if utf8.RuneCountInString(req.Name) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "標籤名稱過長",
		})
		return
	}
	if !colorPattern.MatchString(req.Color) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "顏色需為#RRGGBB格式",
		})
		return
	}
	if len(req.Slug) > 50 || !slugPattern.MatchString(req.Slug) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "不合法的slug",
		})
		return
	}

	tag := models.Tag{
		Name:  req.Name,
		Color: strings.ToUpper(req.Color),
		Slug:  req.Slug,
	}

	//檢查名稱、顏色、slug是否重複
	var count int64
	err := db.WithContext(c).
		Model(&models.Tag{}).
		Where("name = ? OR color = ? OR slug = ?", tag.Name, tag.Color, tag.Slug).
		Count(&count).
		Error
	if err != nil {
		internalError(c, "檢查標籤失敗", err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "標籤名稱、顏色或slug已被使用",
		})
		return
	}

	if err := db.WithContext(c).Create(&tag).Error; err != nil {
		internalError(c, "無法新增標籤", err)
		return
	}
	cache.invalidate(c)

	c.JSON(http.StatusCreated, newTagData(&tag))
}

// 刪除標籤及其食譜關聯
func DeleteTagHandler(c *gin.Context, db *gorm.DB, cache *TagCache) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "找不到此標籤",
		})
		return
	}

	var tag models.Tag
	err = db.WithContext(c).First(&tag, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "找不到此標籤",
			})
			return
		}
		internalError(c, "查詢標籤失敗", err)
		return
	}

	tx := db.WithContext(c).Begin()
	if err := tx.Model(&tag).Association("Recipes").Clear(); err != nil {
		tx.Rollback()
		internalError(c, "無法刪除標籤關聯", err)
		return
	}
	if err := tx.Unscoped().Delete(&tag).Error; err != nil {
		tx.Rollback()
		internalError(c, "無法刪除標籤", err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		internalError(c, "無法刪除標籤", err)
		return
	}
	cache.invalidate(c)

	c.Status(http.StatusNoContent)
}
