package repository

import (
	"context"
	"errors"
	"foodgram/models"
	"gorm.io/gorm"
)

type RecipeRepository struct{ DB *gorm.DB }

func NewRecipeRepository(db *gorm.DB) *RecipeRepository { return &RecipeRepository{DB: db} }

// RecipeFilter 食譜列表的篩選條件，零值代表不篩選
type RecipeFilter struct {
	AuthorID         uint
	TagSlugs         []string
	FavoritedBy      uint
	InShoppingCartOf uint
}

func (r *RecipeRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("AmountIngredients", func(db *gorm.DB) *gorm.DB { return db.Order("amount_ingredients.id") }).
		Preload("AmountIngredients.Ingredient")
}

// Get 查詢食譜及其作者、標籤、食材，不存在回傳 ErrNotFound
func (r *RecipeRepository) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.preload(r.DB.WithContext(ctx)).First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *RecipeRepository) filtered(ctx context.Context, filter RecipeFilter) *gorm.DB {
	query := r.DB.WithContext(ctx).Model(&models.Recipe{})
	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		//含有任一標籤即符合
		query = query.Where("recipes.id IN (?)", r.DB.
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.FavoritedBy != 0 {
		query = query.Where("recipes.id IN (?)", r.DB.
			Model(&models.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", filter.FavoritedBy))
	}
	if filter.InShoppingCartOf != 0 {
		query = query.Where("recipes.id IN (?)", r.DB.
			Model(&models.CartEntry{}).
			Select("recipe_id").
			Where("user_id = ?", filter.InShoppingCartOf))
	}
	return query
}

// List 回傳符合條件的食譜(新的在前)及總數
func (r *RecipeRepository) List(ctx context.Context, filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err = r.preload(r.filtered(ctx, filter)).
		Order("recipes.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&recipes).
		Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

// ByAuthor 回傳作者的食譜，limit <= 0 表示不限數量
func (r *RecipeRepository) ByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	query := r.DB.WithContext(ctx).Where("author_id = ?", authorID).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

// Create 在同一個事務內建立食譜、標籤關聯及食材數量
func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(recipe).Error
	})
}

// Update 覆蓋食譜欄位並替換標籤及食材
func (r *RecipeRepository) Update(ctx context.Context, recipe *models.Recipe, tags []models.Tag, amounts []models.AmountIngredient) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(recipe).
			Updates(map[string]interface{}{
				"name":         recipe.Name,
				"image":        recipe.Image,
				"text":         recipe.Text,
				"cooking_time": recipe.CookingTime,
			}).
			Error
		if err != nil {
			return err
		}

		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}

		err = tx.Unscoped().
			Where("recipe_id = ?", recipe.ID).
			Delete(&models.AmountIngredient{}).
			Error
		if err != nil {
			return err
		}
		for i := range amounts {
			amounts[i].RecipeID = recipe.ID
		}
		if len(amounts) > 0 {
			if err := tx.Omit("Ingredient", "Recipe").Create(&amounts).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete 刪除食譜及其食材、標籤關聯、最愛與購物車
func (r *RecipeRepository) Delete(ctx context.Context, recipe *models.Recipe) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		for _, model := range []interface{}{&models.AmountIngredient{}, &models.Favorite{}, &models.CartEntry{}} {
			if err := tx.Unscoped().Where("recipe_id = ?", recipe.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(recipe).Error
	})
}

// FlagsFor 回傳使用者對每個食譜的最愛/購物車狀態
func (r *RecipeRepository) FlagsFor(ctx context.Context, userID uint, recipeIDs []uint) (favorited, inCart map[uint]bool, err error) {
	favorited = make(map[uint]bool)
	inCart = make(map[uint]bool)
	if userID == 0 || len(recipeIDs) == 0 {
		return favorited, inCart, nil
	}

	var ids []uint
	err = r.DB.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).
		Error
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		favorited[id] = true
	}

	ids = nil
	err = r.DB.WithContext(ctx).
		Model(&models.CartEntry{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).
		Error
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		inCart[id] = true
	}
	return favorited, inCart, nil
}
