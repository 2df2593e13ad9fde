package repository

import (
	"context"
	"foodgram/config"
	"foodgram/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.SetupDatabase(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "First",
		LastName:  "Last",
		Password:  "hash",
		Role:      models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

func createTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

type amount struct {
	ingredient *models.Ingredient
	amount     uint
}

func createRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []models.Tag, amounts ...amount) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "recipes/" + name + ".png",
		Text:        "text",
		CookingTime: 10,
		Tags:        tags,
	}
	for _, a := range amounts {
		recipe.AmountIngredients = append(recipe.AmountIngredients, models.AmountIngredient{
			IngredientID: a.ingredient.ID,
			Amount:       a.amount,
		})
	}
	require.NoError(t, NewRecipeRepository(db).Create(context.Background(), recipe))
	return recipe
}
