package repository

import (
	"context"
	"foodgram/models"
	"foodgram/shopping"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestCartRepositoryAddRemove(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "cartowner")
	recipe := createRecipe(t, db, user, "pancakes", nil)
	repo := NewCartRepository(db)

	require.NoError(t, repo.Add(ctx, user.ID, recipe.ID))
	assert.ErrorIs(t, repo.Add(ctx, user.ID, recipe.ID), ErrAlreadyExists)

	var count int64
	require.NoError(t, db.Model(&models.CartEntry{}).Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Remove(ctx, user.ID, recipe.ID))
	assert.ErrorIs(t, repo.Remove(ctx, user.ID, recipe.ID), ErrNotFound)

	//移除後可再次加入
	require.NoError(t, repo.Add(ctx, user.ID, recipe.ID))
}

func TestCartLinesForUserAggregates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "shopper01")
	other := createUser(t, db, "shopper02")

	flour := createIngredient(t, db, "flour", "g")
	sugarG := createIngredient(t, db, "sugar", "g")
	sugarML := createIngredient(t, db, "sugar", "ml")
	salt := createIngredient(t, db, "salt", "g")

	recipeA := createRecipe(t, db, user, "A", nil, amount{flour, 200}, amount{sugarG, 50})
	recipeB := createRecipe(t, db, user, "B", nil, amount{flour, 100}, amount{sugarML, 50})
	recipeC := createRecipe(t, db, other, "C", nil, amount{salt, 5})

	repo := NewCartRepository(db)
	require.NoError(t, repo.Add(ctx, user.ID, recipeA.ID))
	require.NoError(t, repo.Add(ctx, user.ID, recipeB.ID))
	require.NoError(t, repo.Add(ctx, other.ID, recipeC.ID))

	lines, err := repo.CartLinesForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 4)

	totals, err := shopping.Aggregate(ctx, repo, user.ID)
	require.NoError(t, err)

	want := []shopping.Line{
		{Name: "flour", Unit: "g", Amount: 300},
		{Name: "sugar", Unit: "g", Amount: 50},
		{Name: "sugar", Unit: "ml", Amount: 50},
	}
	if diff := cmp.Diff(want, totals.Lines()); diff != "" {
		t.Errorf("aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestCartLinesForUserEmptyCart(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, "emptycart")

	totals, err := shopping.Aggregate(context.Background(), NewCartRepository(db), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, totals.Len())
}

func TestFavoriteRepositoryAddRemove(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "fan01")
	recipe := createRecipe(t, db, user, "waffles", nil)
	repo := NewFavoriteRepository(db)

	require.NoError(t, repo.Add(ctx, user.ID, recipe.ID))
	assert.ErrorIs(t, repo.Add(ctx, user.ID, recipe.ID), ErrAlreadyExists)

	require.NoError(t, repo.Remove(ctx, user.ID, recipe.ID))
	assert.ErrorIs(t, repo.Remove(ctx, user.ID, recipe.ID), ErrNotFound)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Favorite{}).Count(&count).Error)
	assert.Zero(t, count)
}
