package main

import (
	"context"
	"foodgram/config"
	"foodgram/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDBAt(t, filepath.Join(t.TempDir(), "test.db"))
}

func openTestDBAt(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := config.SetupDatabase(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     path,
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

func TestLoadIngredients(t *testing.T) {
	db := openTestDB(t)
	input := `[
		{"name": "абрикосовое варенье", "measurement_unit": "г"},
		{"name": "flour", "measurement_unit": "g"},
		{"name": "flour", "measurement_unit": "g"},
		{"name": "flour", "measurement_unit": "cup"}
	]`

	created, skipped, err := loadIngredients(db, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Equal(t, 1, skipped)

	//重複匯入只會略過
	created, skipped, err = loadIngredients(db, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 4, skipped)

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestLoadIngredientsRejectsInvalidInput(t *testing.T) {
	db := openTestDB(t)

	_, _, err := loadIngredients(db, strings.NewReader(`{"name": "flour"}`))
	assert.ErrorContains(t, err, "decode ingredients")

	_, _, err = loadIngredients(db, strings.NewReader(`[{"name": "salt", "measurement_unit": "g"}, {"name": ""}]`))
	assert.ErrorContains(t, err, "ingredient 1")

	//整批回滾
	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateAdmin(t *testing.T) {
	db := openTestDB(t)
	account := adminAccount{
		Email:     "boss@example.com",
		Username:  "boss",
		Password:  "Secret123!",
		FirstName: "Big",
		LastName:  "Boss",
	}

	user, err := createAdmin(db, account)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(account.Password)))

	//已存在的帳號升級並更新密碼
	require.NoError(t, db.Model(user).Update("role", models.RoleUser).Error)
	account.Password = "Another456!"
	again, err := createAdmin(db, account)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, models.RoleAdmin, stored.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Another456!")))

	account.Email = "not-an-email"
	_, err = createAdmin(db, account)
	assert.ErrorIs(t, err, errInvalidAdmin)
}

func TestOpenDatabaseClose(t *testing.T) {
	db, closeDB, err := openDatabase(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())

	require.NoError(t, closeDB())
	assert.Error(t, sqlDB.Ping())

	_, _, err = openDatabase(config.DatabaseConfig{Driver: "postgres"})
	assert.Error(t, err)
}

func TestLoadIngredientsCommand(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zap.NewNop()))
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "foodgram.db")
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
database:
  driver: "sqlite"
  path: "`+filepath.ToSlash(dbPath)+`"
  log_level: "silent"
log:
  level: "error"
`), 0644))
	dataFile := filepath.Join(dir, "ingredients.json")
	require.NoError(t, os.WriteFile(dataFile, []byte(`[{"name": "flour", "measurement_unit": "g"}]`), 0644))

	rootCmd.SetArgs([]string{"--config", configFile, "load-ingredients", dataFile})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	db := openTestDBAt(t, dbPath)
	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
