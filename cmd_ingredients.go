package main

import (
	"encoding/json"
	"fmt"
	"foodgram/handlers"
	"foodgram/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"io"
	"os"
)

var loadIngredientsCmd = &cobra.Command{
	Use:   "load-ingredients <file.json>",
	Short: "從JSON檔匯入食材",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadApp()
		if err != nil {
			return err
		}
		defer logger.Sync()

		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		db, closeDB, err := openDatabase(cfg.Database)
		if err != nil {
			return err
		}
		defer closeDB()

		created, skipped, err := loadIngredients(db.WithContext(cmd.Context()), file)
		if err != nil {
			return err
		}
		logger.Info("食材匯入完成", zap.Int("created", created), zap.Int("skipped", skipped))
		return nil
	},
}

// 匯入 [{"name": ..., "measurement_unit": ...}]，已存在的食材略過
func loadIngredients(db *gorm.DB, r io.Reader) (created, skipped int, err error) {
	var items []struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return 0, 0, fmt.Errorf("decode ingredients: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for i, item := range items {
			if item.Name == "" || item.MeasurementUnit == "" {
				return fmt.Errorf("ingredient %d: name and measurement_unit are required", i)
			}
			ingredient := models.Ingredient{Name: item.Name, MeasurementUnit: item.MeasurementUnit}
			ok, err := handlers.CreateIngredient(tx, &ingredient)
			if err != nil {
				return fmt.Errorf("ingredient %q: %w", item.Name, err)
			}
			if ok {
				created++
			} else {
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return created, skipped, nil
}
