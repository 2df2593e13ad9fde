package main

import (
	"context"
	"fmt"
	"foodgram/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"os"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "foodgram",
	Short:         "Foodgram recipe sharing backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "設定檔路徑")
	rootCmd.AddCommand(serveCmd, migrateCmd, loadIngredientsCmd, createAdminCmd)
}

// 讀取設定並建立全域logger
func loadApp() (config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return cfg, nil, err
	}

	logger, err := config.SetupLogger(cfg.Log)
	if err != nil {
		return cfg, nil, err
	}
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}

// 連接資料庫，結束時須呼叫回傳的close釋放連線
func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, func() error, error) {
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	dbInstance, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return db, dbInstance.Close, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		zap.L().Error("執行失敗", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
