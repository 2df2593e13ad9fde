package main

import "github.com/spf13/cobra"

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "建立或更新資料表",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadApp()
		if err != nil {
			return err
		}
		defer logger.Sync()

		//SetupDatabase會執行AutoMigrate
		_, closeDB, err := openDatabase(cfg.Database)
		if err != nil {
			return err
		}
		defer closeDB()

		logger.Info("資料表遷移完成")
		return nil
	},
}
