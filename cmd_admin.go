package main

import (
	"errors"
	"fmt"
	"foodgram/handlers"
	"foodgram/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	errInvalidAdmin = errors.New("invalid admin account")

	adminParams adminAccount
)

type adminAccount struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "建立admin帳號，信箱已存在時升級為admin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadApp()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, closeDB, err := openDatabase(cfg.Database)
		if err != nil {
			return err
		}
		defer closeDB()

		user, err := createAdmin(db.WithContext(cmd.Context()), adminParams)
		if err != nil {
			return err
		}
		logger.Info("admin帳號已就緒", zap.Uint("id", user.ID), zap.String("email", user.Email))
		return nil
	},
}

func init() {
	flags := createAdminCmd.Flags()
	flags.StringVar(&adminParams.Email, "email", "", "信箱")
	flags.StringVar(&adminParams.Username, "username", "admin", "使用者名稱")
	flags.StringVar(&adminParams.Password, "password", "", "密碼")
	flags.StringVar(&adminParams.FirstName, "first-name", "Admin", "名字")
	flags.StringVar(&adminParams.LastName, "last-name", "Admin", "姓氏")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func createAdmin(db *gorm.DB, account adminAccount) (*models.User, error) {
	//檢查欄位是否合法
	switch {
	case !handlers.ValidateEmail(account.Email):
		return nil, fmt.Errorf("%w: email", errInvalidAdmin)
	case !handlers.ValidateUsername(account.Username):
		return nil, fmt.Errorf("%w: username", errInvalidAdmin)
	case !handlers.ValidatePassword(account.Password):
		return nil, fmt.Errorf("%w: password", errInvalidAdmin)
	case !handlers.ValidateName(account.FirstName) || !handlers.ValidateName(account.LastName):
		return nil, fmt.Errorf("%w: name", errInvalidAdmin)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = db.First(&user, "email = ?", account.Email).Error
	switch {
	case err == nil:
		//已存在則升級為admin並更新密碼
		err = db.Model(&user).
			Updates(map[string]interface{}{
				"role":     models.RoleAdmin,
				"password": string(hashedPassword),
			}).
			Error
		if err != nil {
			return nil, err
		}
		user.Role = models.RoleAdmin
		return &user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	user = models.User{
		Email:     account.Email,
		Username:  account.Username,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Password:  string(hashedPassword),
		Role:      models.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
