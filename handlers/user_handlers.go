package handlers

import (
	"errors"
	"foodgram/jwt"
	"foodgram/models"
	"foodgram/repository"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"net/http"
	"regexp"
	"unicode"
	"unicode/utf8"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
)

// 檢查使用者名稱是否合法
func ValidateUsername(username string) bool {
	if username == "" || utf8.RuneCountInString(username) > 150 {
		return false
	}
	//"me"為保留路徑
	if username == "me" {
		return false
	}
	return usernamePattern.MatchString(username)
}

// 檢查信箱是否合法
func ValidateEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	return emailPattern.MatchString(email)
}

// 檢查姓名長度
func ValidateName(name string) bool {
	return name != "" && utf8.RuneCountInString(name) <= 150
}

// 檢查密碼是否合法：8~128字元，不可全為數字，不可含空白
func ValidatePassword(password string) bool {
	length := utf8.RuneCountInString(password)
	if length < 8 || length > 128 {
		return false
	}

	allDigits := true
	for _, s := range password {
		if unicode.IsSpace(s) {
			return false
		}
		if !unicode.IsDigit(s) {
			allDigits = false
		}
	}
	return !allDigits
}

// 檢查使用者名稱是否重複
func IsUserNameExists(db *gorm.DB, username string) (bool, error) {
	var user models.User
	err := db.First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil //使用者名稱沒重複，不代表錯誤
		}
		return false, err //有錯誤
	}
	return true, nil //使用者名稱重複
}

// 檢查Email是否重複
func IsUserEmailExists(db *gorm.DB, email string) (bool, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil //信箱沒重複，不代表錯誤
		}
		return false, err //有錯誤
	}
	return true, nil //信箱重複
}

// 註冊使用者帳戶
func RegisterHandler(c *gin.Context, db *gorm.DB) {
	var req struct {
		Email     string `json:"email" binding:"required"`
		Username  string `json:"username" binding:"required"`
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Password  string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	//檢查使用者名稱是否合法
	if !ValidateUsername(req.Username) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "註冊失敗:不合法的使用者名稱",
		})
		return
	}

	//檢查信箱是否合法
	if !ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "註冊失敗:不合法的信箱",
		})
		return
	}

	//檢查姓名是否合法
	if !ValidateName(req.FirstName) || !ValidateName(req.LastName) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "註冊失敗:不合法的姓名",
		})
		return
	}

	//檢查密碼是否合法
	if !ValidatePassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "註冊失敗:不合法的密碼",
		})
		return
	}

	//檢查使用者名稱是否重複
	result, err := IsUserNameExists(db, req.Username)
	if err != nil {
		internalError(c, "註冊失敗:檢查使用者名稱失敗", err)
		return
	}
	if result {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "註冊失敗:使用者名稱已被使用",
		})
		return
	}

	//檢查Email是否重複
	result, err = IsUserEmailExists(db, req.Email)
	if err != nil {
		internalError(c, "註冊失敗:檢查信箱失敗", err)
		return
	}
	if result {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "註冊失敗:信箱已被使用",
		})
		return
	}

	//將密碼Hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		internalError(c, "無法生成Hashed密碼", err)
		return
	}

	newUser := models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashedPassword),
		Role:      models.RoleUser,
	}

	//將newUser儲存到資料庫
	if err := db.WithContext(c).Create(&newUser).Error; err != nil {
		internalError(c, "無法儲存使用者資料至資料庫", err)
		return
	}

	//成功註冊
	c.JSON(http.StatusCreated, gin.H{
		"email":      newUser.Email,
		"id":         newUser.ID,
		"username":   newUser.Username,
		"first_name": newUser.FirstName,
		"last_name":  newUser.LastName,
	})
}

// 以信箱及密碼登入，回傳auth_token
func LoginHandler(c *gin.Context, db *gorm.DB, tokens *jwt.TokenManager) {
	//從請求擷取信箱和密碼
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	//檢查是否有此帳號
	var user models.User
	err := db.WithContext(c).First(&user, "email = ?", loginReq.Email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "信箱或密碼錯誤",
			})
			return
		}
		internalError(c, "資料庫錯誤", err)
		return
	}

	//檢查密碼是否正確
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginReq.Password))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "信箱或密碼錯誤",
		})
		return
	}

	//生成JWT Token並儲存LoginToken
	token, err := tokens.IssueToken(db.WithContext(c), &user)
	if err != nil {
		internalError(c, "生成JWT Token錯誤", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"auth_token": token,
	})
}

// 登出，刪除此LoginToken
func LogOutHandler(c *gin.Context, db *gorm.DB) {
	token, exists := c.Get("Token")
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "無法取得Token",
		})
		return
	}

	deleted, err := jwt.RevokeToken(db.WithContext(c), token.(string))
	if err != nil {
		internalError(c, "資料庫錯誤", err)
		return
	}
	if !deleted {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "找不到此token或已登出",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// 查詢使用者列表
func GetUserListHandler(c *gin.Context, db *gorm.DB) {
	p, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "分頁參數錯誤",
			"error":   err.Error(),
		})
		return
	}

	var count int64
	if err := db.WithContext(c).Model(&models.User{}).Count(&count).Error; err != nil {
		internalError(c, "無法獲取使用者列表", err)
		return
	}

	var users []models.User
	err = db.WithContext(c).
		Order("id").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&users).
		Error
	if err != nil {
		internalError(c, "無法獲取使用者列表", err)
		return
	}

	authorIDs := make([]uint, 0, len(users))
	for _, user := range users {
		authorIDs = append(authorIDs, user.ID)
	}
	subscribed, err := repository.NewSubscriptionRepository(db).SubscribedTo(c, currentUserID(c), authorIDs)
	if err != nil {
		internalError(c, "無法查詢訂閱狀態", err)
		return
	}

	results := make([]userData, 0, len(users))
	for i := range users {
		results = append(results, newUserData(&users[i], subscribed[users[i].ID]))
	}
	c.JSON(http.StatusOK, newPageData(c, p, count, results))
}

func findUser(c *gin.Context, db *gorm.DB, id uint) (*models.User, bool) {
	var user models.User
	err := db.WithContext(c).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "找不到此使用者",
			})
			return nil, false
		}
		internalError(c, "查詢使用者資料失敗", err)
		return nil, false
	}
	return &user, true
}

func respondUser(c *gin.Context, db *gorm.DB, user *models.User) {
	subscribed, err := repository.NewSubscriptionRepository(db).SubscribedTo(c, currentUserID(c), []uint{user.ID})
	if err != nil {
		internalError(c, "無法查詢訂閱狀態", err)
		return
	}
	c.JSON(http.StatusOK, newUserData(user, subscribed[user.ID]))
}

// 查詢單一使用者資料
func GetUserHandler(c *gin.Context, db *gorm.DB) {
	id, err := paramID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "找不到此使用者",
		})
		return
	}

	user, ok := findUser(c, db, id)
	if !ok {
		return
	}
	respondUser(c, db, user)
}

// 查詢目前登入的使用者資料
func GetCurrentUserHandler(c *gin.Context, db *gorm.DB) {
	user, ok := findUser(c, db, currentUserID(c))
	if !ok {
		return
	}
	respondUser(c, db, user)
}

// 變更密碼
func SetPasswordHandler(c *gin.Context, db *gorm.DB) {
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	user, ok := findUser(c, db, currentUserID(c))
	if !ok {
		return
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "舊密碼錯誤",
		})
		return
	}

	if !ValidatePassword(req.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "不合法的新密碼",
		})
		return
	}

	//將密碼Hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		internalError(c, "無法生成Hashed密碼", err)
		return
	}

	err = db.WithContext(c).
		Model(user).
		Update("password", string(hashedPassword)).
		Error
	if err != nil {
		internalError(c, "無法更新密碼", err)
		return
	}

	c.Status(http.StatusNoContent)
}
