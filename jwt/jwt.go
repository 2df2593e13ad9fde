package jwt

import (
	"crypto/rsa"
	"errors"
	"foodgram/models"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"os"
	"time"
)

var ErrTokenRevoked = errors.New("token revoked")

// TokenManager 簽發並驗證RS256 Token
type TokenManager struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	ttl        time.Duration
}

func NewTokenManager(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, ttl time.Duration) *TokenManager {
	return &TokenManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		ttl:        ttl,
	}
}

// 從PEM檔讀取金鑰
func LoadTokenManager(privateKeyPath, publicKeyPath string, ttl time.Duration) (*TokenManager, error) {
	privateKey, err := loadPrivateKey(privateKeyPath)
	if err != nil {
		return nil, err
	}
	publicKey, err := loadPublicKey(publicKeyPath)
	if err != nil {
		return nil, err
	}
	return NewTokenManager(privateKey, publicKey, ttl), nil
}

// 讀取私鑰
func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
	if err != nil {
		return nil, err
	}

	return key, nil
}

// 讀取公鑰
func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(keyBytes)
	if err != nil {
		return nil, err
	}

	return key, nil
}

// 生成JWT Token，回傳Token及到期時間
func (m *TokenManager) GenerateToken(userID uint, role string) (string, time.Time, error) {
	expTime := time.Now().Add(m.ttl)

	token := jwt.New(jwt.SigningMethodRS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userID"] = userID
	claims["exp"] = expTime.Unix()
	claims["role"] = role

	tokenString, err := token.SignedString(m.privateKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expTime, nil
}

// IssueToken 生成Token並儲存LoginToken
func (m *TokenManager) IssueToken(db *gorm.DB, user *models.User) (string, error) {
	token, expTime, err := m.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", err
	}

	loginToken := models.LoginToken{
		Token:          token,
		ExpirationTime: expTime,
		UserID:         user.ID,
		Role:           user.Role,
	}
	if err := db.Create(&loginToken).Error; err != nil {
		return "", err
	}

	return token, nil
}

// 驗證JWT Token並回傳UserID及使用者目前的Role
func (m *TokenManager) VerifyToken(tokenString string, db *gorm.DB) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return m.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		return 0, "", err
	}

	if !token.Valid {
		return 0, "", jwt.ErrTokenSignatureInvalid
	}

	//從資料庫檢查Token是否刪除
	var loginToken models.LoginToken
	err = db.Where("token = ?", tokenString).First(&loginToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, "", ErrTokenRevoked
		}
		return 0, "", err
	}

	claims := token.Claims.(jwt.MapClaims)
	userIDClaim, ok := claims["userID"].(float64)
	if !ok || uint(userIDClaim) != loginToken.UserID {
		return 0, "", jwt.ErrTokenInvalidClaims
	}

	//角色以使用者目前資料為準，升級或降級立即生效
	var user models.User
	err = db.Select("id", "role").First(&user, loginToken.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, "", ErrTokenRevoked
		}
		return 0, "", err
	}

	return user.ID, user.Role, nil
}

// RevokeToken 刪除LoginToken，回傳是否有刪除
func RevokeToken(db *gorm.DB, tokenString string) (bool, error) {
	result := db.Unscoped().Where("token = ?", tokenString).Delete(&models.LoginToken{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
