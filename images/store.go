package images

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const recipesDir = "recipes"

// Store 將圖片存放於媒體資料夾
type Store struct {
	Dir       string
	URLPrefix string
}

func NewStore(dir, urlPrefix string) *Store {
	return &Store{Dir: dir, URLPrefix: urlPrefix}
}

// Save 儲存圖片，回傳相對於媒體資料夾的路徑
func (s *Store) Save(file *File) (string, error) {
	dir := filepath.Join(s.Dir, recipesDir)
	//檢查資料夾是否存在，如不存在則創建
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(dir, file.Name), file.Content, 0644); err != nil {
		return "", err
	}

	return path.Join(recipesDir, file.Name), nil
}

// URL 回傳圖片的公開網址
func (s *Store) URL(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimSuffix(s.URLPrefix, "/") + "/" + name
}

// Remove 刪除圖片，檔案不存在不視為錯誤
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
