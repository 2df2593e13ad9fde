package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	MediaDir     string   `yaml:"media_dir"`
	MediaURL     string   `yaml:"media_url"`
	FontPath     string   `yaml:"font_path"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	// sqlite資料庫檔案
	Path string `yaml:"path"`
	// silent, error, warn, info
	LogLevel string `yaml:"log_level"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	Database int           `yaml:"database"`
	TTL      time.Duration `yaml:"ttl"`
}

type JWTConfig struct {
	PrivateKeyPath string        `yaml:"private_key_path"`
	PublicKeyPath  string        `yaml:"public_key_path"`
	TTL            time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
}

// 設定檔缺少的欄位使用預設值
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:     ":8000",
			MediaDir: "./media",
			MediaURL: "/media/",
			FontPath: "fonts/DejaVuSans.ttf",
		},
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Path:     "foodgram.db",
			Host:     "127.0.0.1",
			Port:     "3306",
			LogLevel: "warn",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
			TTL:  10 * time.Minute,
		},
		JWT: JWTConfig{
			PrivateKeyPath: "jwt/private_key.pem",
			PublicKeyPath:  "jwt/public_key.pem",
			TTL:            24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// 讀取設定檔，再以.env及FOODGRAM_*環境變數覆蓋
// 設定檔或.env不存在時不視為錯誤
func LoadConfig(filename string) (Config, error) {
	config := Default()

	file, err := os.Open(filename)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
			return config, err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return config, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, err
	}
	if err := applyEnv(&config); err != nil {
		return config, err
	}

	return config, nil
}

func applyEnv(config *Config) error {
	overrides := map[string]*string{
		"FOODGRAM_ADDR":            &config.Server.Addr,
		"FOODGRAM_MEDIA_DIR":       &config.Server.MediaDir,
		"FOODGRAM_MEDIA_URL":       &config.Server.MediaURL,
		"FOODGRAM_FONT_PATH":       &config.Server.FontPath,
		"FOODGRAM_DB_DRIVER":       &config.Database.Driver,
		"FOODGRAM_DB_USERNAME":     &config.Database.Username,
		"FOODGRAM_DB_PASSWORD":     &config.Database.Password,
		"FOODGRAM_DB_HOST":         &config.Database.Host,
		"FOODGRAM_DB_PORT":         &config.Database.Port,
		"FOODGRAM_DB_NAME":         &config.Database.Database,
		"FOODGRAM_DB_PATH":         &config.Database.Path,
		"FOODGRAM_REDIS_ADDR":      &config.Redis.Addr,
		"FOODGRAM_REDIS_PASSWORD":  &config.Redis.Password,
		"FOODGRAM_JWT_PRIVATE_KEY": &config.JWT.PrivateKeyPath,
		"FOODGRAM_JWT_PUBLIC_KEY":  &config.JWT.PublicKeyPath,
		"FOODGRAM_LOG_LEVEL":       &config.Log.Level,
		"FOODGRAM_DB_LOG_LEVEL":    &config.Database.LogLevel,
	}
	for key, target := range overrides {
		if v, ok := os.LookupEnv(key); ok {
			*target = v
		}
	}

	if v, ok := os.LookupEnv("FOODGRAM_REDIS_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FOODGRAM_REDIS_ENABLED: %w", err)
		}
		config.Redis.Enabled = enabled
	}
	if v, ok := os.LookupEnv("FOODGRAM_REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FOODGRAM_REDIS_DB: %w", err)
		}
		config.Redis.Database = db
	}
	if v, ok := os.LookupEnv("FOODGRAM_JWT_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FOODGRAM_JWT_TTL: %w", err)
		}
		config.JWT.TTL = ttl
	}
	return nil
}
