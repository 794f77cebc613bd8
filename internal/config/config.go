package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BindAddr          string
	Env               string
	LogLevel          string
	MongoURI          string
	MongoDatabase     string
	JWTSecret         string
	AccessTokenTTL    time.Duration
	RateLimitRPS      float64
	RateLimitBurst    int
	MaxUploadBytes    int64
	UploadDir         string
	StorageBackend    string // "local" or "r2"
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Endpoint        string
	R2BucketName      string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	atMin := getEnv("ACCESS_TOKEN_MINUTES", "60")
	atM, _ := strconv.Atoi(atMin)

	rps, _ := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64)
	burst, _ := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20"))
	maxUpload, _ := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "1000000"), 10, 64)

	return &Config{
		BindAddr:          getEnv("BIND_ADDR", ":8080"),
		Env:               getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGO_DB", "bootcamps"),
		JWTSecret:         secret,
		AccessTokenTTL:    time.Duration(atM) * time.Minute,
		RateLimitRPS:      rps,
		RateLimitBurst:    burst,
		MaxUploadBytes:    maxUpload,
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		StorageBackend:    getEnv("STORAGE_BACKEND", "local"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2Endpoint:        os.Getenv("R2_ENDPOINT"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
	}, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
