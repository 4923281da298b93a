package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DataDir string

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string

	JWTSecret         string
	AdminUser         string
	AdminPassword     string
	AdminPasswordHash string
	ReceiptSecret     string

	GeminiAPIKey string
	GeminiModel  string

	ImageBackend  string
	DriveFolderID string
	CloudinaryURL string
	S3Bucket      string
	AWSRegion     string

	BundleDuplicates     string
	BundleCapacityPolicy string

	AllowedOrigins []string
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	port := getenv("PORT", ":8080")
	if port[0] != ':' {
		port = ":" + port
	}

	return Config{
		Port:    port,
		DataDir: getenv("DATA_DIR", "./data"),

		MongoURI: os.Getenv("MONGODB_URI"),
		MongoDB:  getenv("MONGODB_DB", "dollardash"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:         getenv("JWT_SECRET", "your_secret_key"),
		AdminUser:         getenv("ADMIN_USER", "admin"),
		AdminPassword:     getenv("ADMIN_PASSWORD", "admin123"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		ReceiptSecret:     getenv("RECEIPT_SECRET", "dollardash-receipts"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-2.5-flash"),

		ImageBackend:  strings.ToLower(getenv("IMAGE_BACKEND", "drive")),
		DriveFolderID: os.Getenv("DRIVE_FOLDER_ID"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		AWSRegion:     getenv("AWS_REGION", "us-east-1"),

		BundleDuplicates:     strings.ToLower(getenv("BUNDLE_DUPLICATES", "allow")),
		BundleCapacityPolicy: strings.ToLower(getenv("BUNDLE_CAPACITY_POLICY", "preserve")),

		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", defaultOrigins)),
	}
}

const defaultOrigins = "http://localhost:3000,http://localhost:5173"

// AllowCredentials reports whether CORS may send credentials. A wildcard
// origin never does.
func (c Config) AllowCredentials() bool {
	if len(c.AllowedOrigins) == 0 {
		return false
	}
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return false
		}
	}
	return true
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
