package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort       string // Application port
	StoreBackend  string // Snapshot store backend: "json" or "mysql"
	DataFile      string // Snapshot file path for the json backend
	DBUser        string // Database user
	DBPassword    string // Database password
	DBHost        string // Database host
	DBPort        string // Database port
	DBName        string // Database name
	JWTSecret     string // JWT secret key
	RedisAddr     string // Redis server address, empty disables caching
	RedisPass     string // Redis password
	RedisDB       int    // Redis database number
	AdminUsername string // Seed admin username, empty skips seeding
	AdminPassword string // Seed admin password
	AdminEmail    string // Seed admin email
	IsProd        bool   // Is production environment
}

// DSN builds the MySQL data source name for the mysql backend
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	cfg := &Config{
		AppPort:       os.Getenv("APP_PORT"),          // Application port
		StoreBackend:  os.Getenv("STORE_BACKEND"),     // Snapshot store backend
		DataFile:      os.Getenv("DATA_FILE"),         // Snapshot file path
		DBUser:        os.Getenv("DB_USER"),           // Database user
		DBPassword:    os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:        os.Getenv("DB_HOST"),           // Database host
		DBPort:        os.Getenv("DB_PORT"),           // Database port
		DBName:        os.Getenv("DB_NAME"),           // Database name
		JWTSecret:     os.Getenv("JWT_SECRET"),        // JWT secret key
		RedisAddr:     os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:     os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:       redisDB,                        // Redis database number
		AdminUsername: os.Getenv("ADMIN_USERNAME"),    // Seed admin username
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),    // Seed admin password
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),       // Seed admin email
		IsProd:        os.Getenv("IS_PROD") == "true", // Is production environment
	}
	// Defaults for a zero-config local run
	if cfg.AppPort == "" {
		cfg.AppPort = "3000"
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = "json"
	}
	if cfg.DataFile == "" {
		cfg.DataFile = "data.json"
	}
	return cfg
}
