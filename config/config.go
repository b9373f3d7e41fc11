package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contiene la configuración de la aplicación
type Config struct {
	Port string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDSN      string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CookieSecure    bool

	SessionStore  string
	MemcachedHost string
	RedisURL      string

	RabbitMQURL     string
	PropertiesQueue string

	LogLevel  string
	LogFormat string

	LoginRateLimit int
	LoginBurst     int
	MaxUploadBytes int64

	AdminEmail    string
	AdminPassword string
}

// LoadConfig carga la configuración desde variables de entorno con valores por defecto
func LoadConfig() *Config {
	cfg := &Config{
		Port: getEnv("SERVER_PORT", "8080"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "booking_user"),
		DBPassword: getEnv("DB_PASSWORD", "booking_password"),
		DBName:     getEnv("DB_NAME", "booking_db"),
		DBDSN:      getEnv("DB_DSN", ""),

		JWTSecret:       getEnv("JWT_SECRET", "default-secret-change-in-production"),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		CookieSecure:    getBool("COOKIE_SECURE", true),

		SessionStore:  strings.ToLower(getEnv("SESSION_STORE", "memory")),
		MemcachedHost: getEnv("MEMCACHED_HOST", "localhost:11211"),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),

		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		PropertiesQueue: getEnv("PROPERTIES_QUEUE", "properties_queue"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		LoginRateLimit: getInt("LOGIN_RATE_LIMIT", 5),
		LoginBurst:     getInt("LOGIN_BURST", 10),
		MaxUploadBytes: int64(getInt("MAX_UPLOAD_BYTES", 5*1024*1024)),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@booking.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
	return cfg
}

// DSN arma el string de conexión según el driver configurado.
// DB_DSN tiene prioridad sobre los campos individuales.
func (c *Config) DSN() (string, error) {
	if c.DBDSN != "" {
		return c.DBDSN, nil
	}

	switch c.DBDriver {
	case "mysql":
		// usuario:password@tcp(host:puerto)/base_de_datos?opciones
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName), nil
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName), nil
	case "sqlite":
		return c.DBName + ".db", nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
}

// getEnv obtiene una variable de entorno o retorna un valor por defecto
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
