package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`

	// Storage. STORE_DRIVER is "memory" (mock catalog) or "mongo".
	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	// Redis configuration.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB  int    `mapstructure:"REDIS_SESSION_DB"`
	RedisLocationDB int    `mapstructure:"REDIS_LOCATION_DB"`
	RedisQueueDB    int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking.
	BookingSessionTTL        time.Duration `mapstructure:"BOOKING_SESSION_TTL"`
	DefaultSearchRadiusMiles float64       `mapstructure:"DEFAULT_SEARCH_RADIUS_MILES"`
	ReminderLeadTime         time.Duration `mapstructure:"REMINDER_LEAD_TIME"`

	// Google Maps API Key, used for geocoding. Empty means the city table only.
	GoogleAPIKey         string `mapstructure:"GOOGLE_API_KEY"`
	IPGeolocationEnabled bool   `mapstructure:"IP_GEOLOCATION_ENABLED"`

	// Notifications: "log" or "fcm".
	Notifier                string `mapstructure:"NOTIFIER"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("STORE_DRIVER", "memory")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "medconnect")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_SESSION_DB", 0)
	v.SetDefault("REDIS_LOCATION_DB", 1)
	v.SetDefault("REDIS_QUEUE_DB", 2)
	v.SetDefault("BOOKING_SESSION_TTL", "15m")
	v.SetDefault("DEFAULT_SEARCH_RADIUS_MILES", 50)
	v.SetDefault("REMINDER_LEAD_TIME", "24h")
	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("IP_GEOLOCATION_ENABLED", false)
	v.SetDefault("NOTIFIER", "log")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
}

// Load reads configuration from an optional config.yaml and the environment into a Config.
func Load(v *viper.Viper, paths ...string) (Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig populates AppConfig from "config.yaml" in the current and "config" directory
// and the environment.
func LoadConfig() {
	cfg, err := Load(viper.GetViper(), ".", "./config")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
