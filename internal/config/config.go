package config

import (
	"github.com/spf13/viper"
)

// Config holds every setting the application reads at startup. Values come
// from a .env file in the given path or from the environment, environment
// taking precedence.
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"` // frontend origin, used for CORS and share links

	GoogleMapsAPIKey string `mapstructure:"GOOGLE_MAPS_API_KEY"`

	AWSRegion string `mapstructure:"AWS_REGION"`
	EmailFrom string `mapstructure:"EMAIL_FROM"` // verified SES sender, empty disables share emails

	// SharePolicy controls share-code creation: "single" returns the existing
	// live code for an itinerary, "append" inserts a new code on every call.
	SharePolicy string `mapstructure:"SHARE_POLICY"`

	// DaySeedPolicy controls what days after day 1 are seeded with at
	// itinerary creation: "hotel" adds a zero-stay hotel stop at the day
	// start, "none" leaves them empty.
	DaySeedPolicy string `mapstructure:"DAY_SEED_POLICY"`
}

// LoadConfig reads configuration from <path>/.env and the environment.
func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	viper.SetDefault("SHARE_POLICY", "single")
	viper.SetDefault("DAY_SEED_POLICY", "hotel")

	// Register env-only keys so AutomaticEnv picks them up during Unmarshal.
	for _, key := range []string{
		"DATABASE_URL", "JWT_SECRET", "GOOGLE_MAPS_API_KEY",
		"AWS_REGION", "EMAIL_FROM",
	} {
		viper.SetDefault(key, "")
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing .env file is fine; the environment is authoritative.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
