package configuration

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/elainedb/videofeed/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Cache       Cache       `json:"cache"`
	RedisClient RedisClient `json:"redisClient"`
	Database    Database    `json:"database"`
	YouTube     YouTube     `json:"youtube"`
	Geocoder    Geocoder    `json:"geocoder"`
	Auth        Auth        `json:"auth"`
}

type App struct {
	Port      int    `json:"port"`
	SecretKey string `json:"secretKey"`
}

// Cache selects the envelope store backend at startup. Anything other than
// the known backends degrades to the no-op store ("no caching"), never a crash.
type Cache struct {
	Backend string `json:"backend"` // redis, postgres, mssql, none
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Database struct {
	Psql  Db `json:"psql"`
	Mssql Db `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type YouTube struct {
	APIKey     string   `json:"apiKey"`
	ChannelIDs []string `json:"channelIds"`
	PerChannel int      `json:"perChannel"`
}

type Geocoder struct {
	BaseURL   string `json:"baseUrl"`
	UserAgent string `json:"userAgent"`
}

type Auth struct {
	GoogleClientID   string   `json:"googleClientId"`
	AuthorizedEmails []string `json:"authorizedEmails"`
}

var C Config

func init() {
	LoadConfig()
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}

	initApp(&C)
	initYouTube(&C)
	initAuth(&C)
}

func getConfig() string {
	name := "config"
	if env := os.Getenv("ENV"); env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10002
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		C.Cache.Backend = v
	}
	if C.Cache.Backend == "" {
		C.Cache.Backend = "redis"
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; session tokens cannot be issued. Provide SECRET_KEY via environment.")
	}
}

func initYouTube(C *Config) {
	C.YouTube.APIKey = getConfigValue(C.YouTube.APIKey, "YOUTUBE_API_KEY", "")
	if v := os.Getenv("YOUTUBE_CHANNEL_IDS"); v != "" {
		C.YouTube.ChannelIDs = splitList(v)
	}
	if C.YouTube.PerChannel == 0 {
		C.YouTube.PerChannel = 10
	}
	if C.Geocoder.BaseURL == "" {
		C.Geocoder.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if C.Geocoder.UserAgent == "" {
		C.Geocoder.UserAgent = "videofeed/1.0 (reverse-geocode)"
	}
}

func initAuth(C *Config) {
	C.Auth.GoogleClientID = getConfigValue(C.Auth.GoogleClientID, "GOOGLE_CLIENT_ID", "")
	emails, source := loadAuthorizedEmails(C.Auth.AuthorizedEmails)
	C.Auth.AuthorizedEmails = emails
	logger.GetLogger().WithFields(map[string]interface{}{
		"count":  len(emails),
		"source": source,
	}).Info("Authorized emails loaded")
}

// GetYouTubeAPIKey returns the configured API key or a configuration error
// naming the missing setting and its possible sources.
func GetYouTubeAPIKey() (string, error) {
	if C.YouTube.APIKey == "" {
		return "", fmt.Errorf("YouTube API key not configured: set YOUTUBE_API_KEY in the environment or youtube.apiKey in config.json")
	}
	return C.YouTube.APIKey, nil
}

// loadAuthorizedEmails resolves the allow-list with a documented precedence:
// 1) AUTHORIZED_EMAILS env (comma-separated)
// 2) auth.authorizedEmails from the viper config
// 3) authorized-emails.local.json (uncommitted file)
// 4) authorized-emails.local.example.json fallback
// 5) empty list: login stays blocked until configured
func loadAuthorizedEmails(fromConfig []string) ([]string, string) {
	if v := os.Getenv("AUTHORIZED_EMAILS"); v != "" {
		if list := splitList(v); len(list) > 0 {
			return list, "env"
		}
	}
	if len(fromConfig) > 0 {
		return fromConfig, "config"
	}
	if list := readEmailsFile("authorized-emails.local.json"); len(list) > 0 {
		return list, "authorized-emails.local.json"
	}
	if list := readEmailsFile("authorized-emails.local.example.json"); len(list) > 0 {
		logger.GetLogger().Warn("Using authorized-emails.local.example.json as fallback. Create authorized-emails.local.json or set AUTHORIZED_EMAILS to override.")
		return list, "authorized-emails.local.example.json"
	}
	logger.GetLogger().Warn("No authorized emails configured. Login will be blocked until configured.")
	return nil, "empty"
}

// readEmailsFile accepts either a bare JSON array or {"authorizedEmails": [...]}.
func readEmailsFile(path string) []string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var wrapped struct {
		AuthorizedEmails []string `json:"authorizedEmails"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.AuthorizedEmails
	}
	logger.GetLogger().WithField("file", path).Warn("Failed to parse authorized emails file")
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// getConfigValue gets value from environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}
