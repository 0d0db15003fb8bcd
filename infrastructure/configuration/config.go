package configuration

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/FatihZee/tele-bot/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Telegram    Telegram    `json:"telegram"`
	Database    Database    `json:"database"`
	Extractor   Extractor   `json:"extractor"`
	Platforms   []Platform  `json:"platforms"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	RedisClient RedisClient `json:"redisClient"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port          int    `json:"port"`
	SecretKey     string `json:"secretKey"`
	AdminUser     string `json:"adminUser"`
	AdminPassword string `json:"adminPassword"`
	TempDir       string `json:"tempDir"`
}

type Telegram struct {
	BotToken string `json:"botToken"`
}

type Database struct {
	Vendor string `json:"vendor"`
	Mongo  Db     `json:"mongo"`
	Psql   Db     `json:"psql"`
	MySql  Db     `json:"mysql"`
	Mssql  Db     `json:"mssql"`
}

type Db struct {
	URI      string `json:"uri"`
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type Extractor struct {
	URL     string `json:"url"`
	APIKey  string `json:"apiKey"`
	APIHost string `json:"apiHost"`
}

// Platform is one URL-matching rule; converted to the domain rule type in main.
type Platform struct {
	Name     string   `json:"name"`
	Patterns []string `json:"patterns"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
}

type Logger struct {
	Format string `json:"format"`
}

var C Config

func init() {
	Reload()
}

// Reload re-merges the config file and the environment. main calls it again
// after LoadEnvFromFile, since package init runs before env files are read.
func Reload() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initTelegram(&C)
	initExtractor(&C)
	initPlatforms(&C)
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
			// Config file not found; env variables may still carry everything we need
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if v := os.Getenv("DB_VENDOR"); v != "" {
		C.Database.Vendor = v
	}
	if C.Database.Vendor == "" {
		C.Database.Vendor = "mongo"
	}

	// Mongo connection (primary store)
	if v := os.Getenv("MONGO_URI"); v != "" {
		C.Database.Mongo.URI = v
	}
	if v := os.Getenv("MONGO_DB_NAME"); v != "" {
		C.Database.Mongo.Name = v
	}
	if C.Database.Mongo.Name == "" {
		C.Database.Mongo.Name = "tele_bot"
	}

	// PostgreSQL pieces follow the plain DB_* variables
	if v := os.Getenv("DATABASE_URL"); v != "" {
		C.Database.Psql.URI = v
	}
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}

	// Optional MSSQL config via environment variables (for Azure SQL in production)
	if v := os.Getenv("MSSQL_URI"); v != "" {
		C.Database.Mssql.URI = v
	}
	if C.Database.Mssql.Name == "" {
		C.Database.Mssql.Name = os.Getenv("MSSQL_DB_NAME")
	}
	if C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = os.Getenv("MSSQL_HOST")
	}
	if C.Database.Mssql.User == "" {
		C.Database.Mssql.User = os.Getenv("MSSQL_USER")
	}
	if C.Database.Mssql.Password == "" {
		C.Database.Mssql.Password = os.Getenv("MSSQL_PASSWORD")
	}
	if C.Database.Mssql.Port == "" {
		if v := os.Getenv("MSSQL_PORT"); v != "" {
			C.Database.Mssql.Port = v
		} else {
			C.Database.Mssql.Port = "1433"
		}
	}

	// MySQL accepts a full DSN only
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		C.Database.MySql.URI = v
	}
}

func initApp(C *Config) {
	// Prefer SECRET_KEY from environment for JWT signing; overrides config file when provided
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	if v := os.Getenv("ADMIN_USER"); v != "" {
		C.App.AdminUser = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		C.App.AdminPassword = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 3000
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
		C.App.Port = 3000
	}
	if v := os.Getenv("TEMP_DIR"); v != "" {
		C.App.TempDir = v
	}
	if C.App.TempDir == "" {
		C.App.TempDir = os.TempDir()
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; admin API login will be rejected. Provide SECRET_KEY via environment.")
	}
}

func initTelegram(C *Config) {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		C.Telegram.BotToken = v
	}
}

func initExtractor(C *Config) {
	if v := os.Getenv("EXTRACTOR_URL"); v != "" {
		C.Extractor.URL = v
	}
	if v := os.Getenv("EXTRACTOR_API_KEY"); v != "" {
		C.Extractor.APIKey = v
	}
	if v := os.Getenv("EXTRACTOR_API_HOST"); v != "" {
		C.Extractor.APIHost = v
	}
}

// platformRulesErr records a malformed PLATFORM_RULES override from the last
// load. Validate surfaces it as a fatal configuration error.
var platformRulesErr error

func initPlatforms(C *Config) {
	platformRulesErr = nil
	// PLATFORM_RULES carries a raw JSON array and replaces the config file list
	v := os.Getenv("PLATFORM_RULES")
	if v == "" {
		return
	}
	var rules []Platform
	if err := json.Unmarshal([]byte(v), &rules); err != nil {
		platformRulesErr = fmt.Errorf("PLATFORM_RULES is not a valid JSON rule array: %w", err)
		return
	}
	C.Platforms = rules
}

// Validate reports the first required key the merged configuration is still
// missing. The caller treats a non-nil error as fatal.
func Validate(C *Config) error {
	if C.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.botToken is required (set BOT_TOKEN)")
	}
	if C.Extractor.URL == "" {
		return fmt.Errorf("extractor.url is required (set EXTRACTOR_URL)")
	}
	if C.Extractor.APIKey == "" {
		return fmt.Errorf("extractor.apiKey is required (set EXTRACTOR_API_KEY)")
	}
	if C.Extractor.APIHost == "" {
		return fmt.Errorf("extractor.apiHost is required (set EXTRACTOR_API_HOST)")
	}
	if platformRulesErr != nil {
		return platformRulesErr
	}
	if len(C.Platforms) == 0 {
		return fmt.Errorf("platforms requires at least one rule (set PLATFORM_RULES or list rules in the config file)")
	}
	for i, p := range C.Platforms {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("platforms[%d] needs a name", i)
		}
		if len(p.Patterns) == 0 {
			return fmt.Errorf("platforms rule %q needs at least one pattern", p.Name)
		}
		for _, pattern := range p.Patterns {
			if strings.TrimSpace(pattern) == "" {
				return fmt.Errorf("platforms rule %q has an empty pattern", p.Name)
			}
		}
	}
	switch C.Database.Vendor {
	case "mongo":
		if C.Database.Mongo.URI == "" && C.Database.Mongo.Host == "" {
			return fmt.Errorf("database.mongo needs a uri or host (set MONGO_URI)")
		}
	case "postgres":
		if C.Database.Psql.URI == "" && C.Database.Psql.Host == "" {
			return fmt.Errorf("database.psql needs a uri or host (set DATABASE_URL)")
		}
	case "mssql":
		if C.Database.Mssql.URI == "" && C.Database.Mssql.Host == "" {
			return fmt.Errorf("database.mssql needs a uri or host (set MSSQL_URI)")
		}
	case "mysql":
		if C.Database.MySql.URI == "" {
			return fmt.Errorf("database.mysql needs a dsn (set MYSQL_DSN)")
		}
	default:
		return fmt.Errorf("database.vendor %q is not one of mongo, postgres, mssql, mysql", C.Database.Vendor)
	}
	return nil
}
