package config

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"storefront/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

type Config struct {
	AppPort                string
	AppName                string
	StorageBackend         string
	DataFile               string
	MongoURI               string
	MongoDBName            string
	SeedCatalog            bool
	AdminSecret            string
	SessionSigningKey      string
	SessionTTL             time.Duration
	RequireAdminToken      bool
	StaticDir              string
	ExternalHTTP           string
	ExternalGRPC           string
	CartFile               string
	WhatsAppPhone          string
	RemoteLogHttpURI       string
	RemoteTraceRpcURI      string
	RemoteProfilingHttpURI string
}

// SafeConfig is the loggable view of Config, without secrets.
type SafeConfig struct {
	AppPort                string `json:"app_port"`
	AppName                string `json:"app_name"`
	StorageBackend         string `json:"storage_backend"`
	DataFile               string `json:"data_file"`
	MongoDBName            string `json:"mongo_db_name"`
	SeedCatalog            bool   `json:"seed_catalog"`
	SessionTTL             string `json:"session_ttl"`
	RequireAdminToken      bool   `json:"require_admin_token"`
	StaticDir              string `json:"static_dir"`
	ExternalHTTP           string `json:"external_http"`
	ExternalGRPC           string `json:"external_grpc"`
	CartFile               string `json:"cart_file"`
	RemoteLogHttpURI       string `json:"remote_log_http_uri"`
	RemoteTraceRpcURI      string `json:"remote_trace_rpc_uri"`
	RemoteProfilingHttpURI string `json:"remote_profiling_http_uri"`
}

func toSnake(s string) string {
	var out strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && s[i-1] != '_' {
				out.WriteRune('_')
			}
			out.WriteRune(unicode.ToLower(r))
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// StructAttrs("data", cfg) ➜ []slog.Attr{ slog.String("data.app_port", "3000"), ... }
func StructAttrs(prefix string, s any) []slog.Attr {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()

	attrs := make([]slog.Attr, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := prefix + "." + jsonKey(f)

		switch v.Field(i).Kind() {
		case reflect.String:
			attrs = append(attrs, slog.String(key, v.Field(i).String()))
		case reflect.Int, reflect.Int64, reflect.Int32:
			attrs = append(attrs, slog.Int64(key, v.Field(i).Int()))
		case reflect.Bool:
			attrs = append(attrs, slog.Bool(key, v.Field(i).Bool()))
		default:
			attrs = append(attrs, slog.Any(key, v.Field(i).Interface()))
		}
	}
	return attrs
}

func jsonKey(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return toSnake(f.Name)
}

func (c *Config) ToSafeConfig() SafeConfig {
	return SafeConfig{
		AppPort:                c.AppPort,
		AppName:                c.AppName,
		StorageBackend:         c.StorageBackend,
		DataFile:               c.DataFile,
		MongoDBName:            c.MongoDBName,
		SeedCatalog:            c.SeedCatalog,
		SessionTTL:             c.SessionTTL.String(),
		RequireAdminToken:      c.RequireAdminToken,
		StaticDir:              c.StaticDir,
		ExternalHTTP:           c.ExternalHTTP,
		ExternalGRPC:           c.ExternalGRPC,
		CartFile:               c.CartFile,
		RemoteLogHttpURI:       c.RemoteLogHttpURI,
		RemoteTraceRpcURI:      c.RemoteTraceRpcURI,
		RemoteProfilingHttpURI: c.RemoteProfilingHttpURI,
	}
}

var log = logger.Instance()
var (
	configInstance *Config
	configOnce     sync.Once
)

func getString(name, fallback string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return fallback
}

func getBool(name string, fallback bool) bool {
	val := os.Getenv(name)
	if val == "" {
		return fallback
	}
	b, err := cast.ToBoolE(val)
	if err != nil {
		log.Warn("Invalid boolean, using default", slog.String("var", name), slog.String("value", val))
		return fallback
	}
	return b
}

func getMinutes(name string, fallback time.Duration) time.Duration {
	val := os.Getenv(name)
	if val == "" {
		return fallback
	}
	n, err := cast.ToIntE(val)
	if err != nil || n <= 0 {
		log.Warn("Invalid minutes, using default", slog.String("var", name), slog.String("value", val))
		return fallback
	}
	return time.Duration(n) * time.Minute
}

// Load reads the environment (and an optional .env file) into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}

	cfg := &Config{
		AppPort:                getString("APP_PORT", "3000"),
		AppName:                getString("APP_NAME", "storefront"),
		StorageBackend:         strings.ToLower(getString("STORAGE_BACKEND", BackendFile)),
		DataFile:               getString("DATA_FILE", "products.json"),
		MongoURI:               os.Getenv("MONGO_URI"),
		MongoDBName:            os.Getenv("MONGO_DB_NAME"),
		SeedCatalog:            getBool("SEED_CATALOG", false),
		AdminSecret:            getString("ADMIN_SECRET", "123"),
		SessionSigningKey:      os.Getenv("SESSION_SIGNING_KEY"),
		SessionTTL:             getMinutes("SESSION_TTL_MINUTES", 8*time.Hour),
		RequireAdminToken:      getBool("REQUIRE_ADMIN_TOKEN", false),
		StaticDir:              os.Getenv("STATIC_DIR"),
		ExternalHTTP:           getString("EXTERNAL_HTTP", "http://localhost:3000"),
		ExternalGRPC:           getString("EXTERNAL_GRPC", "localhost:3001"),
		CartFile:               getString("CART_FILE", "cart.db"),
		WhatsAppPhone:          os.Getenv("WHATSAPP_PHONE"),
		RemoteLogHttpURI:       os.Getenv("REMOTE_LOG_HTTP_URI"),
		RemoteTraceRpcURI:      os.Getenv("REMOTE_TRACE_RPC_URI"),
		RemoteProfilingHttpURI: os.Getenv("REMOTE_PROFILING_HTTP_URI"),
	}

	if cfg.RemoteLogHttpURI == "" {
		log.Warn("Missing REMOTE_LOG_HTTP_URI will skip sending log")
	}
	if cfg.RemoteTraceRpcURI == "" {
		log.Warn("Missing REMOTE_TRACE_RPC_URI will export traces to stdout exporter")
	}
	if cfg.RemoteProfilingHttpURI == "" {
		log.Warn("Missing REMOTE_PROFILING_HTTP_URI will skip sending profiling")
	}

	var missing []string
	switch cfg.StorageBackend {
	case BackendFile:
		if cfg.DataFile == "" {
			missing = append(missing, "DATA_FILE")
		}
	case BackendMongo:
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
		if cfg.MongoDBName == "" {
			missing = append(missing, "MONGO_DB_NAME")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	if cfg.RequireAdminToken && cfg.SessionSigningKey == "" {
		missing = append(missing, "SESSION_SIGNING_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func Instance() *Config {
	configOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			log.Error("Invalid configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}
		configInstance = cfg

		attrs := StructAttrs("data", configInstance.ToSafeConfig())
		anyAttrs := make([]any, len(attrs))
		for i, a := range attrs {
			anyAttrs[i] = a
		}
		log.Info("Configuration loaded successfully", anyAttrs...)
	})

	return configInstance
}
