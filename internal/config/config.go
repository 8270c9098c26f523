package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/A4AMEEN/Couples-Chat-Server/pkg/config"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/database"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/log"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/storage"
)

type Config struct {
	Server    ServerConfig
	JWT       JWTConfig
	WebSocket WebSocketConfig
	Database  database.Config
	Redis     RedisConfig
	Push      PushConfig
	Storage   StorageConfig
	Timeouts  TimeoutConfig
	Log       log.Config
}

type ServerConfig struct {
	Host string
	Port int
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Duration time.Duration
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
	SendQueueSize  int           `mapstructure:"send_queue_size"`
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	Prefix   string
}

type PushConfig struct {
	VAPIDPublicKey  string `mapstructure:"vapid_public_key"`
	VAPIDPrivateKey string `mapstructure:"vapid_private_key"`
	Subject         string // mailto: contact required by the push service
	TTL             int    // seconds the push service may hold a notification
}

type StorageConfig struct {
	Driver string // local, s3
	Local  storage.LocalConfig
	S3     storage.S3Config
}

type TimeoutConfig struct {
	Ledger time.Duration
	Push   time.Duration
}

// Load reads the service configuration with defaults and env overrides.
func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("jwt.issuer", "couples-chat")
	v.SetDefault("jwt.duration", "168h")
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 65536)
	v.SetDefault("websocket.send_queue_size", 256)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.file_path", "./data/chat.db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "chat:status")
	v.SetDefault("push.subject", "mailto:admin@example.com")
	v.SetDefault("push.ttl", 60)
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.base_path", "./data/media")
	v.SetDefault("timeouts.ledger", "5s")
	v.SetDefault("timeouts.push", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.service_name", "couples-chat-server")

	v.BindEnv("server.port", "PORT")
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("push.vapid_public_key", "VAPID_PUBLIC_KEY")
	v.BindEnv("push.vapid_private_key", "VAPID_PRIVATE_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.Duration = parseDuration(v, "jwt.duration", 168*time.Hour)
	cfg.WebSocket.PingInterval = parseDuration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = parseDuration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = parseDuration(v, "websocket.write_wait", 10*time.Second)
	cfg.Timeouts.Ledger = parseDuration(v, "timeouts.ledger", 5*time.Second)
	cfg.Timeouts.Push = parseDuration(v, "timeouts.push", 10*time.Second)

	return &cfg, nil
}

func parseDuration(v *viper.Viper, key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return defaultVal
	}
	return d
}
