package config

import "time"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Providers ProvidersConfig `yaml:"providers"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Session   SessionConfig   `yaml:"session"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxAudioBytes    int64         `yaml:"max_audio_bytes"`
	MaxImageBytes    int64         `yaml:"max_image_bytes"`
}

// ProvidersConfig holds the model provider settings. All four providers speak
// the OpenAI-compatible API surface (Groq in production), so one key and base
// URL cover them.
type ProvidersConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	STT     ProviderModel `yaml:"stt"`
	Chat    ProviderModel `yaml:"chat"`
	Vision  ProviderModel `yaml:"vision"`
	TTS     TTSModel      `yaml:"tts"`

	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

type ProviderModel struct {
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type TTSModel struct {
	Model         string        `yaml:"model"`
	Voice         string        `yaml:"voice"`
	FallbackModel string        `yaml:"fallback_model"`
	FallbackVoice string        `yaml:"fallback_voice"`
	Timeout       time.Duration `yaml:"timeout"`
}

type CircuitBreakerConfig struct {
	FailureThreshold      int           `yaml:"failure_threshold"`
	RecoveryProbeInterval time.Duration `yaml:"recovery_probe_interval"`
}

type PipelineConfig struct {
	// RequestTimeout bounds the whole run; a run that misses it still produces
	// a terminal record rather than an unhandled cancellation.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CacheSize      int           `yaml:"cache_size"`
	UITreeExcerpt  int           `yaml:"ui_tree_excerpt"`
}

type SessionConfig struct {
	// Backend selects the checkpoint store: memory, redis or postgres.
	Backend  string         `yaml:"backend"`
	TTL      time.Duration  `yaml:"ttl"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + itoa(d.Port) + "/" + d.Name + "?sslmode=disable"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	s := ""
	for i > 0 {
		s = string(rune('0'+i%10)) + s
		i /= 10
	}
	return s
}

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	MetricsPort    int    `yaml:"metrics_port"`
	MonitorHistory int    `yaml:"monitor_history"`
}

type RateLimitConfig struct {
	Enabled bool          `yaml:"enabled"`
	Limit   int64         `yaml:"limit"`
	Window  time.Duration `yaml:"window"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8000,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 30 * time.Second,
			MaxAudioBytes:    10 << 20,
			MaxImageBytes:    8 << 20,
		},
		Providers: ProvidersConfig{
			BaseURL: "https://api.groq.com/openai/v1",
			STT: ProviderModel{
				Model:   "whisper-large-v3-turbo",
				Timeout: 30 * time.Second,
			},
			Chat: ProviderModel{
				Model:   "llama-3.3-70b-versatile",
				Timeout: 30 * time.Second,
			},
			Vision: ProviderModel{
				Model:   "llama-4-maverick-17b-128e-instruct",
				Timeout: 60 * time.Second,
			},
			TTS: TTSModel{
				Model:         "playai-tts",
				Voice:         "Arista-PlayAI",
				FallbackModel: "playai-tts",
				FallbackVoice: "Fritz-PlayAI",
				Timeout:       30 * time.Second,
			},
			CircuitBreaker: CircuitBreakerConfig{
				FailureThreshold:      5,
				RecoveryProbeInterval: 15 * time.Second,
			},
		},
		Pipeline: PipelineConfig{
			RequestTimeout: 120 * time.Second,
			CacheSize:      50,
			UITreeExcerpt:  800,
		},
		Session: SessionConfig{
			Backend: "memory",
			TTL:     30 * time.Minute,
			Redis: RedisConfig{
				Address:  "localhost:6379",
				PoolSize: 50,
			},
			Database: DatabaseConfig{
				Host:            "localhost",
				Port:            5432,
				Name:            "aura",
				User:            "aura",
				MaxOpenConns:    25,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		Telemetry: TelemetryConfig{
			LogLevel:       "info",
			MetricsPort:    9090,
			MonitorHistory: 1000,
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
			Limit:   60,
			Window:  time.Minute,
		},
	}
}
