package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Mode            string `mapstructure:"mode"`
	BaseURL         string `mapstructure:"base_url"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout_seconds"`
	Timezone        string `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects the gorm dialect with Driver ("sqlite" or "mysql").
// For sqlite, Database is the file path.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Database + "?_foreign_keys=on&_busy_timeout=5000"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type JWTConfig struct {
	Secret            string `mapstructure:"secret"`
	SessionExpMinutes int    `mapstructure:"session_exp_minutes"`
}

func (j JWTConfig) SessionTTL() time.Duration {
	return time.Duration(j.SessionExpMinutes) * time.Minute
}

type CookieConfig struct {
	Name     string `mapstructure:"name"`
	Domain   string `mapstructure:"domain"`
	Path     string `mapstructure:"path"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
}

// FlashConfig configures the cookie store that carries form action results
// across the post/redirect/get cycle.
type FlashConfig struct {
	Secret     string `mapstructure:"secret"`
	CookieName string `mapstructure:"cookie_name"`
}

type AuthConfig struct {
	Password PasswordConfig `mapstructure:"password"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Cookie   CookieConfig   `mapstructure:"cookie"`
	Flash    FlashConfig    `mapstructure:"flash"`

	// LoginAttemptsPerMinute limits login posts per client IP when redis
	// is enabled. Zero disables the limit.
	LoginAttemptsPerMinute int `mapstructure:"login_attempts_per_minute"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CacheConfig controls the rendered-view cache kept in redis.
type CacheConfig struct {
	ViewTTLSeconds int `mapstructure:"view_ttl_seconds"`
}

func (c CacheConfig) ViewTTL() time.Duration {
	return time.Duration(c.ViewTTLSeconds) * time.Second
}

// SLAConfig controls the background breach sweep. A zero interval disables it.
type SLAConfig struct {
	SweepIntervalSeconds int `mapstructure:"sweep_interval_seconds"`
}

func (s SLAConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalSeconds) * time.Second
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}
