package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Policy   PolicyConfig   `yaml:"policy"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds bearer-token settings. Tokens are issued upstream; this
// service only validates them and reads the actor id + admin claim.
type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"     env:"AUTH_JWT_SECRET"     env-required:"true"`
	JWTIssuer    string        `yaml:"jwt_issuer"     env:"AUTH_JWT_ISSUER"     env-default:"nkhrm"`
	JWTAccessTTL time.Duration `yaml:"jwt_access_ttl" env:"AUTH_JWT_ACCESS_TTL" env-default:"1h"`
}

// PolicyConfig holds salary-policy engine settings.
type PolicyConfig struct {
	// DedupWindow is how far back batch creation looks for an identical empty
	// draft before treating the request as a double-submit.
	DedupWindow   time.Duration `yaml:"dedup_window"    env:"POLICY_DEDUP_WINDOW"    env-default:"3s"`
	ImportMaxRows int           `yaml:"import_max_rows" env:"POLICY_IMPORT_MAX_ROWS" env-default:"10000"`
	// EmployeeKeyHeader is the human alias accepted for the identity column in
	// spreadsheet imports.
	EmployeeKeyHeader string `yaml:"employee_key_header" env:"POLICY_EMPLOYEE_KEY_HEADER" env-default:"Số CCCD"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
