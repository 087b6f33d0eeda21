package config

type Config interface {
	EnvConfig
	CorsConfig
	AuthConfig
	TokenConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetRedisAddr() string
	GetEnv() string
	IsProduction() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Auth
	Token
}

func New() Config {
	return mainConfig{}
}
