package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	Port       string `envconfig:"PORT" default:"8080"`
	SessionKey string `envconfig:"SESSION_KEY" default:"dev-insecure"`
	BaseURL    string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	DBDSN      string `envconfig:"DB_DSN"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"camisetaria"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// origem do frete; padrão é a loja em São Paulo
	StoreCEP    string `envconfig:"STORE_CEP" default:"03008020"`
	StoreCity   string `envconfig:"STORE_CITY" default:"São Paulo"`
	StoreState  string `envconfig:"STORE_STATE" default:"SP"`
	StoreRegion string `envconfig:"STORE_REGION" default:"Sudeste"`

	ViaCEPBaseURL string `envconfig:"VIACEP_BASE_URL" default:"https://viacep.com.br"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN monta a string de conexão quando DB_DSN não veio pronta do ambiente.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword +
		" dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=" + c.DBSSLMode
}
