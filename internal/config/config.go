package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Port     string `yaml:"port"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	JWT struct {
		Secret     string `yaml:"secret"`
		Expiration string `yaml:"expiration"`
	} `yaml:"jwt"`
	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Sender   string `yaml:"sender"`
	} `yaml:"smtp"`
}

func LoadConfig(filePath string) (*Config, error) {
	config := &Config{}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}

	config.applyEnvOverrides()
	return config, nil
}

// applyEnvOverrides lets deploy environments override secrets without
// editing the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RAIL_PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("RAIL_DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("RAIL_JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("RAIL_SMTP_HOST"); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv("RAIL_SMTP_USERNAME"); v != "" {
		c.SMTP.Username = v
	}
	if v := os.Getenv("RAIL_SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv("RAIL_SMTP_SENDER"); v != "" {
		c.SMTP.Sender = v
	}
}

func InitConfig() *Config {
	// .env is optional, env vars may come from the environment directly
	_ = godotenv.Load()

	config, err := LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return config
}
