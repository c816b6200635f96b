package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`
	RedisAddr   string `yaml:"redis_addr" env:"REDIS_ADDR"`
	HTTPServer  `yaml:"http_server"`
	Schedule    Schedule     `yaml:"schedule"`
	Spocs       []SpocConfig `yaml:"spocs"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

// Schedule controls the generated slot calendar: how many days ahead slots
// exist and which daily windows each spoc is bookable in.
type Schedule struct {
	HorizonDays int          `yaml:"horizon_days" env-default:"14"`
	Windows     []SlotWindow `yaml:"windows"`
}

type SlotWindow struct {
	StartHour int `yaml:"start_hour"`
	EndHour   int `yaml:"end_hour"`
}

type SpocConfig struct {
	SpocID         int    `yaml:"spoc_id"`
	Name           string `yaml:"name"`
	Expertise      string `yaml:"expertise"`
	Specialization string `yaml:"specialization"`
	Email          string `yaml:"email"`
	Phone          string `yaml:"phone"`
}

func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	if len(cfg.Schedule.Windows) == 0 {
		cfg.Schedule.Windows = []SlotWindow{
			{StartHour: 10, EndHour: 11},
			{StartHour: 14, EndHour: 15},
			{StartHour: 16, EndHour: 17},
		}
	}

	return &cfg
}
