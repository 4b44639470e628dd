package config

import "github.com/caarlos0/env/v11"

// Config параметры сервиса, читаются из окружения
type Config struct {
	Addr   string `env:"ADDR" envDefault:":9091"`
	DBPath string `env:"DB_PATH" envDefault:"shop.db"`
	Seed   bool   `env:"SEED" envDefault:"true"`
}

func Load() (Config, error) {
	return env.ParseAs[Config]()
}
