package config

import (
	"os"
	"time"

	"github.com/pelletier/go-toml"
)

type Custom struct {
	Node struct {
		Host string `toml:"host"`
		Port int    `toml:"port"`
	} `toml:"node"`
	Client struct {
		ConnectTimeout    time.Duration `toml:"-"`
		ConnectTimeoutSec int           `toml:"connect-timeout"`
		ReadTimeout       time.Duration `toml:"-"`
		ReadTimeoutSec    int           `toml:"read-timeout"`
		WriteTimeout      time.Duration `toml:"-"`
		WriteTimeoutSec   int           `toml:"write-timeout"`
	} `toml:"client"`
	Log struct {
		Level  int    `toml:"level"`
		Filter string `toml:"filter"`
	} `toml:"log"`
}

func Initialize(file string) (*Custom, error) {
	f, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var config Custom
	err = toml.Unmarshal(f, &config)
	if err != nil {
		return nil, err
	}
	if config.Node.Port == 0 {
		config.Node.Port = DefaultNodePort
	}
	config.Client.ConnectTimeout = time.Duration(config.Client.ConnectTimeoutSec) * time.Second
	if config.Client.ConnectTimeout == 0 {
		config.Client.ConnectTimeout = DefaultConnectTimeout
	}
	config.Client.ReadTimeout = time.Duration(config.Client.ReadTimeoutSec) * time.Second
	if config.Client.ReadTimeout == 0 {
		config.Client.ReadTimeout = DefaultReadTimeout
	}
	config.Client.WriteTimeout = time.Duration(config.Client.WriteTimeoutSec) * time.Second
	if config.Client.WriteTimeout == 0 {
		config.Client.WriteTimeout = DefaultWriteTimeout
	}
	return &config, nil
}
