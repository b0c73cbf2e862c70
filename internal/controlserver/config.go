package controlserver

import (
	"errors"
	"os"

	"gopkg.in/yaml.v2"
)

type ServerConfig struct {
	Port int `yaml:"port"`
}

type EncoderConfig struct {
	MaxTableCapacity int `yaml:"max_table_capacity"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Encoder EncoderConfig `yaml:"encoder"`
	Logger  LoggerConfig  `yaml:"logger"`
}

func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server port is not set")
	}
	if c.Encoder.MaxTableCapacity < 0 {
		return errors.New("encoder max table capacity is negative")
	}
	if c.Logger.Level == "" {
		return errors.New("logger level is not set")
	}
	return nil
}

func LoadConfig(configFileName string) (*Config, error) {
	data, err := os.ReadFile(configFileName)
	if err != nil {
		return nil, err
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
