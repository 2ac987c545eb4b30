// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package config

import (
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Application config structure. The shared secret and the output
// directories live here and are passed to components explicitly; there is
// no ambient global state.
type AppConfig struct {
	Name     string `mapstructure:"service_name" validate:"required"`
	Version  string `mapstructure:"version" validate:"required"`
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"required"`
	LogPath  string `mapstructure:"log_path" validate:"required"`

	// ApiKey is the static shared secret both sides present/verify.
	// Fixed for the process lifetime.
	ApiKey string `mapstructure:"api_key" validate:"required"`

	QuestionsFile string `mapstructure:"questions_file" validate:"required"`
	AnswersDir    string `mapstructure:"answers_dir" validate:"required"`
	LogsDir       string `mapstructure:"logs_dir" validate:"required"`

	// Client-side settings.
	ApiUrl         string `mapstructure:"api_url"`
	RequestTimeout int    `mapstructure:"request_timeout" validate:"required,min=1"`
}

// reading config and intializing configs for application
func InitConfig() (*viper.Viper, error) {
	vConfig := viper.NewWithOptions(viper.KeyDelimiter("__"))

	vConfig.AddConfigPath(".")
	vConfig.SetConfigName(".env")
	path := os.Getenv("ENV_PATH")
	if path != "" {
		log.Printf("env path %v", path)
		vConfig.SetConfigFile(path)
	}
	vConfig.SetConfigType("env")
	vConfig.AutomaticEnv()

	setDefault(vConfig)
	if err := vConfig.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		log.Printf("Reading from env varaibles.")
	}

	return vConfig, nil
}

func setDefault(v *viper.Viper) {
	// setting all default values
	v.SetDefault("SERVICE_NAME", "interview-recorder")
	v.SetDefault("VERSION", "0.0.1")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 8000)
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_PATH", "logs")

	v.SetDefault("QUESTIONS_FILE", "data/questions.txt")
	v.SetDefault("ANSWERS_DIR", "answers")
	v.SetDefault("LOGS_DIR", "session_logs")

	v.SetDefault("API_URL", "http://127.0.0.1:8000")
	v.SetDefault("REQUEST_TIMEOUT", 60)
}

// Getting application config from viper
func GetApplicationConfig(v *viper.Viper) (*AppConfig, error) {
	var config AppConfig
	err := v.Unmarshal(&config)
	if err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}

	// valdating the app config
	validate := validator.New()
	err = validate.Struct(&config)
	if err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}
	return &config, nil
}

// GetRequestTimeout returns the per-request client timeout as a duration.
func (c *AppConfig) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}
