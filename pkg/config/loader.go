package config

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvInfo collects service names and paths from .env
type EnvInfo struct {
	// image name
	MemberService    string
	ChatService      string
	CommunityService string

	// service ports
	MemberServicePort    string
	ChatServicePort      string
	CommunityServicePort string

	// service yaml path
	MemberServiceYAMLPath    string
	ChatServiceYAMLPath      string
	CommunityServiceYAMLPath string

	// service log path
	MemberServiceLogPath    string
	ChatServiceLogPath      string
	CommunityServiceLogPath string
}

// EnvConfig is loaded once per process
var (
	EnvConfig = initEnv()
	envConfig EnvInfo
	once      sync.Once
	env       string
)

func initEnv() EnvInfo {
	once.Do(func() {
		path, err := GetPath(".env", 5)
		if err != nil {
			log.Printf("Warning: Could not get .env path: %v", err)
		}

		if err := godotenv.Load(path); err != nil {
			log.Printf("Warning: Could not load .env file: %v", err)
		}

		env = os.Getenv("ENV")

		envConfig = EnvInfo{
			MemberService:    os.Getenv("MEMBER_SERVICE"),
			ChatService:      os.Getenv("CHAT_SERVICE"),
			CommunityService: os.Getenv("COMMUNITY_SERVICE"),

			MemberServicePort:    os.Getenv("MEMBER_SERVICE_PORT"),
			ChatServicePort:      os.Getenv("CHAT_SERVICE_PORT"),
			CommunityServicePort: os.Getenv("COMMUNITY_SERVICE_PORT"),

			MemberServiceYAMLPath:    os.Getenv("MEMBER_SERVICE_YAML"),
			ChatServiceYAMLPath:      os.Getenv("CHAT_SERVICE_YAML"),
			CommunityServiceYAMLPath: os.Getenv("COMMUNITY_SERVICE_YAML"),

			MemberServiceLogPath:    os.Getenv("MEMBER_SERVICE_LOG"),
			ChatServiceLogPath:      os.Getenv("CHAT_SERVICE_LOG"),
			CommunityServiceLogPath: os.Getenv("COMMUNITY_SERVICE_LOG"),
		}
	})

	return envConfig
}

// IsProduction check run env
func IsProduction() bool {
	return env == "production"
}

// IsLocal check run env
func IsLocal() bool {
	return env == "local"
}

// LoadConfig reads <serviceName>.yaml from configPath, expands ${} env
// placeholders and unmarshals into T.
func LoadConfig[T any](serviceName string, configPath string) T {
	v := viper.New()
	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Error loading config file: %v", err)
	}

	rawConfig, err := os.ReadFile(v.ConfigFileUsed())
	if err != nil {
		log.Fatalf("Error reading raw config file: %v", err)
	}

	expandedConfig := os.ExpandEnv(string(rawConfig))

	if err := v.ReadConfig(bytes.NewBuffer([]byte(expandedConfig))); err != nil {
		log.Fatalf("Error reading expanded config: %v", err)
	}

	var cfg T
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Error unmarshaling config: %v", err)
	}
	return cfg
}

// GetPath walks up from the working directory looking for fileName.
func GetPath(fileName string, maxCount int) (string, error) {
	path := "./" + fileName

	for i := 0; i < maxCount; i++ {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		path = "../" + path
	}
	return "", errors.New(fileName + " can't find path")
}
