package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ClientConfig 是命令行客户端的配置，对应 config.yaml 中的字段
type ClientConfig struct {
	Server    string `mapstructure:"server"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	CachePath string `mapstructure:"cache_path"`
	Timezone  string `mapstructure:"timezone"`
	LogFile   string `mapstructure:"log_file"`
}

// Location 解析 Timezone，无法识别时回退到 UTC。
func (c ClientConfig) Location() (*time.Location, error) {
	return loadLocation(c.Timezone)
}

// ClientFlags 注册客户端支持的命令行参数
func ClientFlags(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("config", "", "config file (default ~/.moodlog/config.yaml or ./config.yaml)")
	flags.String("server", "", "server base URL")
	flags.String("username", "", "account username")
	flags.String("password", "", "account password")
	flags.String("cache-path", "", "local bolt cache file")
	flags.String("timezone", "", "IANA timezone used for day boundaries")
	return flags
}

// LoadClient 依次合并默认值、配置文件、MOODLOG_* 环境变量与命令行参数，后者优先。
// 找不到配置文件不算错误。
func LoadClient(flags *pflag.FlagSet) (ClientConfig, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".moodlog")
	v.SetDefault("server", "http://localhost:8080")
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("cache_path", filepath.Join(dataDir, "cache.db"))
	v.SetDefault("timezone", "UTC")
	v.SetDefault("log_file", filepath.Join(dataDir, "moodlog.log"))

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dataDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("moodlog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, flag := range map[string]string{
			"server":     "server",
			"username":   "username",
			"password":   "password",
			"cache_path": "cache-path",
			"timezone":   "timezone",
		} {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return ClientConfig{}, err
				}
			}
		}
		if path, err := flags.GetString("config"); err == nil && strings.TrimSpace(path) != "" {
			v.SetConfigFile(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return ClientConfig{}, err
		}
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ClientConfig{}, err
	}
	cfg.Server = strings.TrimRight(strings.TrimSpace(cfg.Server), "/")
	cfg.Username = strings.TrimSpace(cfg.Username)
	return cfg, nil
}
