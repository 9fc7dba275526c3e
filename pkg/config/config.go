package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Wallet  WalletConfig  `mapstructure:"wallet"`
	Chain   ChainConfig   `mapstructure:"chain"`
	Backend BackendConfig `mapstructure:"backend"`
	Limit   LimitConfig   `mapstructure:"limit"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
}

type WalletConfig struct {
	Store       string `mapstructure:"store"`      // "file" or "redis"
	DataDir     string `mapstructure:"data_dir"`   // file store 根目录
	Passphrase  string `mapstructure:"passphrase"` // 应用级口令 (通常通过环境变量 WALLET_PASSPHRASE 传入)
	Language    string `mapstructure:"language"`   // 助记词词表语言
	EntropyBits int    `mapstructure:"entropy_bits"`
	ScryptN     int    `mapstructure:"scrypt_n"`
}

type ChainConfig struct {
	RpcUrl  string `mapstructure:"rpc_url"`
	ChainID int64  `mapstructure:"chain_id"`
}

type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LimitConfig struct {
	ModuleAddress string `mapstructure:"module_address"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type"` // "redis" or "kafka"
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

// WatchConfig 定时刷新已保存 Safe 的交易列表，schedule 为空时不启动
type WatchConfig struct {
	Schedule string `mapstructure:"schedule"` // cron 表达式，如 "@every 1m"
}

var Global Config

// Init 加载配置到 Global, 失败直接退出
// cfgFile 为空时在 . 与 ./config 下查找 config.yaml
func Init(cfgFile string) {
	cfg, err := Load(cfgFile)
	if err != nil {
		log.Fatalf("Fatal error config file: %s \n", err)
	}
	Global = cfg
	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

// Load 读取配置文件与环境变量，返回解析后的 Config
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// 环境变量设置
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
		log.Printf("Warning: Config file not found, using defaults and environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http_port", "8080")

	v.SetDefault("wallet.store", "file")
	v.SetDefault("wallet.data_dir", ".safe-authenticator")
	v.SetDefault("wallet.passphrase", "")
	v.SetDefault("wallet.language", "english")
	v.SetDefault("wallet.entropy_bits", 128)
	v.SetDefault("wallet.scrypt_n", 262144)

	v.SetDefault("chain.rpc_url", "http://localhost:8545")
	v.SetDefault("chain.chain_id", 1)

	v.SetDefault("backend.url", "http://localhost:8000")
	v.SetDefault("backend.timeout", "15s")

	v.SetDefault("limit.module_address", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.mq_type", "redis")

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})

	v.SetDefault("watch.schedule", "")
}
