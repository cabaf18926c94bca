// Package config 包含go-qqessentials操作配置文件的相关函数
package config

import (
	_ "embed" // embed the default config file
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/qqessentials/go-qqessentials/internal/param"
)

// defaultConfig 默认配置文件
//
//go:embed default_config.yml
var defaultConfig string

// DefaultConfigFile 默认配置文件路径
const DefaultConfigFile = "config.yml"

// 连接方式
const (
	ModeWebsocket        = "ws"
	ModeWebsocketReverse = "ws-reverse"
)

// ErrGenerated 未找到配置文件, 已生成默认配置
var ErrGenerated = errors.New("default config generated")

// MiddleWares 通信中间件
type MiddleWares struct {
	Filter    string `yaml:"filter"`
	RateLimit struct {
		Enabled   bool    `yaml:"enabled"`
		Frequency float64 `yaml:"frequency"`
		Bucket    int     `yaml:"bucket"`
	} `yaml:"rate-limit"`
}

// Gateway 与 OneBot 实现的连接配置
type Gateway struct {
	Mode              string `yaml:"mode"`
	URL               string `yaml:"url"`
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	Path              string `yaml:"path"`
	AccessToken       string `yaml:"access-token"`
	ReconnectInterval int    `yaml:"reconnect-interval"`
	Timeout           int    `yaml:"timeout"`

	MiddleWares `yaml:"middlewares"`
}

// Essentials 插件配置
type Essentials struct {
	EnableGroupRequestNotify bool    `yaml:"enable-group-request-notify"`
	GroupRequestNotifyTarget []int64 `yaml:"group-request-notify-target"`
}

// Pprof pprof性能分析服务器相关配置
type Pprof struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Config 总配置文件
type Config struct {
	Gateway      Gateway    `yaml:"gateway"`
	Superusers   []int64    `yaml:"superusers"`
	CommandStart []string   `yaml:"command-start"`
	Essentials   Essentials `yaml:"qqessentials"`

	Output struct {
		LogLevel    string `yaml:"log-level"`
		LogAging    int    `yaml:"log-aging"`
		LogForceNew bool   `yaml:"log-force-new"`
		LogColorful bool   `yaml:"log-colorful"`
		Debug       bool   `yaml:"debug"`
	} `yaml:"output"`

	Pprof Pprof `yaml:"pprof"`
}

// Parse 从指定路径读取配置文件
//
// 文件不存在时写出默认配置并返回 ErrGenerated
func Parse(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("加载 .env 文件失败: %v", err)
	}
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err = os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
			return nil, errors.Wrap(err, "write default config")
		}
		return nil, ErrGenerated
	}
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	conf, err := Load(string(content), os.Getenv)
	if err != nil {
		return nil, err
	}

	// load config from environment variable
	param.SetExcludeDefault(&conf.Gateway.AccessToken, os.Getenv("QQE_ACCESS_TOKEN"), "")
	param.SetExcludeDefault(&conf.Output.Debug, param.EnsureBool(os.Getenv("QQE_DEBUG"), false), false)
	if s := os.Getenv("QQE_SUPERUSERS"); s != "" {
		conf.Superusers = append(conf.Superusers, param.SplitInt64(s)...)
	}
	return conf, nil
}

// Load 展开环境变量引用后解析配置内容, 未设置的项使用默认值
func Load(content string, getenv func(string) string) (*Config, error) {
	conf := &Config{}
	if err := yaml.Unmarshal([]byte(defaultConfig), conf); err != nil {
		return nil, errors.Wrap(err, "parse default config")
	}
	if err := yaml.Unmarshal([]byte(expand(content, getenv)), conf); err != nil {
		return nil, errors.Wrap(err, "配置文件不合法")
	}
	return conf, conf.validate()
}

func (c *Config) validate() error {
	switch c.Gateway.Mode {
	case ModeWebsocket:
		if c.Gateway.URL == "" {
			return errors.New("gateway.url 不能为空")
		}
	case ModeWebsocketReverse:
		if c.Gateway.Port == 0 {
			return errors.New("gateway.port 不能为空")
		}
		if !strings.HasPrefix(c.Gateway.Path, "/") {
			c.Gateway.Path = "/" + c.Gateway.Path
		}
	default:
		return errors.Errorf("不支持的连接方式: %q", c.Gateway.Mode)
	}
	if c.Gateway.Timeout <= 0 {
		c.Gateway.Timeout = 30
	}
	return nil
}

var envReg = regexp.MustCompile(`\$\{([^{}]+)}`)

// expand 使用 mapping 替换 s 中的 ${NAME}, 其余 $ 原样保留
func expand(s string, mapping func(string) string) string {
	return envReg.ReplaceAllStringFunc(s, func(m string) string {
		return mapping(m[2 : len(m)-1])
	})
}
