// Package base provides base config for go-qqessentials
package base

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/qqessentials/go-qqessentials/modules/config"
)

// command flags
var (
	LittleC  string // config file
	LittleD  bool   // debug mode, overrides output.debug
	LittleH  bool   // Help
	LittleWD string // working directory
)

// config file flags
var (
	Debug       bool          // 是否开启 debug 模式
	LogLevel    string        // 日志等级
	LogAging    time.Duration // 日志时效
	LogForceNew bool          // 是否在每次启动时强制创建全新的文件储存日志
	LogColorful bool          // 是否启用日志颜色
)

// Parse parses flags from command line
func Parse() {
	flag.StringVar(&LittleC, "c", config.DefaultConfigFile, "configuration filename")
	flag.BoolVar(&LittleD, "D", false, "debug mode")
	flag.BoolVar(&LittleH, "h", false, "this Help")
	flag.StringVar(&LittleWD, "w", "", "cover the working directory")
	flag.Parse()
}

// Init read config from conf into base flags
func Init(conf *config.Config) {
	Debug = conf.Output.Debug || LittleD
	LogLevel = conf.Output.LogLevel
	if Debug {
		LogLevel = "debug"
	}
	LogAging = time.Hour * 24 * time.Duration(conf.Output.LogAging)
	LogForceNew = conf.Output.LogForceNew
	LogColorful = conf.Output.LogColorful && term.IsTerminal(int(os.Stdout.Fd()))
}

// Help cli命令行-h的帮助提示
func Help() {
	fmt.Printf(`go-qqessentials service
version: %s

Usage:

server [OPTIONS]

Options:
`, Version)

	flag.PrintDefaults()
	os.Exit(0)
}

// ResetWorkingDir 切换工作目录
func ResetWorkingDir() error {
	return os.Chdir(LittleWD)
}
