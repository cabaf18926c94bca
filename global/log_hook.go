package global

import (
	"io"
	"strings"

	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
)

// LocalHook logrus本地钩子, 将日志写入文件
type LocalHook struct {
	levels    []log.Level
	formatter log.Formatter // 格式
	writer    io.Writer     // io
}

// Levels ref: logrus/hooks.go impl Hook interface
func (hook *LocalHook) Levels() []log.Level {
	return hook.levels
}

// Fire ref: logrus/hooks.go impl Hook interface
func (hook *LocalHook) Fire(entry *log.Entry) error {
	if hook.writer == nil {
		return nil
	}
	b, err := hook.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = hook.writer.Write(b)
	return err
}

// NewLocalHook 初始化本地日志钩子实现
//
// 控制台使用 consoleFormatter, 写入 local 的日志使用 fileFormatter
func NewLocalHook(local io.Writer, consoleFormatter, fileFormatter log.Formatter, levels ...log.Level) *LocalHook {
	// 支持处理windows平台的console色彩
	log.SetOutput(colorable.NewColorableStdout())
	log.SetFormatter(consoleFormatter)
	return &LocalHook{
		levels:    levels,
		formatter: fileFormatter,
		writer:    local,
	}
}

// GetLogLevel 获取日志等级
//
// 可能的值有
//
// "trace","debug","info","warn","warn","error"
func GetLogLevel(level string) []log.Level {
	switch level {
	case "trace":
		return []log.Level{
			log.TraceLevel, log.DebugLevel,
			log.InfoLevel, log.WarnLevel, log.ErrorLevel,
			log.FatalLevel, log.PanicLevel,
		}
	case "debug":
		return []log.Level{
			log.DebugLevel, log.InfoLevel,
			log.WarnLevel, log.ErrorLevel,
			log.FatalLevel, log.PanicLevel,
		}
	case "warn":
		return []log.Level{
			log.WarnLevel, log.ErrorLevel,
			log.FatalLevel, log.PanicLevel,
		}
	case "error":
		return []log.Level{
			log.ErrorLevel, log.FatalLevel,
			log.PanicLevel,
		}
	default:
		return []log.Level{
			log.InfoLevel, log.WarnLevel,
			log.ErrorLevel, log.FatalLevel,
			log.PanicLevel,
		}
	}
}

// LogFormat specialize for go-qqessentials
type LogFormat struct {
	EnableColor bool
}

// Format implements logrus.Formatter
func (f LogFormat) Format(entry *log.Entry) ([]byte, error) {
	buf := NewBuffer()
	defer PutBuffer(buf)

	if f.EnableColor {
		buf.WriteString(GetLogLevelColorCode(entry.Level))
	}

	buf.WriteByte('[')
	buf.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.WriteString("] [")
	buf.WriteString(strings.ToUpper(entry.Level.String()))
	buf.WriteString("]: ")
	buf.WriteString(entry.Message)
	buf.WriteString(" \n")

	if f.EnableColor {
		buf.WriteString(colorReset)
	}

	ret := append([]byte(nil), buf.Bytes()...) // copy buffer
	return ret, nil
}

const (
	colorCodePanic = "\x1b[1;31m" // color.Style{color.Bold, color.Red}.String()
	colorCodeFatal = "\x1b[1;31m" // color.Style{color.Bold, color.Red}.String()
	colorCodeError = "\x1b[31m"   // color.Style{color.Red}.String()
	colorCodeWarn  = "\x1b[33m"   // color.Style{color.Yellow}.String()
	colorCodeInfo  = "\x1b[37m"   // color.Style{color.White}.String()
	colorCodeDebug = "\x1b[32m"   // color.Style{color.Green}.String()
	colorCodeTrace = "\x1b[36m"   // color.Style{color.Cyan}.String()
	colorReset     = "\x1b[0m"
)

// GetLogLevelColorCode 获取日志等级对应色彩code
func GetLogLevelColorCode(level log.Level) string {
	switch level {
	case log.PanicLevel:
		return colorCodePanic
	case log.FatalLevel:
		return colorCodeFatal
	case log.ErrorLevel:
		return colorCodeError
	case log.WarnLevel:
		return colorCodeWarn
	case log.InfoLevel:
		return colorCodeInfo
	case log.DebugLevel:
		return colorCodeDebug
	case log.TraceLevel:
		return colorCodeTrace
	default:
		return colorCodeInfo
	}
}
