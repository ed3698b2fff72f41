// Package logger 提供以 zerolog 實作的全域 logger。
//
// 啟動時呼叫一次 Init，之後在任何地方以 Get 取得。
// 互動式主控台佔用 stdout，因此預設輸出到 stderr。
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options 控制 logger 初始化行為
type Options struct {
	// Level: trace, debug, info, warn, error；空字串或無法辨識時為 warn
	Level string
	// Pretty 以人類可讀的格式輸出，否則輸出 JSON
	Pretty bool
	// Output 預設為 os.Stderr
	Output io.Writer
}

var (
	instance    zerolog.Logger
	once        sync.Once
	initialized bool
)

// Init 初始化全域 logger，只有第一次呼叫生效
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stderr
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
		}

		lvl := parseLevel(opts.Level)
		instance = zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Str("app", "loanctl").
			Logger()

		initialized = true
	})
	return instance
}

// Get 回傳全域 logger；尚未 Init 時回傳 Nop logger
func Get() zerolog.Logger {
	if !initialized {
		return zerolog.Nop()
	}
	return instance
}

// Reset 清除全域 logger，僅供測試使用
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	initialized = false
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}
