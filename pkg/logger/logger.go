package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger = logrus.New()
	mu     sync.Mutex
)

type Fields = logrus.Fields

// Options ロガーの設定
type Options struct {
	Level   string // debug, info, warn, error
	File    string // 空ならファイル出力なし
	NoColor bool
}

// Setup はグローバルロガーを設定して返します。複数回呼んでも最後の設定が有効です。
func Setup(opts Options) *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetFormatter(&formatter.Formatter{
		NoColors:        opts.NoColor,
		TimestampFormat: "2006-01-02 15:04:05",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		},
	})

	writers := []io.Writer{os.Stderr}
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    50,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}
	logger.SetOutput(io.MultiWriter(writers...))
	logger.SetReportCaller(level >= logrus.DebugLevel)

	return logger
}

// Logger はグローバルロガーを返します。
func Logger() *logrus.Logger {
	return logger
}

// SetOutput テストなどで出力先を差し替えます。
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

func Debug(fields Fields, msg string) {
	logger.WithFields(orEmpty(fields)).Debug(msg)
}

func Info(fields Fields, msg string) {
	logger.WithFields(orEmpty(fields)).Info(msg)
}

func Warn(fields Fields, msg string) {
	logger.WithFields(orEmpty(fields)).Warn(msg)
}

func Error(fields Fields, msg string) {
	logger.WithFields(orEmpty(fields)).Error(msg)
}

func Fatal(fields Fields, msg string) {
	logger.WithFields(orEmpty(fields)).Fatal(msg)
}

func orEmpty(fields Fields) Fields {
	if fields == nil {
		return Fields{}
	}
	return fields
}
