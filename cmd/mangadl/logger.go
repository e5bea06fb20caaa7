package cmd

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = zap.NewNop()

func initLogger() {
	lvl := zapcore.WarnLevel
	if err := lvl.Set(logLevel); err != nil {
		lvl = zapcore.WarnLevel
	}

	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stderr)}
	if logFile != "" {
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // megabytes
			MaxBackups: 10,
			LocalTime:  true,
		}))
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.NewMultiWriteSyncer(syncers...),
		lvl,
	)
	logger = zap.New(core, zap.AddStacktrace(zap.ErrorLevel))
}
