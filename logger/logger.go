package logger

import (
	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It discards everything until Init is called.
var Log = zap.NewNop().Sugar()

var reporting bool

func Init(env string) *zap.Logger {
	var cfg zap.Config

	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}

	l, err := cfg.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	Log = l.Sugar()
	return l
}

// InitReporting enables Rollbar error reporting. An empty token leaves it off.
func InitReporting(token, env, version string) {
	if token == "" {
		Log.Infow("Error reporting disabled", "reason", "ROLLBAR_TOKEN not set")
		return
	}
	rollbar.SetToken(token)
	rollbar.SetEnvironment(env)
	rollbar.SetCodeVersion(version)
	rollbar.SetEnabled(true)
	reporting = true
	Log.Infow("Error reporting enabled", "environment", env)
}

// Report logs err with its context and forwards it to Rollbar when enabled.
func Report(err error, fields map[string]interface{}) {
	if err == nil {
		return
	}
	kv := make([]interface{}, 0, len(fields)*2+2)
	kv = append(kv, "error", err)
	for k, val := range fields {
		kv = append(kv, k, val)
	}
	Log.Errorw("Unhandled error", kv...)

	if reporting {
		rollbar.Error(err, fields)
	}
}

func Sync() {
	_ = Log.Sync()
	if reporting {
		rollbar.Wait()
	}
}
