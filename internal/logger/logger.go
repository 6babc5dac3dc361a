package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.Mutex
	sugar *zap.SugaredLogger
)

// Init replaces the process logger. json selects the production encoder.
func Init(json bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if json {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	sugar = l.Sugar()
	return nil
}

// Get returns the process logger, creating a development logger on first use.
func Get() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if sugar == nil {
		l, err := zap.NewDevelopment()
		if err != nil {
			l = zap.NewNop()
		}
		sugar = l.Sugar()
	}
	return sugar
}

func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if sugar != nil {
		_ = sugar.Sync()
	}
}
