package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

// New builds the application logger. LOG_MODE=development switches to the
// human-readable console encoder.
func New() (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if strings.EqualFold(os.Getenv("LOG_MODE"), "development") {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
