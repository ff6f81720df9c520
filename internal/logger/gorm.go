package logger

import (
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// Gorm routes gorm's SQL logging through logrus. Only slow queries and
// errors are reported.
func Gorm(entry *logrus.Entry) gormlogger.Interface {
	return gormlogger.New(
		entry.WithField("component", "gorm"),
		gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}
