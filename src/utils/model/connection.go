package model

import (
	"time"

	"github.com/pumasi/core/src/utils/config"
	l "github.com/pumasi/core/src/utils/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(storeConfig *config.Store) (self *gorm.DB, err error) {
	log := l.NewSublogger("db")

	logger := logger.New(log,
		logger.Config{
			SlowThreshold:             500 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Error,           // Log level
			IgnoreRecordNotFoundError: true,                   // Ignore ErrRecordNotFound error for logger
			Colorful:                  false,                  // Disable color
		},
	)

	self, err = gorm.Open(sqlite.Open(storeConfig.Path), &gorm.Config{
		Logger: logger,
	})
	if err != nil {
		return
	}

	err = self.AutoMigrate(&Override{}, &HiddenApplication{}, &Operation{})
	if err != nil {
		return
	}

	log.WithField("path", storeConfig.Path).Info("Connected to local store")
	return
}
