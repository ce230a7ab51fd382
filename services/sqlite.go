package services

import (
	"os"

	"github.com/lockedin-labs/lockin_api/model"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqliteService is the development and seed-tool store. Production runs on
// PostgresService; both migrate the same models.
type SqliteService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const SQLITE_SVC = "sqlite_svc"

// Id returns Service ID
func (ds SqliteService) Id() string {
	return SQLITE_SVC
}

// Db Access to raw SqliteService db
func (ds SqliteService) Db() *gorm.DB {
	return ds.db
}

// SetDatabase overrides the configured database path. Used by standalone
// tools that run the store outside the service container.
func (ds *SqliteService) SetDatabase(path string) {
	ds.database = path
}

// Configure the service
func (ds *SqliteService) Configure(ctx *context.Context) error {
	ds.database = defaultSqlitePath()

	return ds.DefaultService.Configure(ctx)
}

func defaultSqlitePath() string {
	if path := os.Getenv("DB_DATABASE"); path != "" {
		return path
	}
	return "lockin.db"
}

// Start the service and open connection to the database
// Migrate any tables that have changed since last runtime
func (ds *SqliteService) Start() (err error) {
	if ds.database == "" {
		ds.database = defaultSqlitePath()
	}

	ds.db, err = gorm.Open(sqlite.Open(ds.database), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return err
	}

	err = ds.db.AutoMigrate(
		&model.User{},
		&model.Challenge{},
		&model.Participant{},
		&model.FocusSession{},
	)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *SqliteService) Shutdown() {
}
