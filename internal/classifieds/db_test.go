package classifieds

import (
	"testing"

	"github.com/danhewitt/motorline-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	err = conn.AutoMigrate(
		&models.Make{},
		&models.Model{},
		&models.ModelVariant{},
		&models.Classified{},
		&models.ClassifiedImage{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return conn
}
