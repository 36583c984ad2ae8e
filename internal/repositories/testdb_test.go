package repositories

import (
	"fmt"
	"testing"

	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a named in-memory SQLite database so every connection from
// the pool sees the same data. TranslateError is on, matching production, so
// unique-index violations surface as gorm.ErrDuplicatedKey.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Memorial{},
		&models.CollaborationRequest{},
		&models.Reaction{},
		&models.Comment{},
		&models.Notification{},
	))
	return db
}
