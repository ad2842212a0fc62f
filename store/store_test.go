package store

import (
	"testing"

	"wakely/models"
	"wakely/tools"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/require"
)

// testDB abre um sqlite em memória com o schema migrado.
// MaxOpenConns(1) porque cada conexão sqlite ":memory:" teria seu próprio banco.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	db.LogMode(false)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Friend{},
		&models.FriendRequest{},
		&models.EscalationEvent{},
	).Error)

	t.Cleanup(func() { db.Close() })
	return db
}

func makeUser(t *testing.T, db *gorm.DB, name string, phone string) models.User {
	t.Helper()

	canonical, err := tools.NormalizePhone(phone, "1")
	require.NoError(t, err)

	user := models.User{
		Name:            name,
		Phone:           canonical,
		PhoneNumberHash: tools.Fingerprint(canonical),
		Password:        "x",
		Status:          models.USER_STATUS_AVAILABLE,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}
