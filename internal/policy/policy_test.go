package policy

import (
	"testing"

	"github.com/SulimanHakimi/volvera-sub000/models"
	"github.com/stretchr/testify/assert"
)

func TestCanViewContract(t *testing.T) {
	contract := &models.Contract{UserID: 5}

	assert.NoError(t, CanViewContract(Principal{UserID: 5, Role: models.RoleUser}, contract))
	assert.NoError(t, CanViewContract(Principal{UserID: 1, Role: models.RoleAdmin}, contract))
	assert.ErrorIs(t, CanViewContract(Principal{UserID: 6, Role: models.RoleUser}, contract), ErrForbidden)
	assert.ErrorIs(t, CanViewContract(Principal{}, &models.Contract{}), ErrForbidden)
	assert.ErrorIs(t, CanViewContract(Principal{UserID: 5}, nil), ErrForbidden)
	assert.ErrorIs(t, CanEditContract(Principal{UserID: 6, Role: models.RoleUser}, contract), ErrForbidden)
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(Principal{UserID: 1, Role: models.RoleAdmin}))
	assert.ErrorIs(t, RequireAdmin(Principal{UserID: 1, Role: models.RoleUser}), ErrForbidden)
	assert.ErrorIs(t, RequireAdmin(Principal{}), ErrForbidden)
}

func TestDocumentsAndNotifications(t *testing.T) {
	doc := &models.Document{UserID: 3}
	assert.NoError(t, CanViewDocument(Principal{UserID: 3}, doc))
	assert.NoError(t, CanViewDocument(Principal{UserID: 9, Role: models.RoleAdmin}, doc))
	assert.ErrorIs(t, CanViewDocument(Principal{UserID: 4}, doc), ErrForbidden)

	n := &models.Notification{UserID: 3}
	assert.NoError(t, CanReadNotification(Principal{UserID: 3}, n))
	// чужие уведомления не читает даже админ
	assert.ErrorIs(t, CanReadNotification(Principal{UserID: 9, Role: models.RoleAdmin}, n), ErrForbidden)
}
