// Package policy - единственное место, где решается, кто что может.
// Администратор может всё, владелец - только своё.
package policy

import (
	"errors"

	"github.com/SulimanHakimi/volvera-sub000/models"
)

var ErrForbidden = errors.New("forbidden")

// Principal - аутентифицированный пользователь запроса.
type Principal struct {
	UserID uint
	Role   string
}

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

func RequireAdmin(p Principal) error {
	if p.IsAdmin() {
		return nil
	}
	return ErrForbidden
}

func owns(p Principal, ownerID uint) error {
	if p.IsAdmin() || (p.UserID != 0 && p.UserID == ownerID) {
		return nil
	}
	return ErrForbidden
}

func CanViewContract(p Principal, c *models.Contract) error {
	if c == nil {
		return ErrForbidden
	}
	return owns(p, c.UserID)
}

// CanEditContract проверяет только права; ограничения по статусу проверяет вызывающий.
func CanEditContract(p Principal, c *models.Contract) error {
	return CanViewContract(p, c)
}

func CanViewDocument(p Principal, d *models.Document) error {
	if d == nil {
		return ErrForbidden
	}
	return owns(p, d.UserID)
}

func CanReadNotification(p Principal, n *models.Notification) error {
	if n == nil || n.UserID != p.UserID {
		return ErrForbidden
	}
	return nil
}
