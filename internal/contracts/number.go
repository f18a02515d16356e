package contracts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SulimanHakimi/volvera-sub000/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NumberPrefix = "VC-"
	maxTries     = 10
)

func FormatNumber(seq int) string {
	return fmt.Sprintf("%s%06d", NumberPrefix, seq)
}

// CreateWithUniqueNumber сохраняет новый договор, присваивая ему следующий номер
// и PublicID. При конфликте уникальности увеличивает номер и повторяет
// вставку (до 10 попыток). Номер присваивается только здесь и больше не меняется.
func CreateWithUniqueNumber(db *gorm.DB, c *models.Contract) error {
	if c.ID != 0 {
		return fmt.Errorf("contract %d is already saved", c.ID)
	}

	// удалённые договоры тоже держат свои номера
	var existing int64
	if err := db.Unscoped().Model(&models.Contract{}).Count(&existing).Error; err != nil {
		return err
	}
	seq := int(existing) + 1

	for i := 0; i < maxTries; i++ {
		c.ContractNumber = FormatNumber(seq)
		c.PublicID = uuid.NewString()

		err := db.Create(c).Error
		if err == nil {
			return nil
		}
		if isUniqueViolation(err) {
			c.ID = 0
			seq++
			continue
		}
		c.ContractNumber = ""
		c.PublicID = ""
		return err
	}

	c.ContractNumber = ""
	c.PublicID = ""
	return fmt.Errorf("could not generate a unique contract number after %d tries", maxTries)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "unique constraint failed")
}
