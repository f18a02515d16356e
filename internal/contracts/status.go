// Package contracts - жизненный цикл договора: статусы и номера.
package contracts

import (
	"errors"
	"fmt"
	"time"

	"github.com/SulimanHakimi/volvera-sub000/models"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("unknown contract status")
)

// Переходы только вперёд. approved <-> rejected - ручная корректировка админом.
var transitions = map[models.ContractStatus][]models.ContractStatus{
	models.StatusDraft:       {models.StatusSubmitted},
	models.StatusSubmitted:   {models.StatusUnderReview, models.StatusApproved, models.StatusRejected},
	models.StatusUnderReview: {models.StatusApproved, models.StatusRejected},
	models.StatusApproved:    {models.StatusRejected, models.StatusActive, models.StatusSigned},
	models.StatusRejected:    {models.StatusApproved},
	models.StatusActive:      {models.StatusTerminated},
	models.StatusSigned:      {models.StatusTerminated},
}

func ValidStatus(s models.ContractStatus) bool {
	switch s {
	case models.StatusDraft, models.StatusSubmitted, models.StatusUnderReview,
		models.StatusApproved, models.StatusRejected, models.StatusActive,
		models.StatusSigned, models.StatusTerminated:
		return true
	}
	return false
}

func CanTransition(from, to models.ContractStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition меняет статус договора и проставляет отметки времени.
// Повторный PATCH с тем же статусом не считается ошибкой.
func Transition(c *models.Contract, to models.ContractStatus, now time.Time) error {
	if !ValidStatus(to) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if c.Status == to {
		return nil
	}
	if !CanTransition(c.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, to)
	}

	c.Status = to
	switch to {
	case models.StatusSubmitted:
		c.SubmittedAt = &now
	case models.StatusApproved, models.StatusRejected:
		c.ReviewedAt = &now
	}
	return nil
}

// CanBeTerminated - может ли договор быть целью заявки на расторжение.
func CanBeTerminated(s models.ContractStatus) bool {
	return s == models.StatusApproved || s == models.StatusActive || s == models.StatusSigned
}
