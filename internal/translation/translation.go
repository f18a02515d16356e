// Package translation переводит анкетные данные договора на английский.
package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SulimanHakimi/volvera-sub000/models"
	"gorm.io/datatypes"
)

// Target - язык, на который переводятся все заявки.
const Target = "en"

// ErrNotConfigured возвращает NoopProvider: перевода нет, данные без изменений.
var ErrNotConfigured = errors.New("translation provider is not configured")

type Provider interface {
	Translate(ctx context.Context, data models.ContractData, from, to string) (models.ContractData, error)
}

type NoopProvider struct{}

func (NoopProvider) Translate(_ context.Context, data models.ContractData, _, _ string) (models.ContractData, error) {
	return data, ErrNotConfigured
}

// Apply заполняет TranslatedData и TranslationStatus договора.
// Английские заявки копируются как есть со статусом human. Если провайдер
// не настроен, статус остаётся pending и ошибки нет.
func Apply(ctx context.Context, p Provider, c *models.Contract) error {
	original := c.OriginalData.Data()
	if c.OriginalLanguage == Target {
		c.TranslatedData = datatypes.NewJSONType(original)
		c.TranslationStatus = models.TranslationHuman
		return nil
	}
	if p == nil {
		p = NoopProvider{}
	}

	translated, err := p.Translate(ctx, original, c.OriginalLanguage, Target)
	if errors.Is(err, ErrNotConfigured) {
		slog.Debug("Translation provider not configured, contract stays pending", "contract_id", c.ID)
		c.TranslationStatus = models.TranslationPending
		return nil
	}
	if err != nil {
		c.TranslationStatus = models.TranslationPending
		return fmt.Errorf("translate contract %d: %w", c.ID, err)
	}

	c.TranslatedData = datatypes.NewJSONType(translated)
	c.TranslationStatus = models.TranslationMachine
	return nil
}
