package handlers

import (
	"time"

	"github.com/SulimanHakimi/volvera-sub000/internal/metrics"
	"github.com/SulimanHakimi/volvera-sub000/internal/pdf"
	"github.com/SulimanHakimi/volvera-sub000/internal/ratelimit"
	"github.com/SulimanHakimi/volvera-sub000/internal/translation"
)

// Зависимости обработчиков. Заполняются при старте сервера (cmd/volvera),
// тесты подменяют их напрямую.
var (
	Renderer      = pdf.New()
	Translator    translation.Provider = translation.NoopProvider{}
	UploadLimiter ratelimit.Limiter    = ratelimit.NewMemoryLimiter(10, time.Hour)
	Metrics       *metrics.Metrics
)
