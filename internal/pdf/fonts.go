package pdf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	latinFamily = "Helvetica"
	rtlFamily   = "Vazirmatn"

	maxFontSize = 8 << 20
)

// FontSource отдаёт байты TTF-шрифта с арабской графикой.
type FontSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FileFontSource читает шрифт с диска.
type FileFontSource struct {
	Path string
}

func (s FileFontSource) Fetch(_ context.Context) ([]byte, error) {
	if s.Path == "" {
		return nil, fmt.Errorf("font path is empty")
	}
	return os.ReadFile(s.Path)
}

// HTTPFontSource скачивает шрифт по URL. Повторных попыток нет:
// при ошибке рендер переходит на латинский шрифт.
type HTTPFontSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPFontSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.URL == "" {
		return nil, fmt.Errorf("font url is empty")
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating font request: %w", err)
	}
	req.Close = true

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching font: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error fetching font: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFontSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading font body: %w", err)
	}
	if len(data) > maxFontSize {
		return nil, fmt.Errorf("font is larger than %d bytes", maxFontSize)
	}
	return data, nil
}

// probeUTF8Font проверяет шрифт на отдельном документе: fpdf переводит
// документ в состояние ошибки при битом TTF, а парсер может и паниковать.
func probeUTF8Font(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("font parser panic: %v", r)
		}
	}()

	if len(data) == 0 {
		return fmt.Errorf("font is empty")
	}
	probe := fpdf.New("P", "mm", "A4", "")
	probe.AddUTF8FontFromBytes(rtlFamily, "", data)
	if probe.Err() {
		return probe.Error()
	}
	probe.AddPage()
	probe.SetFont(rtlFamily, "", 10)
	_ = probe.GetStringWidth("تست")
	if probe.Err() {
		return probe.Error()
	}
	return nil
}
