package pdf

import (
	"strings"

	"golang.org/x/text/unicode/bidi"
)

const (
	lri = '\u2066' // left-to-right isolate
	pdi = '\u2069' // pop directional isolate
)

type wordKind int

const (
	wordNeutral wordKind = iota
	wordLTR
	wordRTL
)

func classifyWord(w string) wordKind {
	kind := wordNeutral
	for _, r := range w {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			return wordRTL
		case bidi.L, bidi.EN, bidi.AN:
			kind = wordLTR
		}
	}
	return kind
}

// isolateLTR оборачивает подряд идущие слова без арабской графики в LRI..PDI.
// Номер договора, email, телефон и ссылки остаются одним LTR-фрагментом,
// а не разбиваются алгоритмом bidi на части вокруг "-", "@" и пробелов.
func isolateLTR(line string) string {
	words := strings.Split(line, " ")
	kinds := make([]wordKind, len(words))
	for i, w := range words {
		kinds[i] = classifyWord(w)
	}

	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if kinds[i] != wordLTR {
			out = append(out, words[i])
			i++
			continue
		}
		end := i
		for j := i + 1; j < len(words) && kinds[j] != wordRTL; j++ {
			if kinds[j] == wordLTR {
				end = j
			}
		}
		out = append(out, string(lri)+strings.Join(words[i:end+1], " ")+string(pdi))
		i = end + 1
	}
	return strings.Join(out, " ")
}

func dropIsolate(r rune) rune {
	if r == lri || r == pdi {
		return -1
	}
	return r
}

// visualOrder переводит строку RTL-абзаца из логического порядка в порядок
// вывода слева направо: RTL-фрагменты переворачиваются (с зеркалированием
// скобок), LTR-фрагменты остаются как есть, порядок фрагментов обратный.
func visualOrder(line string) string {
	if line == "" {
		return line
	}
	var p bidi.Paragraph
	if _, err := p.SetString(isolateLTR(line), bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		return line
	}
	o, err := p.Order()
	if err != nil || o.NumRuns() == 0 {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + 8)
	for i := o.NumRuns() - 1; i >= 0; i-- {
		run := o.Run(i)
		s := run.String()
		if run.Direction() == bidi.RightToLeft {
			s = bidi.ReverseString(s)
		}
		b.WriteString(s)
	}
	return strings.Map(dropIsolate, b.String())
}
