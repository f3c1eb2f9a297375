package utils

import "strings"

const decimalDivider = "."

// InputFilter проверяет вставку source на место [dstart, dend) текста dest.
// Возвращает текст, который действительно будет вставлен, и false, если вставка отклонена.
type InputFilter func(dest string, dstart, dend int, source string) (string, bool)

// MaxTotalDigits ограничивает длину поля n символами.
// Считаются все символы поля, включая десятичную точку.
func MaxTotalDigits(n int) InputFilter {
	return func(dest string, _, _ int, source string) (string, bool) {
		if len(dest) >= n {
			return "", false
		}
		return source, true
	}
}

// MaxDecimalDigits ограничивает количество знаков после точки
func MaxDecimalDigits(n int) InputFilter {
	return func(dest string, _, dend int, source string) (string, bool) {
		dotPosition := strings.Index(dest, decimalDivider)
		if dotPosition >= 0 && dend > dotPosition && len(dest)-dotPosition > n {
			// вставка после точки, лимит знаков уже достигнут
			return "", false
		}
		return source, true
	}
}

// NumericOnly оставляет только цифры и одну десятичную точку
func NumericOnly() InputFilter {
	return func(dest string, dstart, dend int, source string) (string, bool) {
		hasDot := strings.Contains(dest[:dstart]+dest[dend:], decimalDivider)

		var b strings.Builder
		for _, r := range source {
			switch {
			case r >= '0' && r <= '9':
				b.WriteRune(r)
			case string(r) == decimalDivider && !hasDot:
				hasDot = true
				b.WriteRune(r)
			}
		}

		if b.Len() == 0 && source != "" {
			return "", false
		}
		return b.String(), true
	}
}

// StripLeadingZeroes убирает лишние ведущие нули, сохраняя "0" и "0."
func StripLeadingZeroes(text string) string {
	for strings.HasPrefix(text, "0") && !strings.HasPrefix(text, "0"+decimalDivider) && text != "0" {
		text = text[1:]
	}
	return text
}

// Field — редактируемое поле суммы активной валюты.
// Вставка проходит через фильтры посимвольно, после каждой правки убираются ведущие нули.
type Field struct {
	text    string
	filters []InputFilter
}

// Создаём поле с набором фильтров, применяемых по порядку
func NewField(filters ...InputFilter) *Field {
	return &Field{filters: filters}
}

// Text возвращает текущий текст поля
func (f *Field) Text() string {
	return f.text
}

// SetText задаёт текст программно, без фильтров и нормализации
func (f *Field) SetText(text string) {
	f.text = text
}

// Insert вводит text в позицию pos, как если бы символы набирались по одному.
// Возвращает позицию курсора после ввода.
func (f *Field) Insert(pos int, text string) int {
	pos = clamp(pos, 0, len(f.text))

	for _, r := range text {
		accepted, ok := f.filter(pos, pos, string(r))
		if !ok || accepted == "" {
			continue
		}
		f.text = f.text[:pos] + accepted + f.text[pos:]
		pos += len(accepted)
		pos = f.normalize(pos)
	}
	return pos
}

// Delete удаляет текст в диапазоне [start, end) и возвращает позицию курсора
func (f *Field) Delete(start, end int) int {
	start = clamp(start, 0, len(f.text))
	end = clamp(end, start, len(f.text))

	f.text = f.text[:start] + f.text[end:]
	return f.normalize(start)
}

// Replace заменяет весь текст, пропуская новый текст через фильтры
func (f *Field) Replace(text string) {
	f.text = ""
	f.Insert(0, text)
}

func (f *Field) filter(dstart, dend int, source string) (string, bool) {
	for _, filter := range f.filters {
		var ok bool
		source, ok = filter(f.text, dstart, dend, source)
		if !ok {
			return "", false
		}
	}
	return source, true
}

func (f *Field) normalize(pos int) int {
	before := len(f.text)
	f.text = StripLeadingZeroes(f.text)
	return clamp(pos-(before-len(f.text)), 0, len(f.text))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
