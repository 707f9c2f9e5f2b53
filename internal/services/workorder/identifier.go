package workorder

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix общий префикс номеров заказ-нарядов года.
func Prefix(year int) string {
	return fmt.Sprintf("WO-%d-", year)
}

// FormatID собирает номер вида WO-2025-0001. Номера от 10000 выходят за четыре знака.
func FormatID(year, seq int) string {
	return fmt.Sprintf("WO-%d-%04d", year, seq)
}

// ParseID разбирает номер заказ-наряда на год и порядковый номер.
func ParseID(id string) (year, seq int, err error) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 || parts[0] != "WO" {
		return 0, 0, fmt.Errorf("malformed work order id %q", id)
	}
	if year, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("malformed year in %q: %w", id, err)
	}
	if seq, err = strconv.Atoi(parts[2]); err != nil || seq < 1 {
		return 0, 0, fmt.Errorf("malformed sequence in %q", id)
	}
	return year, seq, nil
}
