// Package billing описывает каталог тарифов и длительность пробного периода.
//
// Каталог неизменяем после создания и передаётся в сервисы явно.
package billing

import (
	"sort"
	"time"

	"github.com/magabrotheeeer/equiptrack/internal/config"
)

// DefaultTrialDays длительность пробного периода по умолчанию.
const DefaultTrialDays = 14

// Package тариф подписки. UnitAmount указан в минимальных единицах валюты за одного пользователя.
type Package struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	UnitAmount   int64  `json:"unit_amount"`
	Currency     string `json:"currency"`
	DurationDays int    `json:"duration_days"`
}

// Duration срок действия подписки по тарифу.
func (p Package) Duration() time.Duration {
	return time.Duration(p.DurationDays) * 24 * time.Hour
}

// Catalog набор тарифов и параметры пробного периода.
type Catalog struct {
	packages  map[string]Package
	trialDays int
}

// DefaultPackages тарифы, которые используются, если в конфиге ничего не задано.
func DefaultPackages() []Package {
	return []Package{
		{ID: "monthly", Name: "Monthly Plan", UnitAmount: 2999, Currency: "usd", DurationDays: 30},
		{ID: "yearly", Name: "Yearly Plan", UnitAmount: 29999, Currency: "usd", DurationDays: 365},
	}
}

// NewCatalog создаёт каталог. Пустой список тарифов заменяется DefaultPackages,
// неположительная длительность пробного периода заменяется DefaultTrialDays.
func NewCatalog(trialDays int, packages []Package) *Catalog {
	if trialDays <= 0 {
		trialDays = DefaultTrialDays
	}
	if len(packages) == 0 {
		packages = DefaultPackages()
	}
	c := &Catalog{
		packages:  make(map[string]Package, len(packages)),
		trialDays: trialDays,
	}
	for _, p := range packages {
		c.packages[p.ID] = p
	}
	return c
}

// FromConfig строит каталог по секции billing конфига.
func FromConfig(cfg config.Billing) *Catalog {
	packages := make([]Package, 0, len(cfg.Packages))
	for _, p := range cfg.Packages {
		packages = append(packages, Package{
			ID:           p.ID,
			Name:         p.Name,
			UnitAmount:   p.UnitAmount,
			Currency:     p.Currency,
			DurationDays: p.DurationDays,
		})
	}
	return NewCatalog(cfg.TrialDays, packages)
}

// Lookup возвращает тариф по идентификатору.
func (c *Catalog) Lookup(id string) (Package, bool) {
	p, ok := c.packages[id]
	return p, ok
}

// List возвращает все тарифы, отсортированные по идентификатору.
func (c *Catalog) List() []Package {
	out := make([]Package, 0, len(c.packages))
	for _, p := range c.packages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TrialPeriod длительность пробного периода.
func (c *Catalog) TrialPeriod() time.Duration {
	return time.Duration(c.trialDays) * 24 * time.Hour
}
