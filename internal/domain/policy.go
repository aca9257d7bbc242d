package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CancellationPolicy набор правил расчёта штрафа за отмену,
// принадлежит варианту тура
type CancellationPolicy struct {
	ID        int64
	VariantID int64
	Name      string
	Rules     []PolicyRule

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PolicyRule пара (before_hours, fee_pct): при отмене не позднее чем за
// BeforeHours часов до отправления удерживается FeePct процентов
type PolicyRule struct {
	ID          int64
	PolicyID    int64
	BeforeHours int
	FeePct      decimal.Decimal
}

// SortedRules возвращает правила, отсортированные по BeforeHours по
// убыванию — порядок, в котором движок политик ищет первое подходящее.
// При равных BeforeHours порядок фиксируется меньшим ID.
func (p *CancellationPolicy) SortedRules() []PolicyRule {
	rules := make([]PolicyRule, len(p.Rules))
	copy(rules, p.Rules)
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].BeforeHours != rules[j].BeforeHours {
			return rules[i].BeforeHours > rules[j].BeforeHours
		}
		return rules[i].ID < rules[j].ID
	})
	return rules
}
