package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	variantRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/variant"
	"github.com/avlasov/TMS-InventoryService/pkg/money"
)

// Quote результат расчёта цены для одного pax type
type Quote struct {
	VariantID int64
	Date      time.Time
	PaxType   domain.PaxType
	Quantity  int

	// UnitPrice цена за единицу до налога
	UnitPrice money.Money
	// TaxAmount налог на всю позицию (ноль, если налог включён в цену)
	TaxAmount money.Money
	// Total итог позиции с налогом, округлён до 2 знаков
	Total money.Money

	// AppliedRuleID ID победившего правила, nil если применена базовая цена
	AppliedRuleID *int64
}

// Service рассчитывает цены по правилам варианта.
//
// Расчёт детерминирован: одинаковый вход всегда даёт одинаковый итог.
// Среди подошедших правил побеждает большее значение priority, при
// равенстве — меньший ID правила.
type Service struct {
	variants   VariantRepository
	priceRules PriceRuleRepository
	logger     Logger
}

// NewService создает новый pricing-сервис
func NewService(variants VariantRepository, priceRules PriceRuleRepository, logger Logger) *Service {
	return &Service{
		variants:   variants,
		priceRules: priceRules,
		logger:     logger,
	}
}

// Quote рассчитывает стоимость quantity мест данного pax type на дату.
// Правило применимо, если дата в диапазоне, бит дня недели установлен и
// сумма для pax type задана. absolute заменяет базовую цену, delta
// прибавляется к ней (не ниже нуля). Без подошедшего правила берется
// базовая цена варианта; если нет и её — ErrNoApplicablePriceRule.
func (s *Service) Quote(ctx context.Context, variantID int64, date time.Time, paxType domain.PaxType, quantity int) (*Quote, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !paxType.IsValid() {
		return nil, ErrInvalidPaxType
	}

	variant, err := s.variants.GetByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, variantRepo.ErrVariantNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("%w: Quote - get variant: %v", ErrInternal, err)
	}

	basePrice, hasBase, err := s.basePrice(ctx, variantID, paxType)
	if err != nil {
		return nil, err
	}

	rules, err := s.priceRules.ListByVariant(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("%w: Quote - list price rules: %v", ErrInternal, err)
	}

	winner := pickRule(rules, date, paxType)

	var unit decimal.Decimal
	var appliedRuleID *int64

	switch {
	case winner != nil && winner.PriceType == domain.PriceAbsolute:
		unit, _ = winner.AmountFor(paxType)
		appliedRuleID = &winner.ID
	case winner != nil && winner.PriceType == domain.PriceDelta:
		if !hasBase {
			s.logger.Warn("Quote: variant=%d pax=%s delta rule %d without base price",
				variantID, paxType, winner.ID)
			return nil, ErrNoApplicablePriceRule
		}
		delta, _ := winner.AmountFor(paxType)
		unit = basePrice.Add(delta)
		if unit.IsNegative() {
			unit = decimal.Zero
		}
		appliedRuleID = &winner.ID
	case hasBase:
		unit = basePrice
	default:
		return nil, ErrNoApplicablePriceRule
	}

	unitPrice := money.New(unit, variant.Currency)
	subtotal := unitPrice.MulInt(quantity)

	taxAmount := subtotal.Zero()
	if !variant.TaxIncluded && variant.TaxRatePct.IsPositive() {
		taxAmount = subtotal.ApplyPct(variant.TaxRatePct)
	}

	total, err := subtotal.Add(taxAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: Quote - sum total: %v", ErrInternal, err)
	}

	return &Quote{
		VariantID:     variantID,
		Date:          date,
		PaxType:       paxType,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		TaxAmount:     taxAmount,
		Total:         total.Round(),
		AppliedRuleID: appliedRuleID,
	}, nil
}

func (s *Service) basePrice(ctx context.Context, variantID int64, paxType domain.PaxType) (decimal.Decimal, bool, error) {
	prices, err := s.variants.GetBasePrices(ctx, variantID)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: get base prices: %v", ErrInternal, err)
	}
	for _, p := range prices {
		if p.PaxType == paxType {
			return p.Price, true, nil
		}
	}
	return decimal.Zero, false, nil
}

// pickRule выбирает победителя среди применимых правил:
// больший Priority, при равенстве — меньший ID
func pickRule(rules []*domain.PriceRule, date time.Time, paxType domain.PaxType) *domain.PriceRule {
	var winner *domain.PriceRule
	for _, rule := range rules {
		if !rule.MatchesDate(date) {
			continue
		}
		if _, ok := rule.AmountFor(paxType); !ok {
			continue
		}
		if winner == nil ||
			rule.Priority > winner.Priority ||
			(rule.Priority == winner.Priority && rule.ID < winner.ID) {
			winner = rule
		}
	}
	return winner
}
