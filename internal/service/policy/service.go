package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	policyRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/policy"
)

// fullFeePct штраф по умолчанию: без политики (или без подошедшего
// правила) отмена удерживает всю сумму
var fullFeePct = decimal.NewFromInt(100)

// Service рассчитывает процент штрафа за отмену по политике варианта
type Service struct {
	policies PolicyRepository
	logger   Logger
}

// NewService создает новый policy-сервис
func NewService(policies PolicyRepository, logger Logger) *Service {
	return &Service{
		policies: policies,
		logger:   logger,
	}
}

// FeeFor возвращает процент штрафа за отмену за (departureAt - now)
// часов до отправления. Правила перебираются по убыванию before_hours,
// побеждает первое с before_hours <= часов до отправления (граница
// включительно). Отмена после отправления, отсутствие политики или
// подходящего правила — 100 процентов, это не ошибка.
func (s *Service) FeeFor(ctx context.Context, variantID int64, departureAt, now time.Time) (decimal.Decimal, error) {
	if !departureAt.After(now) {
		return fullFeePct, nil
	}

	p, err := s.policies.GetByVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Warn("FeeFor: variant=%d has no cancellation policy, full fee applied", variantID)
			return fullFeePct, nil
		}
		return decimal.Zero, fmt.Errorf("%w: FeeFor - get policy: %v", ErrInternal, err)
	}

	hoursBefore := departureAt.Sub(now).Hours()
	for _, rule := range p.SortedRules() {
		if float64(rule.BeforeHours) <= hoursBefore {
			return rule.FeePct, nil
		}
	}

	s.logger.Warn("FeeFor: variant=%d no rule matches %.1f hours before departure, full fee applied",
		variantID, hoursBefore)
	return fullFeePct, nil
}
