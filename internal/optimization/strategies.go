package optimization

import (
	"sort"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/sequencing"
)

// CompareWithdrawalStrategies ranks the curated withdrawal orders by TANW
func CompareWithdrawalStrategies(s domain.Scenario) domain.WithdrawalComparisonResult {
	return NewOptimizer().CompareWithdrawalStrategies(s)
}

// CompareWithdrawalStrategies ranks the curated withdrawal orders by TANW.
// Best and worst are the first strict extremes in curated order; Strategies is
// sorted by TANW descending with ties kept in curated order.
func (o *Optimizer) CompareWithdrawalStrategies(s domain.Scenario) domain.WithdrawalComparisonResult {
	orders := sequencing.CommonWithdrawalOrders()
	candidates := make([]candidate, len(orders))
	for i, named := range orders {
		c := s.Clone()
		c.WithdrawalOrder = named.Order
		candidates[i] = candidate{label: named.Label, scenario: c}
	}
	summaries := o.pool.Evaluate(o.engine, candidates, o.progress)

	var result domain.WithdrawalComparisonResult
	strategies := make([]domain.WithdrawalStrategyResult, len(orders))
	for i, named := range orders {
		sr := domain.WithdrawalStrategyResult{
			Label:      named.Label,
			Order:      named.Order,
			TANW:       summaries[i].FinalTANW,
			TotalTaxes: summaries[i].TotalTaxesPaid,
			FinalTotal: summaries[i].FinalTotal,
		}
		strategies[i] = sr

		if i == 0 || sr.TANW.GreaterThan(result.Best.TANW) {
			result.Best = sr
		}
		if i == 0 || sr.TANW.LessThan(result.Worst.TANW) {
			result.Worst = sr
		}
		if sequencing.Equal(named.Order, s.WithdrawalOrder) {
			current := sr
			result.Current = &current
		}
	}

	sort.SliceStable(strategies, func(i, j int) bool {
		return strategies[i].TANW.GreaterThan(strategies[j].TANW)
	})
	result.Strategies = strategies
	return result
}
