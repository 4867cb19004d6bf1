package model

import (
	"fmt"
	"math/big"
)

// ValidateMilestones checks the milestone split against the job budget
// before a creation call is wasted: every amount must be a positive
// integer and the amounts must sum exactly to the budget. A job without
// milestones is valid, the budget is then a single payout.
func ValidateMilestones(budget string, milestones []Milestone) (err error) {
	total, ok := new(big.Int).SetString(budget, 10)
	if !ok || total.Sign() <= 0 {
		return fmt.Errorf("malformed budget: %q", budget)
	}
	if len(milestones) == 0 {
		return nil
	}

	sum := new(big.Int)
	for _, milestone := range milestones {
		amount, ok := new(big.Int).SetString(milestone.Amount, 10)
		if !ok || amount.Sign() <= 0 {
			return fmt.Errorf("milestone %d needs a positive amount", milestone.Index)
		}
		sum.Add(sum, amount)
	}

	switch sum.Cmp(total) {
	case -1:
		return fmt.Errorf("milestone amounts leave %s of the budget unallocated", new(big.Int).Sub(total, sum))
	case 1:
		return fmt.Errorf("milestone amounts exceed the budget by %s", new(big.Int).Sub(sum, total))
	}
	return nil
}
