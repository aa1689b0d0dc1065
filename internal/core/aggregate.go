package core

import "sort"

// CategoryAmount is an amount aggregated under a display label.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// SumExpensesByCategory groups expenses by display label and sums amounts.
// Empty input yields an empty, non-nil map. Unknown categories aggregate
// under their raw value.
func SumExpensesByCategory(expenses []Expense) map[string]Money {
	out := make(map[string]Money, len(expenses))
	for _, e := range expenses {
		label := e.Category.Label()
		out[label] = out[label].Add(e.Amount)
	}
	return out
}

// SumRevenuesByCategory groups revenues by display label and sums amounts.
func SumRevenuesByCategory(revenues []Revenue) map[string]Money {
	out := make(map[string]Money, len(revenues))
	for _, r := range revenues {
		label := r.Category.Label()
		out[label] = out[label].Add(r.Amount)
	}
	return out
}

// SumExpenseAmounts totals a slice of expenses.
func SumExpenseAmounts(expenses []Expense) Money {
	var total Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// SumRevenueAmounts totals a slice of revenues.
func SumRevenueAmounts(revenues []Revenue) Money {
	var total Money
	for _, r := range revenues {
		total = total.Add(r.Amount)
	}
	return total
}

// SumBudgetedAmounts totals budget rows. Category-specific rows and the
// "total" sentinel row are summed uniformly; callers that want the sentinel
// handled separately filter first.
func SumBudgetedAmounts(budgets []Budget) Money {
	var total Money
	for _, b := range budgets {
		total = total.Add(b.BudgetedAmount)
	}
	return total
}

// SortedCategoryNames returns the category names of an aggregate in
// alphabetical order.
func SortedCategoryNames(byCategory map[string]Money) []string {
	out := make([]string, 0, len(byCategory))
	for name := range byCategory {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SortedCategoryAmounts flattens a category aggregate into a deterministic
// display order: amount descending, ties broken by name.
func SortedCategoryAmounts(byCategory map[string]Money) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(byCategory))
	for name, amount := range byCategory {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}
