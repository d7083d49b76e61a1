package valueobject

import (
	"fmt"

	"github.com/mekaniko-ph/mekaniko-backend/internal/pkg/apperror"
)

type Money struct {
	Amount   float64
	Currency string
}

func NewMoney(amount float64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "amount cannot be negative")
	}
	if currency == "" {
		currency = "PHP"
	}
	return Money{Amount: amount, Currency: currency}, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%s %.2f", m.Currency, m.Amount)
}
