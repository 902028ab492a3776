package domain

import (
	"errors"
	"fmt"
	"time"
)

// CategoryKind tells whether entries in a category add to or subtract from
// the balance.
type CategoryKind string

const (
	KindIncome  CategoryKind = "income"
	KindExpense CategoryKind = "expense"
)

func (k CategoryKind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

// Member statuses.
const (
	MemberActive   = "active"
	MemberInactive = "inactive"
)

// DuesCategoryName is the reserved income category that holds member dues
// payments. It is created at startup and cannot be deactivated.
const DuesCategoryName = "Cuotas de Socios"

var ErrCategoryNotFound = errors.New("category not found")
var ErrCategoryInactive = errors.New("category is inactive")
var ErrDuplicateCategory = errors.New("category name already exists")
var ErrMemberNotFound = errors.New("member not found")
var ErrEntryNotFound = errors.New("ledger entry not found")
var ErrDuplicateDuesPayment = errors.New("dues already paid for this month")

// Category classifies ledger entries as income or expense.
type Category struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Kind      CategoryKind `json:"kind" gorm:"size:10;not null;index"`
	Active    bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Member is a dues-paying member (socio), distinct from a beneficiary.
type Member struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Code             string    `json:"code" gorm:"size:20;uniqueIndex;not null"`
	FullName         string    `json:"full_name" gorm:"size:150;not null;index"`
	DocumentNumber   string    `json:"document_number" gorm:"size:30;index"`
	Phone            string    `json:"phone" gorm:"size:30"`
	Email            string    `json:"email" gorm:"size:150"`
	Status           string    `json:"status" gorm:"size:10;not null;default:active;index"`
	MonthlyDuesCents int64     `json:"monthly_dues_cents" gorm:"not null"`
	JoinedAt         time.Time `json:"joined_at" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// LedgerEntry is one categorized financial transaction. Entries are never
// hard-deleted; a correction is a new entry.
type LedgerEntry struct {
	ID               uint         `json:"id" gorm:"primaryKey"`
	CategoryID       uint         `json:"category_id" gorm:"not null;index"`
	Kind             CategoryKind `json:"kind" gorm:"size:10;not null;index"`
	AmountCents      int64        `json:"amount_cents" gorm:"not null"`
	EntryDate        time.Time    `json:"entry_date" gorm:"not null;index"`
	Description      string       `json:"description" gorm:"size:250"`
	MemberID         *uint        `json:"member_id,omitempty" gorm:"index"`
	ReceiptNumber    string       `json:"receipt_number,omitempty" gorm:"size:20;index"`
	RecordedByUserID uint         `json:"recorded_by_user_id" gorm:"not null"`
	CreatedAt        time.Time    `json:"created_at"`
}

// ParseAmount converts a non-negative decimal currency string ("50", "50.5",
// "50.00") into cents. Digits beyond two decimals are rounded half-up.
func ParseAmount(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	var whole, frac int64
	var fracDigits int
	var seenDot bool
	var seenDigit bool
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			if seenDot {
				// keep three digits of fraction for rounding
				if fracDigits < 3 {
					frac = frac*10 + int64(r-'0')
					fracDigits++
				}
			} else {
				if whole > (1<<62)/10 {
					return 0, fmt.Errorf("amount too large: %s", s)
				}
				whole = whole*10 + int64(r-'0')
			}
		case r == '.':
			if seenDot {
				return 0, fmt.Errorf("invalid amount: %s", s)
			}
			seenDot = true
		default:
			return 0, fmt.Errorf("invalid amount: %s", s)
		}
	}
	if !seenDigit {
		return 0, fmt.Errorf("invalid amount: %s", s)
	}
	for fracDigits < 3 {
		frac *= 10
		fracDigits++
	}
	cents := whole*100 + frac/10
	if frac%10 >= 5 {
		cents++
	}
	return cents, nil
}

// FormatAmount renders cents as a two-decimal string ("5000" cents → "50.00").
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
