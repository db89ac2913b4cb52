package validator

import (
	"errors"
	"math"
	"testing"
	"time"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/models"
)

type colorInput struct {
	Color string `json:"color" validate:"required,hex_color"`
}

type amountInput struct {
	AccountID   string                 `json:"accountId" validate:"required,uuid"`
	Type        models.TransactionType `json:"type" validate:"required,transaction_type"`
	Amount      float64                `json:"amount" validate:"finite,gt=0"`
	Description string                 `json:"description" validate:"max=200"`
}

type accountInput struct {
	Name         string             `json:"name" validate:"required,max=100"`
	Type         models.AccountType `json:"type" validate:"required,account_type"`
	Currency     string             `json:"currency" validate:"len=3"`
	InterestRate *float64           `json:"interestRate" validate:"omitempty,gte=0,lte=100"`
}

type datedInput struct {
	Period    models.BudgetPeriod `json:"period" validate:"required,budget_period"`
	StartDate time.Time           `json:"startDate"`
	EndDate   *time.Time          `json:"endDate"`
}

func (d datedInput) CheckFields() []FieldError {
	return EndAfterStart("endDate", d.StartDate, d.EndDate)
}

func fieldsOf(t *testing.T, err error) []FieldError {
	t.Helper()
	var verrs *Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected *Errors, got %T: %v", err, err)
	}
	return verrs.Fields
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		color string
		valid bool
	}{
		{"#FFFFFF", true},
		{"#a1b2c3", true},
		{"#FFF", false},
		{"red", false},
		{"FFFFFF", false},
		{"#GGGGGG", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			err := Struct(colorInput{Color: tt.color})
			if tt.valid && err != nil {
				t.Errorf("expected %q to pass, got %v", tt.color, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("expected %q to fail", tt.color)
			}
		})
	}
}

func TestTransactionAmount(t *testing.T) {
	base := amountInput{
		AccountID: "0190a4a8-7c1e-7cc3-9a53-0b2f0c6f7d11",
		Type:      models.TransactionTypeExpense,
	}

	t.Run("zero_is_not_positive", func(t *testing.T) {
		in := base
		in.Amount = 0
		fields := fieldsOf(t, Struct(in))
		if len(fields) != 1 || fields[0].Field != "amount" || fields[0].Message != "must be positive" {
			t.Errorf("unexpected fields: %+v", fields)
		}
	})

	t.Run("one_cent_passes", func(t *testing.T) {
		in := base
		in.Amount = 0.01
		if err := Struct(in); err != nil {
			t.Errorf("expected 0.01 to pass, got %v", err)
		}
	})

	t.Run("negative_fails", func(t *testing.T) {
		in := base
		in.Amount = -5
		if err := Struct(in); err == nil {
			t.Error("expected negative amount to fail")
		}
	})

	t.Run("infinite_fails", func(t *testing.T) {
		in := base
		in.Amount = math.Inf(1)
		fields := fieldsOf(t, Struct(in))
		if fields[0].Message != "must be a finite number" {
			t.Errorf("unexpected message %q", fields[0].Message)
		}
	})

	t.Run("invalid_account_id", func(t *testing.T) {
		in := base
		in.Amount = 10
		in.AccountID = "not-a-uuid"
		fields := fieldsOf(t, Struct(in))
		if fields[0].Field != "accountId" {
			t.Errorf("expected accountId field, got %q", fields[0].Field)
		}
	})
}

func TestAccountRules(t *testing.T) {
	rate := 101.0
	in := accountInput{
		Name:         "",
		Type:         "BROKERAGE",
		Currency:     "US",
		InterestRate: &rate,
	}

	fields := fieldsOf(t, Struct(in))
	got := map[string]string{}
	for _, f := range fields {
		got[f.Field] = f.Message
	}

	want := map[string]string{
		"name":         "is required",
		"currency":     "must be exactly 3 characters",
		"interestRate": "must be at most 100",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: got %q, want %q", field, got[field], msg)
		}
	}
	if _, ok := got["type"]; !ok {
		t.Error("expected type error")
	}
	if len(fields) != 4 {
		t.Errorf("expected 4 field errors, got %d", len(fields))
	}
}

func TestFieldChecker(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	same := start
	later := start.AddDate(0, 1, 0)

	if err := Struct(datedInput{Period: models.BudgetPeriodMonthly, StartDate: start, EndDate: &later}); err != nil {
		t.Errorf("expected later end date to pass, got %v", err)
	}
	if err := Struct(datedInput{Period: models.BudgetPeriodMonthly, StartDate: start}); err != nil {
		t.Errorf("expected missing end date to pass, got %v", err)
	}

	fields := fieldsOf(t, Struct(datedInput{Period: models.BudgetPeriodMonthly, StartDate: start, EndDate: &same}))
	if len(fields) != 1 || fields[0].Field != "endDate" {
		t.Errorf("unexpected fields: %+v", fields)
	}
}

func TestCheckReturnsAppError(t *testing.T) {
	err := Check(colorInput{Color: "red"})

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != "BAD_USER_INPUT" {
		t.Errorf("code = %q", appErr.Code)
	}
	if len(appErr.Fields) != 1 || appErr.Fields[0].Field != "color" {
		t.Errorf("unexpected fields: %+v", appErr.Fields)
	}

	if Check(colorInput{Color: "#000000"}) != nil {
		t.Error("expected valid input to pass")
	}
}

type namedInput struct {
	Name    string  `json:"name" validate:"required,notblank,max=100"`
	NewName *string `json:"newName" validate:"omitnil,notblank,max=100"`
}

func TestNotBlank(t *testing.T) {
	blank := " \t "
	renamed := "Savings"

	tests := []struct {
		name   string
		input  namedInput
		fields map[string]string
	}{
		{"valid", namedInput{Name: "Checking", NewName: &renamed}, nil},
		{"empty", namedInput{Name: ""}, map[string]string{"name": "is required"}},
		{"spaces only", namedInput{Name: "   "}, map[string]string{"name": "must not be blank"}},
		{"blank update", namedInput{Name: "Checking", NewName: &blank}, map[string]string{"newName": "must not be blank"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.fields == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			fields := fieldsOf(t, err)
			if len(fields) != len(tt.fields) {
				t.Fatalf("expected %d field errors, got %+v", len(tt.fields), fields)
			}
			for _, f := range fields {
				if tt.fields[f.Field] != f.Message {
					t.Errorf("%s: got %q, want %q", f.Field, f.Message, tt.fields[f.Field])
				}
			}
		})
	}
}
