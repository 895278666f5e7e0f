package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
)

type moneyPayload struct {
	Amount *decimal.Decimal `binding:"required,money"`
}

type viewQuery struct {
	View string `binding:"omitempty,report_view"`
}

func TestMoney(t *testing.T) {
	Register()

	tests := []struct {
		name  string
		value *decimal.Decimal
		ok    bool
	}{
		{"whole", ptr("12"), true},
		{"cents", ptr("12.34"), true},
		{"zero", ptr("0"), true},
		{"trailing_zero_scale", ptr("1.500"), true},
		{"three_places", ptr("1.005"), false},
		{"negative", ptr("-0.01"), false},
		{"missing", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&moneyPayload{Amount: tt.value})
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestReportView(t *testing.T) {
	Register()

	for _, v := range []string{"", "monthly", "quarterly", "yearly"} {
		if err := binding.Validator.ValidateStruct(&viewQuery{View: v}); err != nil {
			t.Errorf("view %q: unexpected error %v", v, err)
		}
	}
	if err := binding.Validator.ValidateStruct(&viewQuery{View: "weekly"}); err == nil {
		t.Error("expected weekly to be rejected")
	}
}

func ptr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
