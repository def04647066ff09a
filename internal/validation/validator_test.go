package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fuelstats/internal/logparser"
	"github.com/ginjaninja78/fuelstats/internal/types"
)

func completeSale() types.FuelTransaction {
	return types.FuelTransaction{
		Transaction: types.Transaction{
			ID:       "5001",
			Amount:   2500,
			Location: types.Outdoor,
			Tender:   types.Credit,
		},
		Volume:    10204,
		Grade:     types.Unleaded,
		Pump:      3,
		UnitPrice: 2450,
	}
}

func TestValidate_Complete(t *testing.T) {
	sale := completeSale()
	sale.CarWash = &types.CarWashTransaction{Tier: types.Super}

	res := Validate(&logparser.DayResult{
		Fuel:      []types.FuelTransaction{sale},
		CarWashes: []types.CarWashTransaction{{Tier: types.Deluxe}},
	})

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, res.TransactionsValidated)
	assert.Equal(t, "No validation errors.", FormatErrors(res.Errors))
}

func TestValidateFuel_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.FuelTransaction)
		field  string
	}{
		{"grade", func(f *types.FuelTransaction) { f.Grade = "" }, "grade"},
		{"tender", func(f *types.FuelTransaction) { f.Tender = "" }, "tender"},
		{"volume", func(f *types.FuelTransaction) { f.Volume = 0 }, "volume"},
		{"pump", func(f *types.FuelTransaction) { f.Pump = 0 }, "pump"},
		{"amount", func(f *types.FuelTransaction) { f.Amount = -100 }, "amount"},
		{"wash tier", func(f *types.FuelTransaction) { f.CarWash = &types.CarWashTransaction{} }, "car_wash.tier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := completeSale()
			tt.mutate(&sale)

			errs := ValidateFuel(&sale)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, SeverityWarning, errs[0].Severity)
		})
	}
}

func TestValidate_WarningsKeepRecords(t *testing.T) {
	bad := completeSale()
	bad.Volume = 0
	bad.Tender = ""
	day := &logparser.DayResult{
		Fuel:      []types.FuelTransaction{bad, completeSale()},
		CarWashes: []types.CarWashTransaction{{Transaction: types.Transaction{ID: "5006"}}},
	}

	res := Validate(day)
	assert.True(t, res.IsValid, "warnings do not invalidate the day")
	assert.Equal(t, 3, res.WarningCount)
	assert.Zero(t, res.ErrorCount)
	assert.Len(t, day.Fuel, 2)

	diags := res.Diagnostics()
	require.Len(t, diags, 3)
	assert.Equal(t, logparser.Diagnostic{
		Severity: logparser.SeverityWarning,
		Kind:     logparser.KindInvalidTransaction,
		TxnID:    "5001",
		Message:  "tender: tender is missing",
	}, diags[0])
	assert.Equal(t, "5006", diags[2].TxnID)
}

func TestFormatErrors(t *testing.T) {
	text := FormatErrors([]*ValidationError{
		warning("5001", "pump", "0", "positive", "pump number must be greater than zero"),
	})
	assert.Equal(t,
		"Validation completed with 1 error(s):\n"+
			"1. [WARNING] Transaction 5001, Field 'pump': pump number must be greater than zero (value: '0')\n",
		text)
}
