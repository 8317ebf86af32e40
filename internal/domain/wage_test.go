package domain

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAdditionalRowsYAML(t *testing.T) {
	src := `
- type: ob-percent
  label: Kväll
  hours: 8
  percent: 20
  include_in_vacation_base: true
- type: ob-fixed
  hours: 10
  amount_per_hour: 50
- type: overtime
  hours: 20
  factor: 1.5
- type: fixed-addition
  label: Bonus
  amount: 500
- type: deduction
  amount: 1200
`
	var rows AdditionalRows
	require.NoError(t, yaml.Unmarshal([]byte(src), &rows))
	require.Len(t, rows, 5)

	obp, ok := rows[0].(OBPercentRow)
	require.True(t, ok)
	assert.Equal(t, "Kväll", obp.Label)
	assert.True(t, obp.Hours.Equal(decimal.NewFromInt(8)))
	assert.True(t, obp.Percent.Equal(decimal.NewFromInt(20)))
	assert.True(t, obp.Include)

	obf := rows[1].(OBFixedRow)
	assert.True(t, obf.AmountPerHour.Equal(decimal.NewFromInt(50)))
	assert.False(t, obf.Include)

	ot := rows[2].(OvertimeRow)
	assert.True(t, ot.Factor.Equal(decimal.RequireFromString("1.5")))

	assert.Equal(t, RowFixedAddition, rows[3].Type())
	assert.Equal(t, "Bonus", rows[3].RowLabel())
	assert.Equal(t, RowDeduction, rows[4].Type())
	assert.True(t, rows[4].(DeductionRow).Amount.Equal(decimal.NewFromInt(1200)))
}

func TestAdditionalRowsRejectsBadRows(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		json    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "unknown type",
			yaml:    "- type: bonus\n  amount: 1\n",
			json:    `[{"type":"bonus","amount":1}]`,
			wantErr: ErrUnknownRowType,
		},
		{
			name:    "deduction carrying hours",
			yaml:    "- type: deduction\n  amount: 100\n  hours: 2\n",
			json:    `[{"type":"deduction","amount":100,"hours":2}]`,
			wantErr: ErrForeignRowField,
		},
		{
			name:    "overtime carrying percent",
			yaml:    "- type: overtime\n  hours: 2\n  percent: 50\n",
			json:    `[{"type":"overtime","hours":2,"percent":50}]`,
			wantErr: ErrForeignRowField,
		},
		{
			name:    "misspelled field",
			yaml:    "- type: overtime\n  hours: 2\n  factr: 1.5\n",
			json:    `[{"type":"overtime","hours":2,"factr":1.5}]`,
			wantMsg: `unknown field "factr"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/yaml", func(t *testing.T) {
			var rows AdditionalRows
			err := yaml.Unmarshal([]byte(tt.yaml), &rows)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Contains(t, err.Error(), "additional row 1")
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
		t.Run(tt.name+"/json", func(t *testing.T) {
			var rows AdditionalRows
			err := json.Unmarshal([]byte(tt.json), &rows)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestAdditionalRowsJSONKeepsDiscriminator(t *testing.T) {
	rows := AdditionalRows{
		OvertimeRow{Label: "Helg", Hours: decimal.NewFromInt(4), Factor: decimal.NewFromInt(2), Include: true},
		DeductionRow{Amount: decimal.NewFromInt(300)},
	}

	data, err := json.Marshal(rows)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"overtime"`)
	assert.Contains(t, string(data), `"type":"deduction"`)
	assert.NotContains(t, string(data), `"percent"`)

	var back AdditionalRows
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 2)
	assert.Equal(t, "Helg", back[0].RowLabel())
	assert.True(t, back[0].InVacationBase())
	assert.True(t, back[1].(DeductionRow).Amount.Equal(decimal.NewFromInt(300)))
}

func TestWageInputFromJSON(t *testing.T) {
	src := `{
		"period": {"start": "2025-09-01", "end": "2025-09-30"},
		"employee": {"name": "Anna Andersson", "id": "E-17"},
		"hourlyRate": 150,
		"roundingStep": "0.25",
		"regularHours": 160,
		"additionalRows": [{"type": "overtime", "hours": 20, "factor": 1.5}],
		"vacationPercent": 12,
		"vacationBase": {"regular": true}
	}`

	var in WageInput
	require.NoError(t, json.Unmarshal([]byte(src), &in))

	assert.Equal(t, NewDate(2025, time.September, 1), in.Period.Start)
	assert.Equal(t, "2025-09", in.Period.PayMonth())
	assert.Equal(t, "Anna Andersson", in.EmployeeName())
	assert.Equal(t, "E-17", in.EmployeeID())
	assert.Equal(t, "", in.EmployerName())
	assert.Equal(t, RoundingQuarter, in.RoundingStep)
	assert.True(t, in.HourlyRate.Equal(decimal.NewFromInt(150)))
	require.Len(t, in.AdditionalRows, 1)
	assert.Equal(t, RowOvertime, in.AdditionalRows[0].Type())
	assert.True(t, in.VacationBase.Regular)
	assert.False(t, in.VacationBase.OB)
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = ParseDate("2024-13-01")
	assert.Error(t, err)

	assert.Equal(t, "", Date{}.String())

	var y struct {
		D Date `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("d: 2025-01-31\n"), &y))
	assert.Equal(t, NewDate(2025, time.January, 31), y.D)

	data, err := json.Marshal(NewDate(2025, time.March, 3))
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-03"`, string(data))
}

func TestRoundingStep(t *testing.T) {
	step, ok := RoundingQuarter.Step()
	assert.True(t, ok)
	assert.True(t, step.Equal(decimal.RequireFromString("0.25")))

	step, ok = RoundingHalf.Step()
	assert.True(t, ok)
	assert.True(t, step.Equal(decimal.RequireFromString("0.5")))

	_, ok = RoundingNone.Step()
	assert.False(t, ok)
	_, ok = RoundingStep("").Step()
	assert.False(t, ok)
}

func TestAgeBracketContains(t *testing.T) {
	b := AgeBracket{MinAge: 18, MaxAge: 19}
	assert.False(t, b.Contains(17))
	assert.True(t, b.Contains(18))
	assert.True(t, b.Contains(19))
	assert.False(t, b.Contains(20))
}
