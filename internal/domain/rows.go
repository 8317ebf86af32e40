package domain

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RowType is the discriminator of an additional pay row
type RowType string

const (
	RowOBPercent     RowType = "ob-percent"
	RowOBFixed       RowType = "ob-fixed"
	RowOvertime      RowType = "overtime"
	RowFixedAddition RowType = "fixed-addition"
	RowDeduction     RowType = "deduction"
)

// AdditionalRow is one of OBPercentRow, OBFixedRow, OvertimeRow,
// FixedAdditionRow or DeductionRow. The set is closed.
type AdditionalRow interface {
	Type() RowType
	RowLabel() string
	InVacationBase() bool
	isAdditionalRow()
}

// OBPercentRow is an inconvenient-hours premium priced as a percentage of the hourly rate
type OBPercentRow struct {
	Label   string
	Hours   decimal.Decimal
	Percent decimal.Decimal
	Include bool
}

// OBFixedRow is an inconvenient-hours premium with its own amount per hour
type OBFixedRow struct {
	Label         string
	Hours         decimal.Decimal
	AmountPerHour decimal.Decimal
	Include       bool
}

// OvertimeRow is overtime priced as hourly rate times factor
type OvertimeRow struct {
	Label   string
	Hours   decimal.Decimal
	Factor  decimal.Decimal
	Include bool
}

// FixedAdditionRow is a lump sum addition
type FixedAdditionRow struct {
	Label   string
	Amount  decimal.Decimal
	Include bool
}

// DeductionRow is a lump sum deduction. The sign of Amount is ignored.
type DeductionRow struct {
	Label   string
	Amount  decimal.Decimal
	Include bool
}

func (OBPercentRow) Type() RowType     { return RowOBPercent }
func (OBFixedRow) Type() RowType       { return RowOBFixed }
func (OvertimeRow) Type() RowType      { return RowOvertime }
func (FixedAdditionRow) Type() RowType { return RowFixedAddition }
func (DeductionRow) Type() RowType     { return RowDeduction }

func (r OBPercentRow) RowLabel() string     { return r.Label }
func (r OBFixedRow) RowLabel() string       { return r.Label }
func (r OvertimeRow) RowLabel() string      { return r.Label }
func (r FixedAdditionRow) RowLabel() string { return r.Label }
func (r DeductionRow) RowLabel() string     { return r.Label }

func (r OBPercentRow) InVacationBase() bool     { return r.Include }
func (r OBFixedRow) InVacationBase() bool       { return r.Include }
func (r OvertimeRow) InVacationBase() bool      { return r.Include }
func (r FixedAdditionRow) InVacationBase() bool { return r.Include }
func (r DeductionRow) InVacationBase() bool     { return r.Include }

func (OBPercentRow) isAdditionalRow()     {}
func (OBFixedRow) isAdditionalRow()       {}
func (OvertimeRow) isAdditionalRow()      {}
func (FixedAdditionRow) isAdditionalRow() {}
func (DeductionRow) isAdditionalRow()     {}

// AdditionalRows is an ordered list of rows that serializes with a "type" discriminator.
type AdditionalRows []AdditionalRow

var (
	// ErrUnknownRowType is returned for a discriminator outside the known set
	ErrUnknownRowType = errors.New("unknown row type")
	// ErrForeignRowField is returned when a row carries a field of another row type
	ErrForeignRowField = errors.New("field not allowed for row type")
)

// rowEnvelope is the flat wire form of a row
type rowEnvelope struct {
	Type          RowType          `yaml:"type" json:"type"`
	Label         string           `yaml:"label,omitempty" json:"label,omitempty"`
	Hours         *decimal.Decimal `yaml:"hours,omitempty" json:"hours,omitempty"`
	Percent       *decimal.Decimal `yaml:"percent,omitempty" json:"percent,omitempty"`
	AmountPerHour *decimal.Decimal `yaml:"amount_per_hour,omitempty" json:"amountPerHour,omitempty"`
	Factor        *decimal.Decimal `yaml:"factor,omitempty" json:"factor,omitempty"`
	Amount        *decimal.Decimal `yaml:"amount,omitempty" json:"amount,omitempty"`
	Include       bool             `yaml:"include_in_vacation_base" json:"includeInVacationBase"`
}

var (
	yamlRowKeys = map[string]bool{
		"type": true, "label": true, "hours": true, "percent": true,
		"amount_per_hour": true, "factor": true, "amount": true, "include_in_vacation_base": true,
	}
	jsonRowKeys = map[string]bool{
		"type": true, "label": true, "hours": true, "percent": true,
		"amountPerHour": true, "factor": true, "amount": true, "includeInVacationBase": true,
	}
)

// allowedPayload lists the payload fields each row type may carry
var allowedPayload = map[RowType]map[string]bool{
	RowOBPercent:     {"hours": true, "percent": true},
	RowOBFixed:       {"hours": true, "amount_per_hour": true},
	RowOvertime:      {"hours": true, "factor": true},
	RowFixedAddition: {"amount": true},
	RowDeduction:     {"amount": true},
}

func envelopeOf(row AdditionalRow) rowEnvelope {
	env := rowEnvelope{Type: row.Type(), Label: row.RowLabel(), Include: row.InVacationBase()}
	switch r := row.(type) {
	case OBPercentRow:
		env.Hours, env.Percent = ptr(r.Hours), ptr(r.Percent)
	case OBFixedRow:
		env.Hours, env.AmountPerHour = ptr(r.Hours), ptr(r.AmountPerHour)
	case OvertimeRow:
		env.Hours, env.Factor = ptr(r.Hours), ptr(r.Factor)
	case FixedAdditionRow:
		env.Amount = ptr(r.Amount)
	case DeductionRow:
		env.Amount = ptr(r.Amount)
	}
	return env
}

func (env rowEnvelope) row() (AdditionalRow, error) {
	allowed, ok := allowedPayload[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRowType, env.Type)
	}

	present := map[string]*decimal.Decimal{
		"hours":           env.Hours,
		"percent":         env.Percent,
		"amount_per_hour": env.AmountPerHour,
		"factor":          env.Factor,
		"amount":          env.Amount,
	}
	for name, v := range present {
		if v != nil && !allowed[name] {
			return nil, fmt.Errorf("%w: %s on %q", ErrForeignRowField, name, env.Type)
		}
	}

	switch env.Type {
	case RowOBPercent:
		return OBPercentRow{Label: env.Label, Hours: val(env.Hours), Percent: val(env.Percent), Include: env.Include}, nil
	case RowOBFixed:
		return OBFixedRow{Label: env.Label, Hours: val(env.Hours), AmountPerHour: val(env.AmountPerHour), Include: env.Include}, nil
	case RowOvertime:
		return OvertimeRow{Label: env.Label, Hours: val(env.Hours), Factor: val(env.Factor), Include: env.Include}, nil
	case RowFixedAddition:
		return FixedAdditionRow{Label: env.Label, Amount: val(env.Amount), Include: env.Include}, nil
	default:
		return DeductionRow{Label: env.Label, Amount: val(env.Amount), Include: env.Include}, nil
	}
}

// MarshalJSON implements json.Marshaler
func (rows AdditionalRows) MarshalJSON() ([]byte, error) {
	envs := make([]rowEnvelope, len(rows))
	for i, r := range rows {
		envs[i] = envelopeOf(r)
	}
	return json.Marshal(envs)
}

// UnmarshalJSON implements json.Unmarshaler
func (rows *AdditionalRows) UnmarshalJSON(data []byte) error {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("additional rows: %w", err)
	}

	out := make(AdditionalRows, 0, len(raw))
	for i, fields := range raw {
		for key := range fields {
			if !jsonRowKeys[key] {
				return fmt.Errorf("additional row %d: unknown field %q", i+1, key)
			}
		}
		var env rowEnvelope
		if err := remarshal(fields, &env); err != nil {
			return fmt.Errorf("additional row %d: %w", i+1, err)
		}
		row, err := env.row()
		if err != nil {
			return fmt.Errorf("additional row %d: %w", i+1, err)
		}
		out = append(out, row)
	}
	*rows = out
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (rows AdditionalRows) MarshalYAML() (interface{}, error) {
	envs := make([]rowEnvelope, len(rows))
	for i, r := range rows {
		envs[i] = envelopeOf(r)
	}
	return envs, nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (rows *AdditionalRows) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: additional rows must be a list", value.Line)
	}

	out := make(AdditionalRows, 0, len(value.Content))
	for i, item := range value.Content {
		if item.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: additional row %d must be a mapping", item.Line, i+1)
		}
		for k := 0; k+1 < len(item.Content); k += 2 {
			if key := item.Content[k].Value; !yamlRowKeys[key] {
				return fmt.Errorf("line %d: additional row %d: unknown field %q", item.Content[k].Line, i+1, key)
			}
		}
		var env rowEnvelope
		if err := item.Decode(&env); err != nil {
			return fmt.Errorf("line %d: additional row %d: %w", item.Line, i+1, err)
		}
		row, err := env.row()
		if err != nil {
			return fmt.Errorf("line %d: additional row %d: %w", item.Line, i+1, err)
		}
		out = append(out, row)
	}
	*rows = out
	return nil
}

func remarshal(fields map[string]json.RawMessage, v interface{}) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func val(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
