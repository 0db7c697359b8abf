package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimal_UnmarshalKeepsText(t *testing.T) {
	var p PredictionPayload
	require.NoError(t, json.Unmarshal([]byte(`{"riskScore":40,"waterLevel":0.53}`), &p))
	assert.Equal(t, Decimal("0.53"), p.WaterLevel)

	require.NoError(t, json.Unmarshal([]byte(`{"riskScore":40,"waterLevel":"2.0"}`), &p))
	assert.Equal(t, Decimal("2.0"), p.WaterLevel)
	assert.InDelta(t, 2.0, p.WaterLevel.Float64(), 1e-9)
}

func TestDecimal_UnmarshalRejectsGarbage(t *testing.T) {
	var p PredictionPayload
	err := json.Unmarshal([]byte(`{"waterLevel":"high"}`), &p)
	require.Error(t, err)
}

func TestDecimal_MarshalAsNumber(t *testing.T) {
	out, err := json.Marshal(PredictionPayload{RiskScore: 70, WaterLevel: "3.4"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"waterLevel":3.4`)

	out, err = json.Marshal(RiskAssessment{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"water_level":null`)
}

func TestDecimalFromFloat(t *testing.T) {
	assert.Equal(t, Decimal("2.5"), DecimalFromFloat(2.46, 1))
	assert.Equal(t, Decimal("0.53"), DecimalFromFloat(0.53, -1))
	assert.Equal(t, 0.0, Decimal("").Float64())
}

func TestDecimal_UnmarshalCanonicalizesLooseNumerals(t *testing.T) {
	tests := []struct {
		in   string
		want Decimal
	}{
		{`".5"`, "0.5"},
		{`"+1.5"`, "1.5"},
		{`"1."`, "1"},
		{`"-0.25"`, "-0.25"},
		{`"1e2"`, "1e2"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Decimal
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.Equal(t, tt.want, d)

			out, err := json.Marshal(DashboardState{Risk: RiskAssessment{WaterLevel: d}})
			require.NoError(t, err)
			assert.True(t, json.Valid(out))
		})
	}
}

func TestDecimal_UnmarshalRejectsNonFinite(t *testing.T) {
	for _, in := range []string{`"NaN"`, `"Inf"`, `"-Infinity"`, `"1e400"`} {
		var d Decimal
		assert.Error(t, json.Unmarshal([]byte(in), &d), in)
	}
}

func TestDecimal_MarshalRepairsLooseText(t *testing.T) {
	out, err := json.Marshal(RiskAssessment{WaterLevel: ".5"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"water_level":0.5`)

	_, err = json.Marshal(RiskAssessment{WaterLevel: "NaN"})
	assert.Error(t, err)
}
