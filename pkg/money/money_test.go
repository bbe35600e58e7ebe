package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetFromGross(t *testing.T) {
	tests := []struct {
		name    string
		gross   Cents
		rate    int
		wantNet Cents
		wantVAT Cents
	}{
		{"standard rate", 12200, 22, 10000, 2200},
		{"reduced rate", 11000, 10, 10000, 1000},
		{"minimum rate", 10400, 4, 10000, 400},
		{"exempt", 10000, 0, 10000, 0},
		{"rounding 22", 6000, 22, 4918, 1082},
		{"rounding 10", 5000, 10, 4545, 455},
		{"zero amount", 0, 22, 0, 0},
		{"single cent", 1, 22, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, vat := NetFromGross(tt.gross, tt.rate)
			assert.Equal(t, tt.wantNet, net)
			assert.Equal(t, tt.wantVAT, vat)
		})
	}
}

// net + vat must reconstruct the gross exactly for every rate in use.
func TestNetFromGrossReconstruction(t *testing.T) {
	rates := []int{0, 4, 10, 22}
	for gross := Cents(0); gross <= 100000; gross += 37 {
		for _, rate := range rates {
			net, vat := NetFromGross(gross, rate)
			require.Equal(t, gross, net+vat, "gross=%d rate=%d", gross, rate)
			if rate == 0 {
				require.Equal(t, gross, net)
				require.Zero(t, vat)
			}
		}
	}
}

func TestFromFloat(t *testing.T) {
	assert.Equal(t, Cents(12200), FromFloat(122.00))
	assert.Equal(t, Cents(1982), FromFloat(19.82))
	assert.Equal(t, Cents(10), FromFloat(0.1))
	assert.Equal(t, Cents(-550), FromFloat(-5.50))
	// Classic float representation traps.
	assert.Equal(t, Cents(29), FromFloat(0.29))
	assert.Equal(t, Cents(58), FromFloat(0.1+0.2+0.28))
}

func TestString(t *testing.T) {
	assert.Equal(t, "122.00", Cents(12200).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-10.82", Cents(-1082).String())
	assert.Equal(t, "0.00", Cents(0).String())
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Cents(1082))
	require.NoError(t, err)
	assert.Equal(t, "10.82", string(data))

	var c Cents
	require.NoError(t, json.Unmarshal([]byte("110.00"), &c))
	assert.Equal(t, Cents(11000), c)

	require.NoError(t, json.Unmarshal([]byte("-45.5"), &c))
	assert.Equal(t, Cents(-4550), c)
}

func TestSum(t *testing.T) {
	assert.Equal(t, Cents(11000), Sum(6000, 5000))
	assert.Equal(t, Cents(0), Sum())
	assert.Equal(t, Cents(-1000), Sum(2000, -3000))
}
