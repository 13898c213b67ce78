package bill_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billgen/internal/bill"
)

func TestOpt(t *testing.T) {
	some := bill.Some(12.5)
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)
	assert.Equal(t, "12.5", some.Format())

	none := bill.None[int64]()
	assert.False(t, none.Valid())
	assert.Equal(t, int64(9), none.Or(9))
	assert.Equal(t, "", none.Format())
}

func TestOpt_JSON(t *testing.T) {
	type row struct {
		Qty    bill.Opt[float64] `json:"qty"`
		Amount bill.Opt[int64]   `json:"amount"`
	}

	data, err := json.Marshal(row{Qty: bill.Some(2.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"qty":2.5,"amount":null}`, string(data))

	var decoded row
	require.NoError(t, json.Unmarshal([]byte(`{"qty":null,"amount":1500}`), &decoded))
	assert.False(t, decoded.Qty.Valid())
	assert.Equal(t, int64(1500), decoded.Amount.Or(0))

	require.NoError(t, json.Unmarshal([]byte(`{"qty":"","amount":""}`), &decoded))
	assert.False(t, decoded.Qty.Valid())
	assert.False(t, decoded.Amount.Valid())
}
