package bill_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billgen/internal/bill"
)

func TestLayout_Fields(t *testing.T) {
	layout := bill.DefaultLayout()
	fields := layout.Fields()
	require.Len(t, fields, 19)

	byKey := make(map[string]*int, len(fields))
	for _, f := range fields {
		_, dup := byKey[f.Key]
		require.False(t, dup, "duplicate key %s", f.Key)
		byKey[f.Key] = f.Value
	}
	assert.Equal(t, 21, *byKey["work_order.data_start_row"])
	assert.Equal(t, 3, *byKey["bill_quantity_col"])
	assert.Equal(t, 5, *byKey["extra_items.columns.rate"])

	*byKey["work_order.columns.remark"] = 9
	assert.Equal(t, 9, layout.WorkOrder.Columns.Remark)
	require.NoError(t, layout.Validate())

	*byKey["extra_items.columns.unit"] = -2
	err := layout.Validate()
	assert.ErrorIs(t, err, bill.ErrInvalidLayout)
	assert.Contains(t, err.Error(), "extra_items.columns.unit")
}
