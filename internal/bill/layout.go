package bill

import "fmt"

// Columns maps the logical fields of a line item to sheet column indexes.
type Columns struct {
	SerialNo    int `json:"serial_no"`
	Description int `json:"description"`
	Unit        int `json:"unit"`
	Quantity    int `json:"quantity"`
	Rate        int `json:"rate"`
	Remark      int `json:"remark"`
}

// SheetLayout describes where header metadata and data rows live in a sheet.
type SheetLayout struct {
	HeaderRows   int     `json:"header_rows"`
	HeaderCols   int     `json:"header_cols"`
	DataStartRow int     `json:"data_start_row"`
	Columns      Columns `json:"columns"`
}

// Layout is the positional contract for the three input sheets. Bill Quantity
// rows are aligned with Work Order rows, so only its quantity column is read.
type Layout struct {
	WorkOrder       SheetLayout `json:"work_order"`
	BillQuantityCol int         `json:"bill_quantity_col"`
	ExtraItems      SheetLayout `json:"extra_items"`
}

// DefaultLayout returns the layout of the standard contractor bill workbook.
// Column 5 of the Work Order is intentionally unused. Extra Items data starts
// at row 6 and swaps the description and remark columns.
func DefaultLayout() Layout {
	return Layout{
		WorkOrder: SheetLayout{
			HeaderRows:   19,
			HeaderCols:   7,
			DataStartRow: 21,
			Columns: Columns{
				SerialNo:    0,
				Description: 1,
				Unit:        2,
				Quantity:    3,
				Rate:        4,
				Remark:      6,
			},
		},
		BillQuantityCol: 3,
		ExtraItems: SheetLayout{
			HeaderRows:   19,
			HeaderCols:   7,
			DataStartRow: 6,
			Columns: Columns{
				SerialNo:    0,
				Remark:      1,
				Description: 2,
				Quantity:    3,
				Unit:        4,
				Rate:        5,
			},
		},
	}
}

// LayoutField is one positional setting, addressed by a dotted key such as
// "work_order.columns.rate".
type LayoutField struct {
	Key   string
	Value *int
}

// Fields lists every setting of l with a pointer into l, so callers can read
// or overwrite them by key.
func (l *Layout) Fields() []LayoutField {
	fields := []LayoutField{{"bill_quantity_col", &l.BillQuantityCol}}
	for _, sheet := range []struct {
		prefix string
		layout *SheetLayout
	}{
		{"work_order", &l.WorkOrder},
		{"extra_items", &l.ExtraItems},
	} {
		sl, p := sheet.layout, sheet.prefix+"."
		fields = append(fields,
			LayoutField{p + "header_rows", &sl.HeaderRows},
			LayoutField{p + "header_cols", &sl.HeaderCols},
			LayoutField{p + "data_start_row", &sl.DataStartRow},
			LayoutField{p + "columns.serial_no", &sl.Columns.SerialNo},
			LayoutField{p + "columns.description", &sl.Columns.Description},
			LayoutField{p + "columns.unit", &sl.Columns.Unit},
			LayoutField{p + "columns.quantity", &sl.Columns.Quantity},
			LayoutField{p + "columns.rate", &sl.Columns.Rate},
			LayoutField{p + "columns.remark", &sl.Columns.Remark},
		)
	}
	return fields
}

// Validate rejects negative offsets.
func (l Layout) Validate() error {
	for _, f := range l.Fields() {
		if *f.Value < 0 {
			return fmt.Errorf("%w: %s is negative (%d)", ErrInvalidLayout, f.Key, *f.Value)
		}
	}
	return nil
}
