// =============================================================================
// Invoice Extractor - Default Configuration
// =============================================================================
//
// The default configuration encodes the trade-invoice layouts this pipeline
// was built for: mixed English/Chinese headers, piece-count based
// distribution, and the FOB compounding constants. A YAML config file only
// needs to override what differs.
//
// =============================================================================

package config

// Default returns the built-in configuration. The field list is ordered by
// matching priority: when two fields tie on a header cell, the earlier one
// wins.
func Default() *Config {
	return &Config{
		HeaderSearch: SearchWindow{
			RowStart: 1,
			RowEnd:   20,
			ColStart: 1,
			ColEnd:   30,
		},
		HeaderIdentificationPattern: `^(批次号|订单号|物料代码|总张数|净重|毛重|po|item|pcs|net|gross|TTX编号)$`,
		Fields: []FieldSpec{
			{
				Name:    "production_order_no",
				Aliases: []string{"production order number", "生产单号", "po", "入库单号", "PO NO.", "订单号", "TTX编号"},
				Types:   []string{"string"},
				Patterns: []string{
					`^(25|26|27)\d{5}-\d{2}$`,
				},
			},
			{
				Name:    "unit",
				Aliases: []string{"unit price", "单价", "price", "unit", "USD", "单价USD", "价格", "单价 USD"},
				Types:   []string{"numeric"},
			},
			{
				Name:    "po",
				Aliases: []string{"PO NO.", "po", "订单号", "order number", "order no", "Po Nb", "尺数", "客户订单号"},
				Types:   []string{"string", "numeric"},
			},
			{
				Name:    "item",
				Aliases: []string{"物料代码", "item no", "ITEM NO.", "item", "客户品名", "物料编码", "产品编号"},
				Types:   []string{"string"},
			},
			{
				Name:    "pcs",
				Aliases: []string{"pcs", "总张数", "张数"},
				Types:   []string{"numeric"},
			},
			{
				Name:    "net",
				Aliases: []string{"NW", "net weight", "净重kg", "净重", "net"},
				Types:   []string{"numeric"},
			},
			{
				Name:    "gross",
				Aliases: []string{"GW", "gross weight", "毛重", "gross", "毛重量KG", "重量KG", "重量", "毛重KG"},
				Types:   []string{"numeric"},
			},
			{
				Name:    "sqft",
				Aliases: []string{"sqft", "出货数量 (sf)", "尺数", "SF", "出货数量(sf)", "出货数量 SF", "尺码", "出货数量（SF）"},
				Types:   []string{"numeric"},
			},
			{
				Name:    "amount",
				Aliases: []string{"金额 USD", "金额USD", "金额", "USD", "amount", "总价", "Total Amount", "total"},
				Types:   []string{"numeric"},
			},
			{
				Name:    "date_recipt",
				Aliases: []string{"入库时间", "入库日期", "date receipt"},
				Types:   []string{"string"},
			},
			{
				Name:    "cbm",
				Aliases: []string{"cbm", "材积", "remarks", "备注", "remark", "低"},
				Types:   []string{"numeric", "string"},
				Patterns: []string{
					`^\d+(\.\d+)?\*\d+(\.\d+)?\*\d+(\.\d+)?$`,
				},
			},
			{
				Name:    "description",
				Aliases: []string{"description", "产品名称", "品名规格", "描述", "desc"},
				Types:   []string{"string"},
			},
			{
				Name:    "inv_no",
				Aliases: []string{"invoice no", "发票号码", "inv no"},
				Types:   []string{"string"},
			},
			{
				Name:    "inv_date",
				Aliases: []string{"invoice date", "发票日期", "inv date"},
				Types:   []string{"string", "numeric"},
			},
			{
				Name:    "inv_ref",
				Aliases: []string{"ref", "invoice ref", "ref no", "inv ref"},
				Types:   []string{"string"},
			},
			{
				Name:    "remarks",
				Aliases: []string{"cbm", "材积", "remarks", "备注", "remark", "低"},
				Types:   []string{"string"},
				Patterns: []string{
					`^\D+$`,
				},
			},
			{
				Name:    "dc",
				Aliases: []string{"批次号", "DC"},
				Types:   []string{"string"},
			},
			{
				Name:    "batch_no",
				Aliases: []string{"batch number", "批次号"},
				Types:   []string{"string"},
			},
			{
				Name:    "line_no",
				Aliases: []string{"line no", "行号"},
				Types:   []string{"string"},
			},
			{
				Name:    "direction",
				Aliases: []string{"direction", "内向"},
				Types:   []string{"string"},
			},
			{
				Name:    "production_date",
				Aliases: []string{"production date", "生产日期"},
				Types:   []string{"string"},
			},
			{
				Name:    "reference_code",
				Aliases: []string{"reference code", "ttx编号", "生产名称"},
				Types:   []string{"string"},
			},
			{
				Name:    "level",
				Aliases: []string{"grade", "等级"},
				Types:   []string{"string"},
			},
			{
				Name:    "pallet_count",
				Aliases: []string{"pallet count", "拖数", "PALLET", "件数", "托数"},
				Types:   []string{"numeric", "string"},
				Values:  []string{"1"},
				Patterns: []string{
					`^1$`,
				},
			},
			{
				Name:    "manual_no",
				Aliases: []string{"manual number", "手册号"},
				Types:   []string{"string"},
			},
		},
		HeaderlessPatterns: map[string][]string{
			"cbm": {
				`^\d+(\.\d+)?\*\d+(\.\d+)?\*\d+(\.\d+)?$`,
			},
		},
		StopField:    "item",
		MaxTableRows: 1000,
		Distribution: DistributionSettings{
			BasisField: "pcs",
			Fields:     []string{"net", "gross", "cbm"},
		},
		Precision: PrecisionSettings{
			CBM:     4,
			Default: 4,
		},
		Compounding: CompoundingSettings{
			ChunkSize:      2,
			IntraSeparator: "/",
			InterSeparator: "\n",
			POGroupSize:    5,
			CategoryMarker: "BUFFALO",
		},
		CSV: CSVSettings{
			Delimiter: ",",
		},
	}
}
