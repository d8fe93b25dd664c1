package export

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/xuri/excelize/v2"
)

const amountFormat = "#,##0.00"

func cell(col rune, row int) string {
	return fmt.Sprintf("%c%d", col, row)
}

func defaultStyle() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Family: "Calibri",
			Size:   11,
		},
	}
}

func amountNumberFormat() *excelize.Style {
	f := amountFormat
	return &excelize.Style{
		CustomNumFmt: &f,
	}
}

func fontBold() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	}
}

func textAlignment(a string) *excelize.Style {
	return &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: a,
		},
	}
}

func thinBorder(where ...string) *excelize.Style {
	s := &excelize.Style{}
	for _, w := range where {
		s.Border = append(s.Border, excelize.Border{
			Type:  w,
			Color: "#000000",
			Style: 1,
		})
	}
	return s
}

func headerFill() *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#DDEBF7"},
			Pattern: 1,
		},
	}
}

func negativeRed() *excelize.Style {
	f := amountFormat + `;[Red]-` + amountFormat
	return &excelize.Style{
		CustomNumFmt: &f,
	}
}

// mergeStyles folds later styles into the first; later fields win.
func mergeStyles(ext ...*excelize.Style) *excelize.Style {
	if len(ext) == 0 {
		return nil
	}
	for _, e := range ext[1:] {
		_ = mergo.Merge(ext[0], e, mergo.WithOverride)
	}
	return ext[0]
}
