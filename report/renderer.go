// Package report 將彙總後的購物清單輸出成PDF
package report

import (
	"bytes"
	"errors"
	"fmt"
	"foodgram/shopping"
	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/sfnt"
	"os"
)

const (
	Filename    = "ingredients.pdf"
	ContentType = "application/pdf"
	Title       = "Список ингредиентов в корзине:"

	fontFamily = "DejaVuSans"
	fontSize   = 12

	// Letter 尺寸，單位pt，座標原點在左上角
	pageWidth    = 612.0
	pageHeight   = 792.0
	marginTop    = 42.0
	marginBottom = 42.0
	marginLeft   = 50.0
	unitIndent   = 20.0
	nameSpacing  = 20.0
	unitSpacing  = 15.0
)

var ErrMissingFontResource = errors.New("missing font resource")

// ContentDisposition 下載購物清單時的 Content-Disposition
func ContentDisposition() string {
	return fmt.Sprintf("inline; filename=%q", Filename)
}

type textLine struct {
	X    float64
	Y    float64
	Text string
}

type page []textLine

// layout 計算每一行的位置，超出頁面底部時換頁
func layout(groups []shopping.Group) []page {
	pages := []page{{{X: marginLeft, Y: marginTop, Text: Title}}}
	y := marginTop

	place := func(x, spacing float64, text string) {
		y += spacing
		if y > pageHeight-marginBottom {
			pages = append(pages, page{})
			y = marginTop
		}
		last := len(pages) - 1
		pages[last] = append(pages[last], textLine{X: x, Y: y, Text: text})
	}

	for _, group := range groups {
		place(marginLeft, nameSpacing, group.Name+":")
		for _, unit := range group.Units {
			place(marginLeft+unitIndent, unitSpacing, fmt.Sprintf("- %d %s", unit.Amount, unit.Unit))
		}
	}
	return pages
}

// Renderer 以指定字型輸出PDF
type Renderer struct {
	FontPath string
}

func NewRenderer(fontPath string) *Renderer {
	return &Renderer{FontPath: fontPath}
}

// 讀取並檢查字型，失敗即回傳 ErrMissingFontResource，不使用替代字型
func (r *Renderer) loadFont() ([]byte, error) {
	font, err := os.ReadFile(r.FontPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingFontResource, err)
	}
	if _, err := sfnt.Parse(font); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingFontResource, r.FontPath, err)
	}
	return font, nil
}

// Render 輸出購物清單PDF
func (r *Renderer) Render(totals *shopping.Totals) ([]byte, error) {
	font, err := r.loadFont()
	if err != nil {
		return nil, err
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle("ingredients", true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", font)
	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrMissingFontResource, pdf.Error())
	}

	for _, p := range layout(totals.Groups()) {
		pdf.AddPage()
		pdf.SetFont(fontFamily, "", fontSize)
		for _, line := range p {
			pdf.Text(line.X, line.Y, line.Text)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
