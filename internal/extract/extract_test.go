package extract

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestSupported(t *testing.T) {
	cases := map[string]bool{
		"metrado.txt":   true,
		"partidas.CSV":  true,
		"notas.md":      true,
		"metrado.xlsx":  true,
		"macro.xlsm":    true,
		"plano.pdf":     false,
		"foto.jpg":      false,
		"sin-extension": false,
	}
	for name, want := range cases {
		if got := Supported(name); got != want {
			t.Errorf("Supported(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestText_Plain(t *testing.T) {
	res, err := Text("metrado.txt", []byte("20 puntos de luz\n15 tomacorrientes\n"))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(res.Text, "tomacorrientes") {
		t.Errorf("text = %q", res.Text)
	}
	if res.Partial {
		t.Error("short text marked partial")
	}
}

func TestText_UnsupportedIsEmptyNoError(t *testing.T) {
	res, err := Text("plano.pdf", []byte{0x25, 0x50, 0x44, 0x46})
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if res.Text != "" {
		t.Errorf("text = %q, want empty for unsupported format", res.Text)
	}
}

func TestText_RejectsBinaryDisguisedAsTxt(t *testing.T) {
	if _, err := Text("raro.txt", []byte{0xff, 0xfe, 0x00, 0x81}); err == nil {
		t.Error("expected error for invalid UTF-8")
	}
}

func TestText_Truncates(t *testing.T) {
	big := strings.Repeat("á", MaxExcerpt) // 2 bytes per rune
	res, err := Text("grande.txt", []byte(big))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !res.Partial {
		t.Error("oversized text not marked partial")
	}
	if len(res.Text) > MaxExcerpt {
		t.Errorf("len = %d, want <= %d", len(res.Text), MaxExcerpt)
	}
	if !strings.HasSuffix(res.Text, "á") {
		t.Error("truncation split a rune")
	}
}

func TestText_Workbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetCellValue(sheet, "A1", "Partida")
	_ = f.SetCellValue(sheet, "B1", "Cantidad")
	_ = f.SetCellValue(sheet, "A2", "Punto de luz")
	_ = f.SetCellValue(sheet, "B2", 20)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	res, err := Text("metrado.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(res.Text, "Punto de luz") || !strings.Contains(res.Text, "20") {
		t.Errorf("workbook text = %q", res.Text)
	}
	if !strings.Contains(res.Text, "["+sheet+"]") {
		t.Error("sheet name header missing")
	}
}

func TestText_CorruptWorkbook(t *testing.T) {
	if _, err := Text("roto.xlsx", []byte("not a zip")); err == nil {
		t.Error("expected error for corrupt workbook")
	}
}
