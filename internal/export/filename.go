package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/teslaing/cotizador/internal/models"
)

// Filename builds the suggested download name: prefix, quote version, and
// date, for example "cotizacion_v1.2_2026-08-29.pdf". Characters that are
// unsafe in filenames are replaced with underscores.
func Filename(prefix string, version models.Version, date time.Time, ext string) string {
	return fmt.Sprintf("%s_v%s_%s.%s",
		sanitizeName(prefix), version.String(), date.Format("2006-01-02"), ext)
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
