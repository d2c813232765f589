package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/assistravel/casedesk/internal/domain"
)

// Header is the fixed CSV header row of the export contract.
const Header = "Numero Caso,Corresponsal,Fecha Inicio,Estado Interno,Estado del Caso,FEE,Costo USD,Observaciones"

const exportDateLayout = "2006-01-02"

// CSV renders the export content: the header plus one row per case, in the
// given order. Only the notes column is quoted; monetary columns are empty
// when the case has no invoice or no amount. Assembled by hand because the
// contract fixes the exact shape, which encoding/csv's conditional quoting
// would not reproduce.
func CSV(cases []domain.Case) string {
	lines := make([]string, 0, len(cases)+1)
	lines = append(lines, Header)
	for i := range cases {
		c := &cases[i]

		correspondent := ""
		if c.Correspondent != nil {
			correspondent = c.Correspondent.Name
		}

		fee := ""
		costUSD := ""
		if c.Invoice != nil {
			fee = formatAmount(c.Invoice.Fee)
			costUSD = formatAmount(c.Invoice.CostUSD)
		}

		lines = append(lines, strings.Join([]string{
			c.CaseNumber,
			correspondent,
			c.StartDate.Format(exportDateLayout),
			string(c.InternalStatus),
			string(c.BillingStatus),
			fee,
			costUSD,
			`"` + c.Notes + `"`,
		}, ","))
	}
	return strings.Join(lines, "\n")
}

// Filename encodes the export date, e.g. reporte_casos_2026-08-29.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("reporte_casos_%s.csv", now.Format(exportDateLayout))
}

func formatAmount(amount *float64) string {
	if amount == nil || *amount == 0 {
		return ""
	}
	return strconv.FormatFloat(*amount, 'f', -1, 64)
}
