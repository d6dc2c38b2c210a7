package finance

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"cubograf/m/domain"
)

// Line is one row of the exported balancete.
type Line struct {
	Date        string  `json:"data"`
	Description string  `json:"descricao"`
	Value       float64 `json:"valor"`
}

type Totals struct {
	In      float64 `json:"entradas"`
	Out     float64 `json:"saidas"`
	Balance float64 `json:"saldo"`
}

// Balancete is the cash statement of one period.
type Balancete struct {
	Period      domain.Period `json:"periodo"`
	In          []Line        `json:"entradas"`
	Out         []Line        `json:"saidas"`
	Totals      Totals        `json:"totais"`
	GeneratedAt string        `json:"gerado_em"`
	GeneratedBy string        `json:"gerado_por"`
}

// BuildBalancete lists money in (orders finalized or ready for pickup) and
// money out (purchases and paid payables) for p, each sorted by date.
func BuildBalancete(p domain.Period, orders []domain.Order, purchases []domain.Purchase, payables []domain.Payable) Balancete {
	b := Balancete{Period: p, In: []Line{}, Out: []Line{}}
	for _, o := range orders {
		if o.Status != domain.StatusFinalized && o.Status != domain.StatusReadyForPickup {
			continue
		}
		if p.Contains(o.Date) {
			b.In = append(b.In, Line{
				Date:        o.Date,
				Description: "Ordem #" + strconv.FormatInt(o.ID, 10) + " - " + o.Client,
				Value:       o.Total,
			})
		}
	}
	for _, c := range purchases {
		if p.Contains(c.Date) {
			b.Out = append(b.Out, Line{Date: c.Date, Description: "Compra: " + c.Item, Value: c.Value})
		}
	}
	for _, c := range payables {
		if c.Status == domain.PayablePaid && p.Contains(c.PaidAt) {
			b.Out = append(b.Out, Line{Date: datePart(c.PaidAt), Description: "Conta: " + c.Description, Value: c.Value})
		}
	}
	sort.SliceStable(b.In, func(i, j int) bool { return b.In[i].Date < b.In[j].Date })
	sort.SliceStable(b.Out, func(i, j int) bool { return b.Out[i].Date < b.Out[j].Date })

	for _, l := range b.In {
		b.Totals.In += l.Value
	}
	for _, l := range b.Out {
		b.Totals.Out += l.Value
	}
	b.Totals.Balance = b.Totals.In - b.Totals.Out
	return b
}

func datePart(ts string) string {
	if len(ts) >= len(domain.DateLayout) {
		return ts[:len(domain.DateLayout)]
	}
	return ts
}

// WriteCSV writes the balancete as tipo,data,descricao,valor rows.
func (b Balancete) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"tipo", "data", "descricao", "valor"}}
	for _, l := range b.In {
		rows = append(rows, []string{"entrada", l.Date, textCell(l.Description), formatValue(l.Value)})
	}
	for _, l := range b.Out {
		rows = append(rows, []string{"saida", l.Date, textCell(l.Description), formatValue(l.Value)})
	}
	rows = append(rows,
		[]string{"total_entradas", "", "", formatValue(b.Totals.In)},
		[]string{"total_saidas", "", "", formatValue(b.Totals.Out)},
		[]string{"saldo", "", "", formatValue(b.Totals.Balance)},
	)
	if err := cw.WriteAll(rows); err != nil {
		return errors.Wrap(err, "write balancete csv")
	}
	return nil
}

// textCell quotes text that a spreadsheet would evaluate as a formula.
func textCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
