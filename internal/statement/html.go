package statement

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/DevTechCode/rachunek-bankowy/internal/common"
	"github.com/DevTechCode/rachunek-bankowy/internal/model"
	"github.com/DevTechCode/rachunek-bankowy/internal/money"
)

// HTMLReader reads table-based statement exports. There is no single
// guaranteed layout, so it works heuristically: pick the first table
// whose header row is recognizable, map columns by normalized header
// name (Polish and English variants), and treat every following row as
// a transaction.
type HTMLReader struct {
	assembler *assembler
}

func NewHTMLReader() *HTMLReader {
	return &HTMLReader{assembler: newAssembler()}
}

// Column name variants, normalized: diacritics stripped, spaces removed,
// lowercased.
var (
	dateHeaders     = []string{"dataoperacji", "orderdate", "data"}
	valDateHeaders  = []string{"datawaluty", "datarealizacji", "execdate", "valuedate"}
	typeHeaders     = []string{"typ", "type"}
	descHeaders     = []string{"opis", "description"}
	amountHeaders   = []string{"kwota", "amount"}
	balanceHeaders  = []string{"saldopo", "endingbalance", "saldo"}
	currencyHeaders = []string{"waluta", "currency"}
)

var currencyCode = regexp.MustCompile(`\b[A-Z]{3}\b`)

func (h *HTMLReader) Read(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	tables := findAll(doc, "table")
	if len(tables) == 0 {
		return nil, common.ErrNoTable
	}
	table, headerMap, headerRow := findTransactionTable(tables)
	if table == nil {
		return nil, common.ErrNoHeader
	}

	result := &Result{Meta: Meta{SourceFormat: "html"}}

	rows := findAll(table, "tr")
	for i, tr := range rows[headerRow+1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells := findAll(tr, "td")
		if len(cells) == 0 {
			continue
		}
		tx, err := h.convertRow(cells, headerMap)
		if err != nil {
			rowErr := &RowError{Path: fmt.Sprintf("table.row[%d]", i), Err: err}
			if !opts.BestEffort {
				return nil, rowErr
			}
			result.RowErrors = append(result.RowErrors, rowErr)
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}
	return result, nil
}

// findTransactionTable returns the first table with a header row carrying
// at least date, type, description and amount columns.
func findTransactionTable(tables []*html.Node) (*html.Node, map[string]int, int) {
	for _, table := range tables {
		headerMap, headerRow := buildHeaderMap(table)
		if headerMap != nil {
			return table, headerMap, headerRow
		}
	}
	return nil, nil, -1
}

func buildHeaderMap(table *html.Node) (map[string]int, int) {
	for r, tr := range findAll(table, "tr") {
		ths := findAll(tr, "th")
		if len(ths) == 0 {
			continue
		}
		m := make(map[string]int, len(ths))
		for i, th := range ths {
			if key := normHeader(nodeText(th)); key != "" {
				m[key] = i
			}
		}
		if hasAny(m, dateHeaders) && hasAny(m, typeHeaders) && hasAny(m, descHeaders) && hasAny(m, amountHeaders) {
			return m, r
		}
	}
	return nil, -1
}

func (h *HTMLReader) convertRow(cells []*html.Node, headerMap map[string]int) (*model.Transaction, error) {
	operationDate, err := parseDateCell(getCell(cells, headerMap, dateHeaders))
	if err != nil {
		return nil, err
	}
	valueDateRaw := getCell(cells, headerMap, valDateHeaders)
	if valueDateRaw == "" {
		valueDateRaw = getCell(cells, headerMap, dateHeaders)
	}
	valueDate, err := parseDateCell(valueDateRaw)
	if err != nil {
		return nil, err
	}

	typeText := getCell(cells, headerMap, typeHeaders)
	narration := getCell(cells, headerMap, descHeaders)
	amountRaw := getCell(cells, headerMap, amountHeaders)
	endingRaw := getCell(cells, headerMap, balanceHeaders)

	// Currency: a dedicated column wins, then a code inside the amount
	// text, then PLN.
	currency := strings.ToUpper(strings.TrimSpace(getCell(cells, headerMap, currencyHeaders)))
	if currency == "" {
		currency = currencyCode.FindString(strings.ToUpper(amountRaw))
	}
	if currency == "" {
		currency = "PLN"
	}

	if strings.TrimSpace(stripCurrency(amountRaw)) == "" {
		return nil, fmt.Errorf("empty amount cell")
	}
	amount := money.Parse(stripCurrency(amountRaw), currency)
	ending := money.Zero(currency)
	if strings.TrimSpace(endingRaw) != "" {
		ending = money.Parse(stripCurrency(endingRaw), currency)
	}

	return h.assembler.build(row{
		operationDate: operationDate,
		valueDate:     valueDate,
		typeText:      typeText,
		narration:     narration,
		amount:        amount,
		endingBalance: ending,
	}), nil
}

func getCell(cells []*html.Node, headerMap map[string]int, keys []string) string {
	for _, k := range keys {
		idx, ok := headerMap[k]
		if !ok || idx >= len(cells) {
			continue
		}
		if txt := strings.TrimSpace(nodeText(cells[idx])); txt != "" {
			return txt
		}
	}
	return ""
}

func parseDateCell(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", "02.01.2006", "02-01-2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date cell %q", raw)
}

func stripCurrency(raw string) string {
	return strings.TrimSpace(currencyCode.ReplaceAllString(strings.ToUpper(raw), ""))
}

func normHeader(h string) string {
	return strings.ToLower(strings.ReplaceAll(common.StripDiacritics(common.CollapseWhitespace(h)), " ", ""))
}

func hasAny(m map[string]int, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// findAll collects descendant elements with the given tag, in document
// order. The search does not descend into a matched element, which keeps
// nested tables out of an outer table's row list.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// nodeText concatenates all text below a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return common.CollapseWhitespace(b.String())
}
