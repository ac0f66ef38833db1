package statement

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/DevTechCode/rachunek-bankowy/internal/model"
	"github.com/DevTechCode/rachunek-bankowy/internal/money"
)

// xmlHistory mirrors the bank's account-history export:
//
//	<account-history>
//	  <search>
//	    <account>...</account>
//	    <date><since>YYYY-MM-DD</since><to>YYYY-MM-DD</to></date>
//	  </search>
//	  <operations>
//	    <operation>
//	      <order-date>YYYY-MM-DD</order-date>
//	      <exec-date>YYYY-MM-DD</exec-date>
//	      <type>...</type>
//	      <description>...</description>
//	      <amount curr="PLN">-95.80</amount>
//	      <ending-balance curr="PLN">+2641.40</ending-balance>
//	    </operation>
//	  </operations>
//	</account-history>
type xmlHistory struct {
	XMLName    xml.Name       `xml:"account-history"`
	Search     xmlSearch      `xml:"search"`
	Operations []xmlOperation `xml:"operations>operation"`
}

type xmlSearch struct {
	Account string `xml:"account"`
	Since   string `xml:"date>since"`
	To      string `xml:"date>to"`
}

type xmlOperation struct {
	OrderDate     string   `xml:"order-date"`
	ExecDate      string   `xml:"exec-date"`
	Type          string   `xml:"type"`
	Description   string   `xml:"description"`
	Amount        xmlMoney `xml:"amount"`
	EndingBalance xmlMoney `xml:"ending-balance"`
}

type xmlMoney struct {
	Curr string `xml:"curr,attr"`
	Text string `xml:",chardata"`
}

// XMLReader reads account-history XML exports.
type XMLReader struct {
	assembler *assembler
}

func NewXMLReader() *XMLReader {
	return &XMLReader{assembler: newAssembler()}
}

// Read decodes the document and converts every operation. Bank exports
// sometimes declare a legacy charset (iso-8859-2), which the decoder
// handles through x/text.
func (x *XMLReader) Read(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var doc xmlHistory
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding account-history XML: %w", err)
	}

	result := &Result{
		Meta: Meta{
			Account:      strings.TrimSpace(doc.Search.Account),
			DateSince:    strings.TrimSpace(doc.Search.Since),
			DateTo:       strings.TrimSpace(doc.Search.To),
			SourceFormat: "xml",
		},
	}

	for i, op := range doc.Operations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tx, err := x.convertOperation(op)
		if err != nil {
			rowErr := &RowError{Path: fmt.Sprintf("operations.operation[%d]", i), Err: err}
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

func (x *XMLReader) convertOperation(op xmlOperation) (*model.Transaction, error) {
	operationDate, err := time.Parse("2006-01-02", strings.TrimSpace(op.OrderDate))
	if err != nil {
		return nil, fmt.Errorf("bad order-date %q: %w", op.OrderDate, err)
	}
	valueDate, err := time.Parse("2006-01-02", strings.TrimSpace(op.ExecDate))
	if err != nil {
		return nil, fmt.Errorf("bad exec-date %q: %w", op.ExecDate, err)
	}

	amount, err := parseMoneyNode(op.Amount, "amount", "")
	if err != nil {
		return nil, err
	}
	ending, err := parseMoneyNode(op.EndingBalance, "ending-balance", amount.Currency())
	if err != nil {
		return nil, err
	}

	return x.assembler.build(row{
		operationDate: operationDate,
		valueDate:     valueDate,
		typeText:      strings.TrimSpace(op.Type),
		narration:     op.Description,
		amount:        amount,
		endingBalance: ending,
	}), nil
}

// parseMoneyNode converts an amount node. The curr attribute wins; when
// missing it falls back to the sibling amount's currency, then PLN.
func parseMoneyNode(node xmlMoney, path, fallbackCurrency string) (money.Money, error) {
	curr := strings.TrimSpace(node.Curr)
	if curr == "" {
		curr = fallbackCurrency
	}
	if curr == "" {
		curr = "PLN"
	}
	raw := strings.TrimSpace(node.Text)
	if raw == "" {
		return money.Money{}, fmt.Errorf("empty %s", path)
	}
	return money.Parse(raw, curr), nil
}
