package statement

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/DevTechCode/rachunek-bankowy/internal/common"
)

// AutoReader sniffs the input and delegates to the XML, HTML or OFX
// reader. Detection looks only at the head of the document.
type AutoReader struct {
	xml  *XMLReader
	html *HTMLReader
	ofx  *OFXReader
}

func NewAutoReader() *AutoReader {
	return &AutoReader{
		xml:  NewXMLReader(),
		html: NewHTMLReader(),
		ofx:  NewOFXReader(),
	}
}

const sniffLen = 2000

func (a *AutoReader) Read(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	head := strings.ToLower(string(bytes.TrimSpace(content)))
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}

	switch {
	case strings.Contains(head, "<account-history") || strings.Contains(head, "<?xml"):
		return a.xml.Read(ctx, bytes.NewReader(content), opts)
	case strings.Contains(head, "ofxheader") || strings.Contains(head, "<ofx"):
		return a.ofx.Read(ctx, bytes.NewReader(content), opts)
	case strings.Contains(head, "<table") || strings.Contains(head, "<html"):
		return a.html.Read(ctx, bytes.NewReader(content), opts)
	default:
		return nil, fmt.Errorf("%w: expected XML, HTML or OFX", common.ErrUnknownFormat)
	}
}
