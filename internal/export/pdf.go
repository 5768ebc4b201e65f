package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// PDFRenderer converts markdown documents to PDF bytes.
type PDFRenderer struct {
	logger arbor.ILogger
}

// NewPDFRenderer creates a new PDF renderer
func NewPDFRenderer(logger arbor.ILogger) *PDFRenderer {
	return &PDFRenderer{
		logger: logger,
	}
}

// Render converts markdown to a PDF byte slice.
func (p *PDFRenderer) Render(markdown string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 9)

	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
	)

	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	walker := &pdfWalker{pdf: pdf, source: source}
	if err := ast.Walk(doc, walker.walk); err != nil {
		p.logger.Error().Err(err).Msg("Failed to render PDF")
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	p.logger.Debug().
		Int("markdown_len", len(markdown)).
		Int("pdf_bytes", buf.Len()).
		Msg("PDF rendered")

	return buf.Bytes(), nil
}

type pdfWalker struct {
	pdf    *fpdf.Fpdf
	source []byte
	bold   bool
	italic bool
}

func (w *pdfWalker) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			w.pdf.Ln(6)
			size := 14.0 - float64(node.Level)
			if size < 10 {
				size = 10
			}
			w.pdf.SetFont("Arial", "B", size)
		} else {
			w.pdf.Ln(6)
			w.resetFont()
		}
	case *ast.Paragraph:
		if !entering {
			w.pdf.Ln(7)
		}
	case *ast.Text:
		if entering {
			w.pdf.Write(5, string(node.Text(w.source)))
		}
	case *ast.Emphasis:
		if node.Level == 2 {
			w.bold = entering
		} else {
			w.italic = entering
		}
		w.resetFont()
	case *ast.ListItem:
		if entering {
			w.pdf.Ln(5)
			w.pdf.SetX(15)
			w.pdf.Write(5, "- ")
		}
	case *ast.ThematicBreak:
		if entering {
			w.pdf.Ln(2)
			w.pdf.Line(15, w.pdf.GetY(), 195, w.pdf.GetY())
			w.pdf.Ln(2)
		}
	case *extast.Table:
		if entering {
			w.renderTable(node)
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

func (w *pdfWalker) resetFont() {
	style := ""
	if w.bold {
		style += "B"
	}
	if w.italic {
		style += "I"
	}
	w.pdf.SetFont("Arial", style, 9)
}

// renderTable draws a table with equal-width columns, header row shaded.
func (w *pdfWalker) renderTable(table *extast.Table) {
	var rows [][]string
	var collect func(node ast.Node)
	collect = func(node ast.Node) {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch row := child.(type) {
			case *extast.TableRow:
				rows = append(rows, w.extractCells(row))
			case *extast.TableHeader:
				collect(row)
			}
		}
	}
	collect(table)

	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	w.pdf.Ln(2)
	colWidth := 180.0 / float64(len(rows[0]))
	for i, row := range rows {
		if i == 0 {
			w.pdf.SetFont("Arial", "B", 8)
			w.pdf.SetFillColor(230, 230, 230)
		} else {
			w.pdf.SetFont("Arial", "", 8)
			w.pdf.SetFillColor(255, 255, 255)
		}
		for _, cell := range row {
			w.pdf.CellFormat(colWidth, 6, truncateCell(cell, w.pdf, colWidth-2), "1", 0, "L", i == 0, 0, "")
		}
		w.pdf.Ln(-1)
	}
	w.pdf.Ln(3)
	w.resetFont()
}

func (w *pdfWalker) extractCells(row ast.Node) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if tc, ok := cell.(*extast.TableCell); ok {
			cells = append(cells, string(tc.Text(w.source)))
		}
	}
	return cells
}

func truncateCell(s string, pdf *fpdf.Fpdf, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 3 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
