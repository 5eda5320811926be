package service

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

type PDFInfo struct {
	Pages int
}

type PDFProcessor interface {
	Inspect(pdfData []byte, password string) (PDFInfo, error)
	ExtractText(pdfData []byte, password string) (string, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

func pdfcpuConfig(password string) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	if password != "" {
		conf.UserPW = password
	}
	return conf
}

// Inspect validates the document structure and counts its pages.
func (p *pdfProcessor) Inspect(pdfData []byte, password string) (PDFInfo, error) {
	conf := pdfcpuConfig(password)

	if err := api.Validate(bytes.NewReader(pdfData), conf); err != nil {
		return PDFInfo{}, fmt.Errorf("invalid pdf: %w", err)
	}

	pages, err := api.PageCount(bytes.NewReader(pdfData), conf)
	if err != nil {
		return PDFInfo{}, fmt.Errorf("failed to count pages: %w", err)
	}
	return PDFInfo{Pages: pages}, nil
}

// ExtractText returns the text layer of every page, one row per line.
func (p *pdfProcessor) ExtractText(pdfData []byte, password string) (text string, err error) {
	// the reader panics on some malformed content streams
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf text: %v", r)
		}
	}()

	r, err := openReader(pdfData, password)
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil || len(rows) <= 1 {
			// row grouping only follows Tm; Td/T* layouts collapse into one row
			if lines := contentLines(page.Content().Text); len(lines) > 0 {
				for _, line := range lines {
					textBuilder.WriteString(line)
					textBuilder.WriteString("\n")
				}
				continue
			}
			plain, perr := page.GetPlainText(nil)
			if perr != nil {
				return "", fmt.Errorf("failed to read page %d: %w", pageIndex, perr)
			}
			textBuilder.WriteString(plain)
			textBuilder.WriteString("\n")
			continue
		}

		for _, row := range rows {
			for _, word := range row.Content {
				textBuilder.WriteString(word.S)
			}
			textBuilder.WriteString("\n")
		}
	}

	if strings.TrimSpace(textBuilder.String()) == "" {
		return plainText(r)
	}
	return textBuilder.String(), nil
}

func openReader(pdfData []byte, password string) (*pdf.Reader, error) {
	ra := bytes.NewReader(pdfData)
	if password == "" {
		r, err := pdf.NewReader(ra, int64(len(pdfData)))
		if err != nil {
			return nil, fmt.Errorf("failed to open pdf: %w", err)
		}
		return r, nil
	}

	tried := false
	r, err := pdf.NewReaderEncrypted(ra, int64(len(pdfData)), func() string {
		if tried {
			return ""
		}
		tried = true
		return password
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open encrypted pdf: %w", err)
	}
	return r, nil
}

func plainText(r *pdf.Reader) (string, error) {
	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}

// contentLines groups positioned glyphs into lines by baseline, top to
// bottom, and orders each line left to right.
func contentLines(glyphs []pdf.Text) []string {
	type line struct {
		y      float64
		glyphs []pdf.Text
	}
	var lines []*line

	for _, g := range glyphs {
		if g.S == "" || g.S == "\n" {
			continue
		}
		tol := math.Max(g.FontSize/2, 1)
		var target *line
		for _, l := range lines {
			if math.Abs(l.y-g.Y) <= tol {
				target = l
				break
			}
		}
		if target == nil {
			target = &line{y: g.Y}
			lines = append(lines, target)
		}
		target.glyphs = append(target.glyphs, g)
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		sort.SliceStable(l.glyphs, func(i, j int) bool { return l.glyphs[i].X < l.glyphs[j].X })

		var b strings.Builder
		for i, g := range l.glyphs {
			if i > 0 {
				prev := l.glyphs[i-1]
				gap := g.X - (prev.X + prev.W)
				if prev.W > 0 && gap > g.FontSize*0.25 && prev.S != " " && g.S != " " {
					b.WriteByte(' ')
				}
			}
			b.WriteString(g.S)
		}
		if text := strings.TrimRight(b.String(), " "); text != "" {
			out = append(out, text)
		}
	}
	return out
}
