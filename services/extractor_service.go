package services

import (
	"fmt"
	"os"
	"strings"

	"github/itish2003/localassist/config"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// ExtractionResult separates "could not read the file" from "read it, found
// no text". Both lead to the default topic, but they are logged differently.
type ExtractionResult struct {
	Text   string
	Failed bool
	Err    error
}

// Empty reports a successful extraction that produced no usable text.
func (r ExtractionResult) Empty() bool {
	return !r.Failed && strings.TrimSpace(r.Text) == ""
}

// TextExtractor pulls classification text out of a document.
type TextExtractor interface {
	Extract(path string) ExtractionResult
}

// PDFExtractor reads the first MaxPages pages of a PDF and truncates the text
// to MaxChars characters. UniPDF is used when a licence key is configured,
// otherwise the pure-Go ledongthuc reader.
type PDFExtractor struct {
	MaxPages  int
	MaxChars  int
	useUniPDF bool
}

// NewPDFExtractor configures the extractor and, if a key is present,
// registers the UniPDF metered licence.
func NewPDFExtractor(cfg config.PDFConfig) *PDFExtractor {
	e := &PDFExtractor{MaxPages: cfg.MaxPages, MaxChars: cfg.MaxChars}
	if cfg.UnidocLicenseKey != "" {
		if err := license.SetMeteredKey(cfg.UnidocLicenseKey); err != nil {
			logrus.Warnf("EXTRACTOR: Failed to set Unidoc license key: %v. Falling back to the built-in PDF reader.", err)
		} else {
			e.useUniPDF = true
		}
	}
	return e
}

// Extract never returns an error; failures are reported in the result.
func (e *PDFExtractor) Extract(path string) (res ExtractionResult) {
	defer func() {
		// Malformed PDFs can panic inside the readers.
		if r := recover(); r != nil {
			res = ExtractionResult{Failed: true, Err: fmt.Errorf("pdf reader panic: %v", r)}
		}
	}()

	var (
		text string
		err  error
	)
	if e.useUniPDF {
		text, err = extractWithUniPDF(path, e.MaxPages)
	} else {
		text, err = extractWithPlainReader(path, e.MaxPages)
	}
	if err != nil {
		logrus.WithField("path", path).Warnf("EXTRACTOR: Could not extract text: %v", err)
		return ExtractionResult{Failed: true, Err: err}
	}
	return ExtractionResult{Text: truncateRunes(text, e.MaxChars)}
}

// extractWithUniPDF uses UniPDF to get the text of the first maxPages pages.
func extractWithUniPDF(path string, maxPages int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return "", err
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= min(numPages, maxPages); i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return "", err
		}

		ex, err := extractor.New(page)
		if err != nil {
			return "", err
		}

		text, err := ex.ExtractText()
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}

func extractWithPlainReader(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= min(r.NumPage(), maxPages); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

func truncateRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
