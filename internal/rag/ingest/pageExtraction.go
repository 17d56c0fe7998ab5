package ingest

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/internal/rag/ocr"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

func extractPDF(path string) ([]rawPage, error) {
	logger.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.Open(path)
	if err != nil {

		logger.Error("failed opening of pdf file")
		return nil, fmt.Errorf("%w: failed to open pdf: %v", commonModels.ErrExtraction, err)
	}

	var pages []rawPage
	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		logger.Debug("extractPDF", "page #", i)
		if page.V.IsNull() {
			logger.Debug("extractPDF", "page value is null!!")
			continue
		}

		content, err := protectExtract(page)
		logger.Debug("extractPDF", "page content", content)
		if err != nil {
			// Log warning but continue with other pages

			logger.Error("Error parsing page content", "Error", err)
			continue
		}

		pages = append(pages, rawPage{
			Number:  i,
			Content: content,
		})
	}
	return pages, nil
}

// File reads a .odt, .docx, .rtf or plaintext file and returns the content as a string
func extractdocxTxtRtf(path string) ([]rawPage, error) {

	text, err := cat.File(path)
	if err != nil {

		logger.Error("Error extracting content from doc")
		return nil, fmt.Errorf("%w: failed to extract doc: %v", commonModels.ErrExtraction, err)
	}

	//this is a bit ugly with putting all content in 1 page
	//TODO :but I will need to make my own word writer to track the pages
	return []rawPage{
		{
			Number:  1,
			Content: text,
		},
	}, nil
}

// extractImage ships the raw bytes to the vision model and treats the
// transcript as a one page document, same shape as the doc path above.
func extractImage(ctx context.Context, path string, reader ocr.ImageReader) ([]rawPage, error) {
	if reader == nil {
		logger.Error("No image reader configured")
		return nil, fmt.Errorf("%w: image support requires a vision provider", commonModels.ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Error reading image file", "error", err)
		return nil, fmt.Errorf("%w: failed to read image: %v", commonModels.ErrExtraction, err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "image/png"
	}

	text, err := reader.ReadImage(ctx, data, mimeType)
	if err != nil {
		logger.Error("Error transcribing image", "error", err)
		return nil, fmt.Errorf("%w: %v", commonModels.ErrExtraction, err)
	}

	return []rawPage{
		{
			Number:  1,
			Content: text,
		},
	}, nil
}

func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract", "timeout")
		return "", errors.New("timeout")
	}
}
