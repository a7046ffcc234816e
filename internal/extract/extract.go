package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrFileNotFound means the upload is missing from local disk.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnsupportedFormat means the extension is neither .pdf nor .docx.
	ErrUnsupportedFormat = errors.New("unsupported file format, only PDF and DOCX are allowed")
	// ErrExtraction wraps any underlying parser fault.
	ErrExtraction = errors.New("failed to extract text from file")
)

// TextFromFile extracts plain text from an uploaded resume on local disk.
// The original file name decides the parser: github.com/ledongthuc/pdf for
// PDF, word/document.xml stripping for DOCX.
func TextFromFile(path, fileName string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		text, err := extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		return text, nil
	case ".docx":
		text, err := extractDOCX(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		return text, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
