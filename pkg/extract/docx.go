package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
)

// docxHandler extracts text from Word documents. A docx is a zip
// container; prose lives in word/document.xml and properties in
// docProps/core.xml.
type docxHandler struct{}

// Legacy .doc is OLE, not a zip container, and is left to the raw-read
// fallback.
func (docxHandler) CanHandle(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".docx"
}

func (docxHandler) ExtractText(path string, req types.ExtractionRequest) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening docx as zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("opening document.xml: %w", err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("reading document.xml: %w", err)
		}
		return firstRunes(xmlCharData(data), req.Amount), nil
	}
	return "", fmt.Errorf("no word/document.xml in container")
}

func (docxHandler) Metadata(path string) map[string]string {
	meta := map[string]string{}

	r, err := zip.OpenReader(path)
	if err != nil {
		return meta
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != "docProps/core.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return meta
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return meta
		}

		var props struct {
			Title       string `xml:"title"`
			Creator     string `xml:"creator"`
			Subject     string `xml:"subject"`
			Keywords    string `xml:"keywords"`
			Description string `xml:"description"`
			Created     string `xml:"created"`
			Modified    string `xml:"modified"`
		}
		if err := xml.Unmarshal(data, &props); err != nil {
			return meta
		}
		meta["title"] = props.Title
		meta["author"] = props.Creator
		meta["subject"] = props.Subject
		meta["keywords"] = props.Keywords
		meta["description"] = props.Description
		meta["created"] = props.Created
		meta["modified"] = props.Modified
		break
	}
	return pruneEmpty(meta)
}

// xmlCharData collects the character data of an XML document, separated
// by spaces and cleaned of noise. Paragraphs and table cells both come
// out of the token walk.
func xmlCharData(data []byte) string {
	var text strings.Builder
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if cd, ok := token.(xml.CharData); ok {
			content := string(cd)
			if strings.TrimSpace(content) == "" {
				continue
			}
			if text.Len() > 0 {
				text.WriteString(" ")
			}
			text.WriteString(cleanText(content))
		}
	}
	return text.String()
}
