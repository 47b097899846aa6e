package extract

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
)

// fb2Handler extracts text from FictionBook 2 e-books: the book title
// followed by body paragraphs. A file that fails XML parsing is read as
// plain text instead, since many FB2 files in the wild are malformed.
type fb2Handler struct{}

func (fb2Handler) CanHandle(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".fb2"
}

// fb2Book maps the parts of a FictionBook document the handler needs.
type fb2Book struct {
	Description struct {
		TitleInfo struct {
			BookTitle string `xml:"book-title"`
			Genre     string `xml:"genre"`
			Lang      string `xml:"lang"`
			Date      string `xml:"date"`
			Authors   []struct {
				FirstName  string `xml:"first-name"`
				MiddleName string `xml:"middle-name"`
				LastName   string `xml:"last-name"`
			} `xml:"author"`
		} `xml:"title-info"`
	} `xml:"description"`
	Bodies []fb2Body `xml:"body"`
}

type fb2Body struct {
	Inner string `xml:",innerxml"`
}

func (h fb2Handler) ExtractText(path string, req types.ExtractionRequest) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading fb2 file: %w", err)
	}

	var book fb2Book
	if err := xml.Unmarshal(data, &book); err != nil {
		// Malformed XML: degrade to a raw bounded read.
		return firstRunes(strings.ToValidUTF8(string(data), ""), req.Amount), nil
	}

	var text strings.Builder
	if title := strings.TrimSpace(book.Description.TitleInfo.BookTitle); title != "" {
		text.WriteString(title)
		text.WriteString("\n\n")
	}
	for _, body := range book.Bodies {
		text.WriteString(xmlCharData([]byte("<body>" + body.Inner + "</body>")))
		if len([]rune(text.String())) >= req.Amount {
			break
		}
	}
	return firstRunes(text.String(), req.Amount), nil
}

func (fb2Handler) Metadata(path string) map[string]string {
	meta := map[string]string{}

	data, err := os.ReadFile(path)
	if err != nil {
		return meta
	}
	var book fb2Book
	if err := xml.Unmarshal(data, &book); err != nil {
		return meta
	}

	info := book.Description.TitleInfo
	meta["title"] = strings.TrimSpace(info.BookTitle)
	meta["genre"] = strings.TrimSpace(info.Genre)
	meta["language"] = strings.TrimSpace(info.Lang)
	meta["date"] = strings.TrimSpace(info.Date)

	var authors []string
	for _, a := range info.Authors {
		full := strings.Join(strings.Fields(a.FirstName+" "+a.MiddleName+" "+a.LastName), " ")
		if full != "" {
			authors = append(authors, full)
		}
	}
	meta["author"] = strings.Join(authors, ", ")

	return pruneEmpty(meta)
}
