package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/CheshirCa/AI-file-renamer-for-library/pkg/types"
)

// epubHandler extracts text from EPUB e-books. The happy path follows
// the format: META-INF/container.xml points at the OPF package, whose
// manifest and spine give content documents in declared reading order.
// When that chain breaks the handler scans text-like members in archive
// order instead.
type epubHandler struct{}

// stripPolicy removes all markup; EPUB content documents are XHTML.
var stripPolicy = bluemonday.StrictPolicy()

func (epubHandler) CanHandle(p string) bool {
	return strings.ToLower(filepath.Ext(p)) == ".epub"
}

func (h epubHandler) ExtractText(p string, req types.ExtractionRequest) (string, error) {
	r, err := zip.OpenReader(p)
	if err != nil {
		return "", fmt.Errorf("opening epub: %w", err)
	}
	defer r.Close()

	text, err := epubSpineText(r, req.Amount)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	return epubFallbackText(r, req.Amount)
}

// container.xml structure.
type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// OPF package: manifest items plus spine ordering plus dc metadata.
// Dublin Core elements are matched by local name regardless of prefix.
type epubPackage struct {
	Title       string `xml:"metadata>title"`
	Creator     string `xml:"metadata>creator"`
	Publisher   string `xml:"metadata>publisher"`
	Date        string `xml:"metadata>date"`
	Language    string `xml:"metadata>language"`
	Identifier  string `xml:"metadata>identifier"`
	Description string `xml:"metadata>description"`
	Subject     string `xml:"metadata>subject"`
	Manifest    struct {
		Items []struct {
			ID        string `xml:"id,attr"`
			Href      string `xml:"href,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		Itemrefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

func epubOPF(r *zip.ReadCloser) (*epubPackage, string, error) {
	f := findZipMember(r, "META-INF/container.xml")
	if f == nil {
		return nil, "", fmt.Errorf("container.xml not found")
	}
	var container epubContainer
	if err := decodeZipXML(f, &container); err != nil {
		return nil, "", fmt.Errorf("parsing container.xml: %w", err)
	}
	if len(container.Rootfiles) == 0 {
		return nil, "", fmt.Errorf("no rootfile in container.xml")
	}
	opfPath := container.Rootfiles[0].FullPath

	opfFile := findZipMember(r, opfPath)
	if opfFile == nil {
		return nil, "", fmt.Errorf("OPF file not found: %s", opfPath)
	}
	var pkg epubPackage
	if err := decodeZipXML(opfFile, &pkg); err != nil {
		return nil, "", fmt.Errorf("parsing OPF: %w", err)
	}
	return &pkg, opfPath, nil
}

// epubSpineText concatenates content documents in spine order until the
// character budget is met.
func epubSpineText(r *zip.ReadCloser, amount int) (string, error) {
	pkg, opfPath, err := epubOPF(r)
	if err != nil {
		return "", err
	}

	idToHref := make(map[string]string)
	for _, item := range pkg.Manifest.Items {
		if item.MediaType == "application/xhtml+xml" || item.MediaType == "text/html" {
			idToHref[item.ID] = item.Href
		}
	}

	opfDir := path.Dir(opfPath)
	var parts []string
	total := 0
	for _, ref := range pkg.Spine.Itemrefs {
		href, ok := idToHref[ref.IDRef]
		if !ok {
			continue
		}
		memberPath := href
		if opfDir != "." && opfDir != "" {
			memberPath = opfDir + "/" + href
		}
		f := findZipMember(r, memberPath)
		if f == nil {
			continue
		}
		data, err := readZipMember(f)
		if err != nil {
			continue
		}
		text := stripMarkup(string(data))
		if text == "" {
			continue
		}
		parts = append(parts, text)
		total += len([]rune(text))
		if total >= amount {
			break
		}
	}
	return firstRunes(strings.Join(parts, " "), amount), nil
}

// epubFallbackText scans all text-like members in archive order.
func epubFallbackText(r *zip.ReadCloser, amount int) (string, error) {
	var parts []string
	total := 0
	for _, f := range r.File {
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".xhtml", ".html", ".htm", ".xml", ".txt":
		default:
			continue
		}
		data, err := readZipMember(f)
		if err != nil {
			continue
		}
		text := stripMarkup(string(data))
		if len([]rune(text)) < 50 {
			// Navigation stubs and manifests carry no useful prose.
			continue
		}
		parts = append(parts, text)
		total += len([]rune(text))
		if total >= amount {
			break
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no readable text in epub")
	}
	return firstRunes(strings.Join(parts, " "), amount), nil
}

func (epubHandler) Metadata(p string) map[string]string {
	meta := map[string]string{}

	r, err := zip.OpenReader(p)
	if err != nil {
		return meta
	}
	defer r.Close()

	pkg, _, err := epubOPF(r)
	if err != nil {
		return meta
	}
	meta["title"] = pkg.Title
	meta["author"] = pkg.Creator
	meta["publisher"] = pkg.Publisher
	meta["date"] = pkg.Date
	meta["language"] = pkg.Language
	meta["identifier"] = pkg.Identifier
	meta["description"] = pkg.Description
	meta["subject"] = pkg.Subject
	return pruneEmpty(meta)
}

// stripMarkup drops tags and entities from XHTML content, leaving prose.
func stripMarkup(s string) string {
	return cleanText(html.UnescapeString(stripPolicy.Sanitize(s)))
}

func findZipMember(r *zip.ReadCloser, name string) *zip.File {
	name = strings.ReplaceAll(name, "\\", "/")
	for _, f := range r.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == name {
			return f
		}
	}
	return nil
}

func readZipMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func decodeZipXML(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}
