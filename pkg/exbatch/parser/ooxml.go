// Package parser reads a workbook back into models. Cells, tables and panes
// come from excelize; charts are read from the drawing and chart parts of
// the package directly, since excelize cannot read charts back.
package parser

import (
	"archive/zip"
	"encoding/xml"
	"io/fs"
	"path"
	"strings"
)

// relationship is one entry of a .rels part.
type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationships struct {
	Items []relationship `xml:"Relationship"`
}

// byType returns the first relationship whose type ends with kind.
func (r relationships) byType(kind string) (relationship, bool) {
	for _, rel := range r.Items {
		if strings.HasSuffix(strings.ToLower(rel.Type), "/"+kind) {
			return rel, true
		}
	}
	return relationship{}, false
}

func (r relationships) byID(id string) (relationship, bool) {
	for _, rel := range r.Items {
		if rel.ID == id {
			return rel, true
		}
	}
	return relationship{}, false
}

type workbookPart struct {
	Sheets []struct {
		Name string `xml:"name,attr"`
		RID  string `xml:"id,attr"`
	} `xml:"sheets>sheet"`
}

// decodePart unmarshals the named package part into v.
func decodePart(r *zip.Reader, name string, v any) error {
	data, err := fs.ReadFile(r, name)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}

// relsPath returns the relationships part that belongs to part.
func relsPath(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

// resolveTarget resolves a relationship target against the part that owns it.
func resolveTarget(part, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(part), target)
}

// sheetParts maps sheet names to their worksheet part paths.
func sheetParts(r *zip.Reader) (map[string]string, error) {
	const book = "xl/workbook.xml"
	var wb workbookPart
	if err := decodePart(r, book, &wb); err != nil {
		return nil, err
	}
	var rels relationships
	if err := decodePart(r, relsPath(book), &rels); err != nil {
		return nil, err
	}
	result := make(map[string]string, len(wb.Sheets))
	for _, s := range wb.Sheets {
		rel, ok := rels.byID(s.RID)
		if !ok || !strings.Contains(strings.ToLower(rel.Type), "worksheet") {
			continue
		}
		result[s.Name] = resolveTarget(book, rel.Target)
	}
	return result, nil
}
