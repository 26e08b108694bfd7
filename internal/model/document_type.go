package model

import "strings"

// DocumentType is the closed set of employee document kinds.
type DocumentType string

const (
	DocContract   DocumentType = "contrato"
	DocLeaveProof DocumentType = "incapacidad"
	DocPaySlip    DocumentType = "colilla"
	DocOther      DocumentType = "otro"
)

var DocumentTypes = []DocumentType{DocContract, DocLeaveProof, DocPaySlip, DocOther}

// ParseDocumentType reports whether s is one of DocumentTypes. Matching is exact
// after trimming surrounding whitespace.
func ParseDocumentType(s string) (DocumentType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range DocumentTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

func (t DocumentType) String() string { return string(t) }
