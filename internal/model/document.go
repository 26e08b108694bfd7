package model

import "time"

// Document is the metadata row of an employee file. The bytes live in the blob
// store under the key resolved from URL.
type Document struct {
	ID         int64        `json:"id"`
	EmployeeID int64        `json:"empleado_id"`
	Type       DocumentType `json:"tipo"`
	Filename   string       `json:"nombre_archivo"`
	URL        string       `json:"url"`
	Period     *string      `json:"periodo"`
	UploadedAt time.Time    `json:"fecha_subida"`
}

// DocumentSummary is a Document joined with its owner for listings.
type DocumentSummary struct {
	Document
	EmployeeName   string `json:"empleado_nombre"`
	EmployeeCedula string `json:"empleado_cedula"`
}
