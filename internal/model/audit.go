package model

import "time"

// DownloadAudit is one append-only row of the document download trail.
// EmployeeID and DocumentType are captured at download time so the record stays
// meaningful after the document is deleted.
type DownloadAudit struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"usuario_id"`
	DocumentID   int64        `json:"documento_id"`
	EmployeeID   int64        `json:"empleado_id"`
	DocumentType DocumentType `json:"tipo_documento"`
	IP           string       `json:"ip"`
	UserAgent    string       `json:"user_agent"`
	DownloadedAt time.Time    `json:"fecha_descarga"`
}

// DownloadAuditEntry is a DownloadAudit enriched with actor, employee and
// document details. Document fields are nil once the document was deleted.
type DownloadAuditEntry struct {
	DownloadAudit
	UserName       string  `json:"usuario_nombre"`
	UserEmail      string  `json:"usuario_email"`
	UserRole       string  `json:"usuario_rol"`
	EmployeeName   string  `json:"empleado_nombre"`
	EmployeeCedula string  `json:"empleado_cedula"`
	Filename       *string `json:"nombre_archivo"`
	Period         *string `json:"periodo"`
}
