package model

// Employee statuses.
const (
	EmployeeActive   = "activo"
	EmployeeInactive = "inactivo"
)

// Employee is a staff record. Cedula (national id) is unique. HiredOn is a
// calendar date formatted YYYY-MM-DD.
type Employee struct {
	ID       int64   `json:"id"`
	Name     string  `json:"nombre"`
	Cedula   string  `json:"cedula"`
	Position *string `json:"cargo"`
	Phone    *string `json:"telefono"`
	Email    *string `json:"correo"`
	HiredOn  *string `json:"fecha_ingreso"`
	Status   string  `json:"estado"`
}

// User is an account. PasswordHash never leaves the service layer.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"nombre"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"rol"`
	EmployeeID   *int64 `json:"empleado_id"`
}

// UserSummary is a User joined with the linked employee, if any.
type UserSummary struct {
	User
	EmployeeName   *string `json:"empleado_nombre"`
	EmployeeCedula *string `json:"empleado_cedula"`
}
