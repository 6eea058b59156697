package api

// Employee represents a staff member as returned by the server. The server
// issues `_id`; `employeeId` is the human-facing badge identifier used for
// login and display.
type Employee struct {
	ID            string `json:"_id,omitempty"`
	EmployeeID    string `json:"employeeId,omitempty"`
	EmployeeName  string `json:"employeeName,omitempty"`
	Email         string `json:"email,omitempty"`
	Department    string `json:"department,omitempty"`
	Designation   string `json:"designation,omitempty"`
	ContactNo     string `json:"contactNo,omitempty"`
	BloodGroup    string `json:"bloodGroup,omitempty"`
	JoiningDate   string `json:"joiningDate,omitempty"`
	EmployeePhoto string `json:"employeePhoto,omitempty"`
	Role          string `json:"role,omitempty"`
}

// User is the authenticated identity record. The server returns the same
// shape for the login response and the /profile endpoint.
type User = Employee

// Rating is a customer-submitted service rating. The rated employee record is
// embedded as the server denormalizes it; no referential integrity is enforced
// client-side.
type Rating struct {
	ID            string    `json:"_id,omitempty"`
	Employee      *Employee `json:"employee,omitempty"`
	CustomerName  string    `json:"customerName,omitempty"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	Rating        int       `json:"rating"`
	Feedback      string    `json:"feedback,omitempty"`
	InRange       bool      `json:"inRange,omitempty"`
	CreatedAt     string    `json:"createdAt,omitempty"`
}

// Role is a named role assignable to employees.
type Role struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
}
