// Package resources defines the TOURTRA entities, their per-entity
// descriptors (endpoint, columns, form fields, search fields), and the typed
// REST client the pages dispatch through. Currency amounts travel as strings
// and dates as ISO strings, exactly as the backend serializes them.
package resources

import (
	"encoding/json"
	"strings"
)

// ID is an opaque server-assigned identifier. The backend emits numeric ids;
// older endpoints emit strings. Both decode into the same opaque value.
type ID string

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// EmployeeRef is the embedded employee summary nested inside other records.
type EmployeeRef struct {
	ID       ID     `json:"id"`
	FullName string `json:"full_name"`
}

// ClientRef is the embedded client summary nested inside other records.
type ClientRef struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Department is an organisational unit.
type Department struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

func (d Department) RecordID() string { return string(d.ID) }

// Admin is a department administrator account. Password is write-only: the
// backend never returns it and edit forms always start it blank.
type Admin struct {
	ID          ID     `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Department  string `json:"department"`
	Role        string `json:"role"`
}

func (a Admin) RecordID() string { return string(a.ID) }

// Employee is a field or office worker.
type Employee struct {
	ID          ID     `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	BasicSalary string `json:"basic_salary"`
	HireDate    string `json:"hire_date"`
}

func (e Employee) RecordID() string { return string(e.ID) }

// Client is a customer the company bills.
type Client struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	TaxNumber   string `json:"tax_number"`
}

func (c Client) RecordID() string { return string(c.ID) }

// Chantier is a worksite: the unit expenses, invoices and attendance hang off.
type Chantier struct {
	ID          ID            `json:"id"`
	Name        string        `json:"name"`
	Code        string        `json:"code"`
	Client      ClientRef     `json:"client"`
	Address     string        `json:"address"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	Status      string        `json:"status"`
	Responsible []EmployeeRef `json:"responsible"`
}

func (c Chantier) RecordID() string { return string(c.ID) }

// Item is a catalog entry priced per unit.
type Item struct {
	ID        ID     `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	UnitPrice string `json:"unit_price"`
}

func (i Item) RecordID() string { return string(i.ID) }

// Invoice bills a client for work on a chantier. Attachments are uploaded as
// multipart PDFs.
type Invoice struct {
	ID       ID        `json:"id"`
	Number   string    `json:"number"`
	Client   ClientRef `json:"client"`
	Chantier string    `json:"chantier"`
	Date     string    `json:"date"`
	DueDate  string    `json:"due_date"`
	Amount   string    `json:"amount"`
	Status   string    `json:"status"`
}

func (i Invoice) RecordID() string { return string(i.ID) }

// Quote (devis) is a priced offer that may become an invoice server-side.
type Quote struct {
	ID       ID        `json:"id"`
	Number   string    `json:"number"`
	Client   ClientRef `json:"client"`
	Chantier string    `json:"chantier"`
	Date     string    `json:"date"`
	Amount   string    `json:"amount"`
	Status   string    `json:"status"`
}

func (q Quote) RecordID() string { return string(q.ID) }

// PurchaseOrder covers materials bought for a chantier.
type PurchaseOrder struct {
	ID       ID     `json:"id"`
	Number   string `json:"number"`
	Supplier string `json:"supplier"`
	Chantier string `json:"chantier"`
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Status   string `json:"status"`
}

func (p PurchaseOrder) RecordID() string { return string(p.ID) }

// Expense is a one-off cost charged to a chantier, receipt attached.
type Expense struct {
	ID       ID     `json:"id"`
	Label    string `json:"label"`
	Chantier string `json:"chantier"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Amount   string `json:"amount"`
}

func (e Expense) RecordID() string { return string(e.ID) }

// FixedCharge is a recurring monthly cost (rent, insurance, leases).
type FixedCharge struct {
	ID            ID     `json:"id"`
	Label         string `json:"label"`
	MonthlyAmount string `json:"monthly_amount"`
	StartDate     string `json:"start_date"`
}

func (f FixedCharge) RecordID() string { return string(f.ID) }

// EOSB is an end-of-service-benefit settlement for a departing employee. The
// amount shown before submission is a client-side estimate only; the payroll
// rules live server-side.
type EOSB struct {
	ID              ID          `json:"id"`
	Employee        EmployeeRef `json:"employee"`
	HireDate        string      `json:"hire_date"`
	TerminationDate string      `json:"termination_date"`
	BasicSalary     string      `json:"basic_salary"`
	Amount          string      `json:"amount"`
	Status          string      `json:"status"`
}

func (e EOSB) RecordID() string { return string(e.ID) }

// Attendance is one employee-day: present, absent or leave.
type Attendance struct {
	ID       ID          `json:"id"`
	Employee EmployeeRef `json:"employee"`
	Date     string      `json:"date"`
	Status   string      `json:"status"`
	Chantier string      `json:"chantier"`
}

func (a Attendance) RecordID() string { return string(a.ID) }
