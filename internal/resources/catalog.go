package resources

import "tourtra/internal/store"

// The descriptors below are the whole per-entity surface: everything else
// (store, client, page, form) is generic machinery parameterized by them.
// PageSize and insertion conventions follow the dashboard conventions: most
// lists show 6 rows and append new records; ledgers (invoices, quotes,
// expenses) prepend so the newest entry is visible first.

func names(refs []EmployeeRef) string {
	out := ""
	for i, r := range refs {
		if i > 0 {
			out += ", "
		}
		out += r.FullName
	}
	return out
}

// Departments describes the department collection.
func Departments() Descriptor[Department] {
	return Descriptor[Department]{
		Name:     "departments",
		Title:    "Departments",
		Path:     "/departments/",
		PageSize: 6,
		Insert:   store.Append,
		SearchText: func(d Department) []string {
			return []string{d.Name, d.Code}
		},
		Columns: []Column[Department]{
			{Title: "Name", Width: 28, Value: func(d Department) string { return d.Name }},
			{Title: "Code", Width: 10, Value: func(d Department) string { return d.Code }},
		},
		Form: []FormField{
			{Key: "name", Label: "Name", Kind: Text, Required: true},
			{Key: "code", Label: "Code", Kind: Text},
		},
	}
}

// Admins describes department administrator accounts.
func Admins() Descriptor[Admin] {
	return Descriptor[Admin]{
		Name:     "admins",
		Title:    "Department Admins",
		Path:     "/admins/",
		PageSize: 6,
		Insert:   store.Append,
		SearchText: func(a Admin) []string {
			return []string{a.FullName, a.Email, a.Department}
		},
		Columns: []Column[Admin]{
			{Title: "Name", Width: 24, Value: func(a Admin) string { return a.FullName }},
			{Title: "Email", Width: 28, Value: func(a Admin) string { return a.Email }},
			{Title: "Department", Width: 16, Value: func(a Admin) string { return a.Department }},
			{Title: "Role", Width: 10, Value: func(a Admin) string { return a.Role }},
		},
		Form: []FormField{
			{Key: "full_name", Label: "Full name", Kind: Text, Required: true},
			{Key: "email", Label: "Email", Kind: Text, Required: true},
			{Key: "phone_number", Label: "Phone", Kind: Text},
			{Key: "department", Label: "Department", Kind: Text, Required: true},
			{Key: "role", Label: "Role", Kind: Select, Options: []string{"admin", "manager", "viewer"}},
			{Key: "password", Label: "Password", Kind: Secret, Required: true},
		},
	}
}

// Employees describes the employee roster.
func Employees() Descriptor[Employee] {
	return Descriptor[Employee]{
		Name:     "employees",
		Title:    "Employees",
		Path:     "/employees/",
		PageSize: 6,
		Insert:   store.Append,
		SearchText: func(e Employee) []string {
			return []string{e.FullName, e.Email, e.Department, e.Position}
		},
		Columns: []Column[Employee]{
			{Title: "Name", Width: 24, Value: func(e Employee) string { return e.FullName }},
			{Title: "Department", Width: 16, Value: func(e Employee) string { return e.Department }},
			{Title: "Position", Width: 16, Value: func(e Employee) string { return e.Position }},
			{Title: "Salary", Width: 12, Value: func(e Employee) string { return e.BasicSalary }},
			{Title: "Hired", Width: 12, Value: func(e Employee) string { return e.HireDate }},
		},
		Form: []FormField{
			{Key: "full_name", Label: "Full name", Kind: Text, Required: true},
			{Key: "email", Label: "Email", Kind: Text},
			{Key: "phone_number", Label: "Phone", Kind: Text},
			{Key: "department", Label: "Department", Kind: Text, Required: true},
			{Key: "position", Label: "Position", Kind: Text},
			{Key: "basic_salary", Label: "Basic salary", Kind: Number, Required: true},
			{Key: "hire_date", Label: "Hire date", Kind: Date, Required: true},
		},
	}
}

// Clients describes the customer book.
func Clients() Descriptor[Client] {
	return Descriptor[Client]{
		Name:     "clients",
		Title:    "Clients",
		Path:     "/clients/",
		PageSize: 6,
		Insert:   store.Append,
		SearchText: func(c Client) []string {
			return []string{c.Name, c.Contact, c.Email}
		},
		Columns: []Column[Client]{
			{Title: "Name", Width: 26, Value: func(c Client) string { return c.Name }},
			{Title: "Contact", Width: 20, Value: func(c Client) string { return c.Contact }},
			{Title: "Phone", Width: 16, Value: func(c Client) string { return c.PhoneNumber }},
			{Title: "Email", Width: 26, Value: func(c Client) string { return c.Email }},
		},
		Form: []FormField{
			{Key: "name", Label: "Name", Kind: Text, Required: true},
			{Key: "contact", Label: "Contact", Kind: Text},
			{Key: "email", Label: "Email", Kind: Text},
			{Key: "phone_number", Label: "Phone", Kind: Text},
			{Key: "address", Label: "Address", Kind: Text},
			{Key: "tax_number", Label: "Tax number", Kind: Text},
		},
	}
}

// Chantiers describes the worksites.
func Chantiers() Descriptor[Chantier] {
	return Descriptor[Chantier]{
		Name:     "chantiers",
		Title:    "Chantiers",
		Path:     "/chantiers/",
		PageSize: 6,
		Insert:   store.Append,
		SearchText: func(c Chantier) []string {
			return []string{c.Name, c.Code, c.Client.Name, c.Address}
		},
		Columns: []Column[Chantier]{
			{Title: "Name", Width: 24, Value: func(c Chantier) string { return c.Name }},
			{Title: "Code", Width: 10, Value: func(c Chantier) string { return c.Code }},
			{Title: "Client", Width: 20, Value: func(c Chantier) string { return c.Client.Name }},
			{Title: "Start", Width: 12, Value: func(c Chantier) string { return c.StartDate }},
			{Title: "Status", Width: 10, Value: func(c Chantier) string { return c.Status }},
			{Title: "Responsible", Width: 24, Value: func(c Chantier) string { return names(c.Responsible) }},
		},
		Form: []FormField{
			{Key: "name", Label: "Name", Kind: Text, Required: true},
			{Key: "code", Label: "Code", Kind: Text},
			{Key: "client_id", Label: "Client", Kind: Select, Required: true},
			{Key: "address", Label: "Address", Kind: Text},
			{Key: "start_date", Label: "Start date", Kind: Date, Required: true},
			{Key: "end_date", Label: "End date", Kind: Date},
			{Key: "status", Label: "Status", Kind: Select, Options: []string{"planned", "active", "suspended", "closed"}},
			{Key: "responsible_ids", Label: "Responsible", Kind: MultiSelect},
		},
	}
}

// Items describes the catalog.
func Items() Descriptor[Item] {
	return Descriptor[Item]{
		Name:     "items",
		Title:    "Items",
		Path:     "/items/",
		PageSize: 6,
		Insert:   store.Append,
		SearchText: func(i Item) []string {
			return []string{i.Code, i.Name}
		},
		Columns: []Column[Item]{
			{Title: "Code", Width: 12, Value: func(i Item) string { return i.Code }},
			{Title: "Name", Width: 30, Value: func(i Item) string { return i.Name }},
			{Title: "Unit", Width: 8, Value: func(i Item) string { return i.Unit }},
			{Title: "Unit price", Width: 12, Value: func(i Item) string { return i.UnitPrice }},
		},
		Form: []FormField{
			{Key: "code", Label: "Code", Kind: Text, Required: true},
			{Key: "name", Label: "Name", Kind: Text, Required: true},
			{Key: "unit", Label: "Unit", Kind: Select, Options: []string{"pc", "m", "m2", "m3", "kg", "h", "day"}},
			{Key: "unit_price", Label: "Unit price", Kind: Number, Required: true},
		},
	}
}

// Invoices describes the invoice ledger.
func Invoices() Descriptor[Invoice] {
	return Descriptor[Invoice]{
		Name:     "invoices",
		Title:    "Invoices",
		Path:     "/invoices/",
		PageSize: 6,
		Insert:   store.Prepend,
		SearchText: func(i Invoice) []string {
			return []string{i.Number, i.Client.Name, i.Chantier}
		},
		Columns: []Column[Invoice]{
			{Title: "Number", Width: 14, Value: func(i Invoice) string { return i.Number }},
			{Title: "Client", Width: 22, Value: func(i Invoice) string { return i.Client.Name }},
			{Title: "Chantier", Width: 18, Value: func(i Invoice) string { return i.Chantier }},
			{Title: "Date", Width: 12, Value: func(i Invoice) string { return i.Date }},
			{Title: "Amount", Width: 12, Value: func(i Invoice) string { return i.Amount }},
			{Title: "Status", Width: 10, Value: func(i Invoice) string { return i.Status }},
		},
		Form: []FormField{
			{Key: "client_id", Label: "Client", Kind: Select, Required: true},
			{Key: "chantier", Label: "Chantier", Kind: Text},
			{Key: "date", Label: "Date", Kind: Date, Required: true},
			{Key: "due_date", Label: "Due date", Kind: Date},
			{Key: "amount", Label: "Amount", Kind: Number, Required: true},
			{Key: "status", Label: "Status", Kind: Select, Options: []string{"draft", "sent", "paid", "overdue"}},
			{Key: "documents", Label: "PDF attachments", Kind: File},
		},
	}
}

// Quotes describes the quote (devis) ledger.
func Quotes() Descriptor[Quote] {
	return Descriptor[Quote]{
		Name:     "quotes",
		Title:    "Quotes",
		Path:     "/quotes/",
		PageSize: 6,
		Insert:   store.Prepend,
		SearchText: func(q Quote) []string {
			return []string{q.Number, q.Client.Name, q.Chantier}
		},
		Columns: []Column[Quote]{
			{Title: "Number", Width: 14, Value: func(q Quote) string { return q.Number }},
			{Title: "Client", Width: 22, Value: func(q Quote) string { return q.Client.Name }},
			{Title: "Chantier", Width: 18, Value: func(q Quote) string { return q.Chantier }},
			{Title: "Date", Width: 12, Value: func(q Quote) string { return q.Date }},
			{Title: "Amount", Width: 12, Value: func(q Quote) string { return q.Amount }},
			{Title: "Status", Width: 10, Value: func(q Quote) string { return q.Status }},
		},
		Form: []FormField{
			{Key: "client_id", Label: "Client", Kind: Select, Required: true},
			{Key: "chantier", Label: "Chantier", Kind: Text},
			{Key: "date", Label: "Date", Kind: Date, Required: true},
			{Key: "amount", Label: "Amount", Kind: Number, Required: true},
			{Key: "status", Label: "Status", Kind: Select, Options: []string{"draft", "sent", "accepted", "declined"}},
			{Key: "documents", Label: "PDF attachments", Kind: File},
		},
	}
}

// PurchaseOrders describes supplier purchase orders.
func PurchaseOrders() Descriptor[PurchaseOrder] {
	return Descriptor[PurchaseOrder]{
		Name:     "purchase-orders",
		Title:    "Purchase Orders",
		Path:     "/purchase-orders/",
		PageSize: 6,
		Insert:   store.Prepend,
		SearchText: func(p PurchaseOrder) []string {
			return []string{p.Number, p.Supplier, p.Chantier}
		},
		Columns: []Column[PurchaseOrder]{
			{Title: "Number", Width: 14, Value: func(p PurchaseOrder) string { return p.Number }},
			{Title: "Supplier", Width: 22, Value: func(p PurchaseOrder) string { return p.Supplier }},
			{Title: "Chantier", Width: 18, Value: func(p PurchaseOrder) string { return p.Chantier }},
			{Title: "Date", Width: 12, Value: func(p PurchaseOrder) string { return p.Date }},
			{Title: "Amount", Width: 12, Value: func(p PurchaseOrder) string { return p.Amount }},
			{Title: "Status", Width: 10, Value: func(p PurchaseOrder) string { return p.Status }},
		},
		Form: []FormField{
			{Key: "supplier", Label: "Supplier", Kind: Text, Required: true},
			{Key: "chantier", Label: "Chantier", Kind: Text},
			{Key: "date", Label: "Date", Kind: Date, Required: true},
			{Key: "amount", Label: "Amount", Kind: Number, Required: true},
			{Key: "status", Label: "Status", Kind: Select, Options: []string{"open", "delivered", "cancelled"}},
		},
	}
}

// Expenses describes chantier expenses.
func Expenses() Descriptor[Expense] {
	return Descriptor[Expense]{
		Name:     "expenses",
		Title:    "Expenses",
		Path:     "/expenses/",
		PageSize: 6,
		Insert:   store.Prepend,
		SearchText: func(e Expense) []string {
			return []string{e.Label, e.Chantier, e.Category}
		},
		Columns: []Column[Expense]{
			{Title: "Label", Width: 26, Value: func(e Expense) string { return e.Label }},
			{Title: "Chantier", Width: 18, Value: func(e Expense) string { return e.Chantier }},
			{Title: "Category", Width: 14, Value: func(e Expense) string { return e.Category }},
			{Title: "Date", Width: 12, Value: func(e Expense) string { return e.Date }},
			{Title: "Amount", Width: 12, Value: func(e Expense) string { return e.Amount }},
		},
		Form: []FormField{
			{Key: "label", Label: "Label", Kind: Text, Required: true},
			{Key: "chantier", Label: "Chantier", Kind: Text, Required: true},
			{Key: "category", Label: "Category", Kind: Select, Options: []string{"materials", "transport", "equipment", "subcontracting", "other"}},
			{Key: "date", Label: "Date", Kind: Date, Required: true},
			{Key: "amount", Label: "Amount", Kind: Number, Required: true},
			{Key: "receipt", Label: "Receipt", Kind: File},
		},
	}
}

// FixedCharges describes recurring monthly costs.
func FixedCharges() Descriptor[FixedCharge] {
	return Descriptor[FixedCharge]{
		Name:     "fixed-charges",
		Title:    "Fixed Charges",
		Path:     "/fixed-charges/",
		PageSize: 6,
		Insert:   store.Append,
		SearchText: func(f FixedCharge) []string {
			return []string{f.Label}
		},
		Columns: []Column[FixedCharge]{
			{Title: "Label", Width: 30, Value: func(f FixedCharge) string { return f.Label }},
			{Title: "Monthly", Width: 12, Value: func(f FixedCharge) string { return f.MonthlyAmount }},
			{Title: "Since", Width: 12, Value: func(f FixedCharge) string { return f.StartDate }},
		},
		Form: []FormField{
			{Key: "label", Label: "Label", Kind: Text, Required: true},
			{Key: "monthly_amount", Label: "Monthly amount", Kind: Number, Required: true},
			{Key: "start_date", Label: "Start date", Kind: Date, Required: true},
		},
	}
}

// EOSBs describes end-of-service settlements.
func EOSBs() Descriptor[EOSB] {
	return Descriptor[EOSB]{
		Name:     "eosb",
		Title:    "EOSB Settlements",
		Path:     "/employee-eosb/",
		PageSize: 6,
		Insert:   store.Prepend,
		SearchText: func(e EOSB) []string {
			return []string{e.Employee.FullName, e.Status}
		},
		Columns: []Column[EOSB]{
			{Title: "Employee", Width: 24, Value: func(e EOSB) string { return e.Employee.FullName }},
			{Title: "Hired", Width: 12, Value: func(e EOSB) string { return e.HireDate }},
			{Title: "Terminated", Width: 12, Value: func(e EOSB) string { return e.TerminationDate }},
			{Title: "Amount", Width: 12, Value: func(e EOSB) string { return e.Amount }},
			{Title: "Status", Width: 10, Value: func(e EOSB) string { return e.Status }},
		},
		Form: []FormField{
			{Key: "employee_id", Label: "Employee", Kind: Select, Required: true},
			{Key: "hire_date", Label: "Hire date", Kind: Date, Required: true},
			{Key: "termination_date", Label: "Termination date", Kind: Date, Required: true},
			{Key: "basic_salary", Label: "Basic salary", Kind: Number, Required: true},
			{Key: "status", Label: "Status", Kind: Select, Options: []string{"pending", "approved", "paid"}},
		},
		Preview: func(values map[string]string) string {
			amount, err := EstimateEOSB(values["hire_date"], values["termination_date"], values["basic_salary"])
			if err != nil {
				return ""
			}
			return "Estimated gratuity: " + amount
		},
	}
}

// Attendances describes the attendance sheet.
func Attendances() Descriptor[Attendance] {
	return Descriptor[Attendance]{
		Name:     "attendance",
		Title:    "Attendance",
		Path:     "/attendance/",
		PageSize: 6,
		Insert:   store.Prepend,
		SearchText: func(a Attendance) []string {
			return []string{a.Employee.FullName, a.Date, a.Chantier}
		},
		Columns: []Column[Attendance]{
			{Title: "Employee", Width: 24, Value: func(a Attendance) string { return a.Employee.FullName }},
			{Title: "Date", Width: 12, Value: func(a Attendance) string { return a.Date }},
			{Title: "Chantier", Width: 18, Value: func(a Attendance) string { return a.Chantier }},
			{Title: "Status", Width: 10, Value: func(a Attendance) string { return a.Status }},
		},
		Form: []FormField{
			{Key: "employee_id", Label: "Employee", Kind: Select, Required: true},
			{Key: "date", Label: "Date", Kind: Date, Required: true},
			{Key: "chantier", Label: "Chantier", Kind: Text},
			{Key: "status", Label: "Status", Kind: Select, Options: []string{"present", "absent", "leave"}},
		},
	}
}
