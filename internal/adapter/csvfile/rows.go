package csvfile

// Rows hold raw text; typed parsing happens after validation so that one bad
// cell becomes a row error instead of failing the file.

type CategoryRow struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description"`
	IsActive    string `json:"is_active"   validate:"omitempty,boolean"`
	CreatedAt   string `json:"created_at"`
}

type PatronRow struct {
	RollNo     string `json:"roll_no"     validate:"required,max=50"`
	Name       string `json:"name"        validate:"required,max=255"`
	Email      string `json:"email"       validate:"omitempty,email,max=255"`
	Phone      string `json:"phone"       validate:"max=20"`
	PatronType string `json:"patron_type" validate:"omitempty,patrontype"`
	Department string `json:"department"  validate:"max=100"`
	Division   string `json:"division"    validate:"max=50"`
	Status     string `json:"status"      validate:"omitempty,oneof=pending active inactive suspended"`
	MaxBooks   string `json:"max_books"   validate:"omitempty,number"`
	FirstLogin string `json:"first_login" validate:"omitempty,boolean"`
}

type BookRow struct {
	AccessionNumber string `json:"accession_number" validate:"required,max=50"`
	Title           string `json:"title"            validate:"required,max=255"`
	Author          string `json:"author"           validate:"required,max=255"`
	ISBN            string `json:"isbn"             validate:"max=20"`
	Publisher       string `json:"publisher"        validate:"max=255"`
	PublicationYear string `json:"publication_year" validate:"omitempty,number,len=4"`
	CallNumber      string `json:"call_number"      validate:"max=50"`
	Category        string `json:"category"         validate:"max=100"`
	Status          string `json:"status"           validate:"omitempty,oneof=available issued lost damaged"`
}

type TransactionRow struct {
	Reference           string `json:"reference"             validate:"required,max=26"`
	PatronRollNo        string `json:"patron_roll_no"        validate:"required,max=50"`
	BookAccessionNumber string `json:"book_accession_number" validate:"required,max=50"`
	IssueDate           string `json:"issue_date"            validate:"required,isodate"`
	DueDate             string `json:"due_date"              validate:"required,isodate"`
	ReturnDate          string `json:"return_date"           validate:"omitempty,isodate"`
	Status              string `json:"status"                validate:"required,oneof=issued returned"`
	FineAmount          string `json:"fine_amount"           validate:"omitempty,numeric"`
	FinePaid            string `json:"fine_paid"             validate:"omitempty,boolean"`
	IssuedBy            string `json:"issued_by"             validate:"omitempty,number"`
}

var Categories = Table[CategoryRow]{
	Name:     "categories",
	Header:   []string{"name", "description", "is_active", "created_at"},
	Required: []string{"name"},
	encode: func(r CategoryRow) []string {
		return []string{r.Name, r.Description, r.IsActive, r.CreatedAt}
	},
	decode: func(get func(string) string) CategoryRow {
		return CategoryRow{Name: get("name"), Description: get("description"), IsActive: get("is_active"), CreatedAt: get("created_at")}
	},
}

var Patrons = Table[PatronRow]{
	Name:     "patrons",
	Header:   []string{"roll_no", "name", "email", "phone", "patron_type", "department", "division", "status", "max_books", "first_login"},
	Required: []string{"roll_no", "name"},
	encode: func(r PatronRow) []string {
		return []string{r.RollNo, r.Name, r.Email, r.Phone, r.PatronType, r.Department, r.Division, r.Status, r.MaxBooks, r.FirstLogin}
	},
	decode: func(get func(string) string) PatronRow {
		return PatronRow{
			RollNo: get("roll_no"), Name: get("name"), Email: get("email"), Phone: get("phone"),
			PatronType: get("patron_type"), Department: get("department"), Division: get("division"),
			Status: get("status"), MaxBooks: get("max_books"), FirstLogin: get("first_login"),
		}
	},
}

var Books = Table[BookRow]{
	Name:     "books",
	Header:   []string{"accession_number", "title", "author", "isbn", "publisher", "publication_year", "call_number", "category", "status"},
	Required: []string{"accession_number", "title", "author"},
	encode: func(r BookRow) []string {
		return []string{r.AccessionNumber, r.Title, r.Author, r.ISBN, r.Publisher, r.PublicationYear, r.CallNumber, r.Category, r.Status}
	},
	decode: func(get func(string) string) BookRow {
		return BookRow{
			AccessionNumber: get("accession_number"), Title: get("title"), Author: get("author"),
			ISBN: get("isbn"), Publisher: get("publisher"), PublicationYear: get("publication_year"),
			CallNumber: get("call_number"), Category: get("category"), Status: get("status"),
		}
	},
}

var Transactions = Table[TransactionRow]{
	Name: "transactions",
	Header: []string{"reference", "patron_roll_no", "book_accession_number", "issue_date", "due_date",
		"return_date", "status", "fine_amount", "fine_paid", "issued_by"},
	Required: []string{"reference", "patron_roll_no", "book_accession_number", "issue_date", "due_date", "status"},
	encode: func(r TransactionRow) []string {
		return []string{r.Reference, r.PatronRollNo, r.BookAccessionNumber, r.IssueDate, r.DueDate,
			r.ReturnDate, r.Status, r.FineAmount, r.FinePaid, r.IssuedBy}
	},
	decode: func(get func(string) string) TransactionRow {
		return TransactionRow{
			Reference: get("reference"), PatronRollNo: get("patron_roll_no"), BookAccessionNumber: get("book_accession_number"),
			IssueDate: get("issue_date"), DueDate: get("due_date"), ReturnDate: get("return_date"),
			Status: get("status"), FineAmount: get("fine_amount"), FinePaid: get("fine_paid"), IssuedBy: get("issued_by"),
		}
	},
}

// Report tables below are export-only and have no decoder.

type LogRow struct {
	ID              string
	Reference       string
	RollNo          string
	PatronName      string
	AccessionNumber string
	BookTitle       string
	IssueDate       string
	DueDate         string
	ReturnDate      string
	Status          string
	FineAmount      string
	CreatedAt       string
}

var TransactionLog = Table[LogRow]{
	Name: "transaction_log",
	Header: []string{"id", "reference", "patron_roll_no", "patron_name", "book_accession_number", "book_title",
		"issue_date", "due_date", "return_date", "status", "fine_amount", "created_at"},
	encode: func(r LogRow) []string {
		return []string{r.ID, r.Reference, r.RollNo, r.PatronName, r.AccessionNumber, r.BookTitle,
			r.IssueDate, r.DueDate, r.ReturnDate, r.Status, r.FineAmount, r.CreatedAt}
	},
}

// PatronHistory is TransactionLog without the patron columns.
var PatronHistory = Table[LogRow]{
	Name: "patron_history",
	Header: []string{"id", "reference", "book_accession_number", "book_title",
		"issue_date", "due_date", "return_date", "status", "fine_amount", "created_at"},
	encode: func(r LogRow) []string {
		return []string{r.ID, r.Reference, r.AccessionNumber, r.BookTitle,
			r.IssueDate, r.DueDate, r.ReturnDate, r.Status, r.FineAmount, r.CreatedAt}
	},
}

type ReportLine struct {
	Section string
	Metric  string
	Value   string
}

var ReportSummary = Table[ReportLine]{
	Name:   "report_summary",
	Header: []string{"section", "metric", "value"},
	encode: func(r ReportLine) []string { return []string{r.Section, r.Metric, r.Value} },
}
