package domain

// Report represents a rendered analysis report for the terminal
type Report struct {
	Title       string
	Comparison  Comparison
	Sections    []ReportSection
	TotalChange float64
	Currency    string
}

// Comparison names the two periods a report compares
type Comparison struct {
	Base    string
	Compare string
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail represents detailed information within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
