package models

type Visit struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id,omitempty"`
	MarketerID   int       `json:"marketer_id,omitempty"`
	MarketerName string    `json:"marketer_name,omitempty"`
	DoctorName   string    `json:"doctor_name"`
	Location     string    `json:"location"`
	VisitDate    Timestamp `json:"visit_date"`
	Notes        string    `json:"notes,omitempty"`
	Status       string    `json:"status,omitempty"`
}

const VisitStatusCancelled = "cancelled"

// VisitFilter narrows the visit list. Only admins may apply it.
type VisitFilter struct {
	StartDate  string `query:"start_date"`
	EndDate    string `query:"end_date"`
	UserID     string `query:"user_id"`
	DoctorName string `query:"doctor_name"`
}

func (f VisitFilter) IsEmpty() bool {
	return f == VisitFilter{}
}

type Report struct {
	ID         int          `json:"id"`
	VisitID    int          `json:"visit_id"`
	UserID     int          `json:"user_id,omitempty"`
	Title      string       `json:"title"`
	ReportText string       `json:"report_text"`
	CreatedAt  Timestamp    `json:"created_at"`
	UpdatedAt  Timestamp    `json:"updated_at"`
	Visit      *ReportVisit `json:"visit,omitempty"`
}

type ReportVisit struct {
	DoctorName string    `json:"doctor_name"`
	Location   string    `json:"location"`
	VisitDate  Timestamp `json:"visit_date"`
}

// VisitsReport is the admin-only roll-up of every logged visit.
type VisitsReport struct {
	Title       string    `json:"title"`
	GeneratedAt Timestamp `json:"generated_at"`
	TotalVisits int       `json:"total_visits"`
	Visits      []Visit   `json:"visits"`
}
