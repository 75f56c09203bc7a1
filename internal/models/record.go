package models

// Report types stamped on persisted records.
const (
	ReportTypeQuery  = "Medical Query"
	ReportTypeReport = "Medical Report"
	ReportTypeSkin   = "Skin Condition"
)

// AnalysisRecord is one durable log entry for a completed interaction.
// Field names match the on-disk JSON array (user_medical_data.json);
// records are appended once and never updated or deleted.
type AnalysisRecord struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	ReportType string `json:"report_type"` // Medical Query | Medical Report | Skin Condition
	Analysis   string `json:"analysis"`
	Timestamp  string `json:"timestamp"` // ISO-8601
}
