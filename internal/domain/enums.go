package domain

// Shape identifies which fiscal document layout an XML follows.
type Shape string

const (
	ShapeNFeProc Shape = "nfeProc" // authorized NFe with protocol envelope
	ShapeNFe     Shape = "NFe"     // bare NFe without protocol
	ShapeCFe     Shape = "CFe"     // SAT retail receipt
	ShapeCTe     Shape = "CTe"     // transport document, with or without cteProc
)

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypeXML FileType = "xml"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/xml": FileTypeXML,
	"text/xml":        FileTypeXML,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"xml": FileTypeXML,
}

// ProcessingStatus is the outcome recorded in the processing log.
type ProcessingStatus string

const (
	ProcessingStatusSuccess ProcessingStatus = "success"
	ProcessingStatusFailed  ProcessingStatus = "failed"
	ProcessingStatusWarning ProcessingStatus = "warning"
)

// ReportModel selects how records are flattened into report rows.
type ReportModel string

const (
	ReportModelParties  ReportModel = "parties"
	ReportModelProducts ReportModel = "products"
	ReportModelICMS     ReportModel = "icms"
)

// ValidReportModels lists the accepted report models.
var ValidReportModels = map[ReportModel]bool{
	ReportModelParties:  true,
	ReportModelProducts: true,
	ReportModelICMS:     true,
}

// ExportFormat is the file format of an exported report.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ValidationRuleType categorizes a validation rule.
type ValidationRuleType string

const (
	ValidationRuleRequired   ValidationRuleType = "required_field"
	ValidationRuleRegex      ValidationRuleType = "regex"
	ValidationRuleSumCheck   ValidationRuleType = "sum_check"
	ValidationRuleCheckDigit ValidationRuleType = "check_digit"
)

// ValidationSeverity is the severity of a failed validation rule.
type ValidationSeverity string

const (
	ValidationSeverityError   ValidationSeverity = "error"
	ValidationSeverityWarning ValidationSeverity = "warning"
)

// ValidationStatus is the aggregate validation outcome of a record.
type ValidationStatus string

const (
	ValidationStatusValid   ValidationStatus = "valid"
	ValidationStatusWarning ValidationStatus = "warning"
	ValidationStatusInvalid ValidationStatus = "invalid"
)

var freightModeLabels = map[string]string{
	"0": "Remetente",
	"1": "Destinatário",
	"2": "Terceiros",
	"3": "Próprio Remetente",
	"4": "Próprio Destinatário",
	"9": "Sem Ocorrência",
}

// FreightModeLabel returns the human label for a modFrete code, or the code
// itself when it is unknown.
func FreightModeLabel(code string) string {
	if label, ok := freightModeLabels[code]; ok {
		return label
	}
	return code
}

// FieldValidationStatus is the per-field outcome derived from rule results.
type FieldValidationStatus string

const (
	FieldStatusValid   FieldValidationStatus = "valid"
	FieldStatusInvalid FieldValidationStatus = "invalid"
	FieldStatusUnsure  FieldValidationStatus = "unsure"
)
