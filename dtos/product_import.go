package dtos

// SpreadsheetProduct is one candidate record mapped from a source spreadsheet row.
// Empty strings stand for absent cells.
type SpreadsheetProduct struct {
	RowNumber      int      `json:"row_number"` // 1-based sheet row, header is row 1
	ProductID      string   `json:"producto_id"`
	Name           string   `json:"nombre"`
	Manufacturer   string   `json:"fabricante"`
	Date           string   `json:"fecha,omitempty"`
	QRCodeURL      string   `json:"qr_code_url,omitempty"`
	DJCURL         string   `json:"djc_url,omitempty"`
	CertificateURL string   `json:"certificado_url,omitempty"`
	ClientID       string   `json:"cliente_id"`
	ConsultantID   string   `json:"consultor_id,omitempty"`
	IsValid        bool     `json:"is_valid"`
	Errors         []string `json:"errors"`
	IsNew          bool     `json:"is_new"`
	Exists         bool     `json:"exists"`
}

// ValidationResult aggregates one validation run over a spreadsheet.
type ValidationResult struct {
	Valid           int                  `json:"valid"`
	Invalid         int                  `json:"invalid"`
	Existing        int                  `json:"existing"`
	New             int                  `json:"new"`
	Products        []SpreadsheetProduct `json:"products"`
	ValidationLog   []string             `json:"validation_log"`
	StructureErrors []string             `json:"structure_errors,omitempty"`
}

// ImportResult is returned after committing a validated spreadsheet.
type ImportResult struct {
	Success int `json:"success"` // rows inserted
	Failed  int `json:"failed"`  // rows rejected during validation
}

// StartImportRequest optionally overrides the configured spreadsheet location.
type StartImportRequest struct {
	SpreadsheetID string `json:"spreadsheet_id" binding:"omitempty,max=128"`
	SheetName     string `json:"sheet_name" binding:"omitempty,max=100"`
	Range         string `json:"range" binding:"omitempty,max=32"`
}
