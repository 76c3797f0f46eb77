package dto

type ExecResponse struct {
	Action     string `json:"action"`
	Returncode int    `json:"returncode"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
}

type PowerRequest struct {
	Action string `json:"action" binding:"required"`
}

type LastScanResponse struct {
	Found   bool     `json:"found"`
	Barcode string   `json:"barcode,omitempty"`
	Result  string   `json:"result,omitempty"`
	Details string   `json:"details,omitempty"`
	Lines   []string `json:"lines,omitempty"`
}
