package domain

// DocumentVerdict is the ternary document-authenticity classification.
type DocumentVerdict string

const (
	VerdictGenuine    DocumentVerdict = "GENUINE"
	VerdictSuspicious DocumentVerdict = "SUSPICIOUS"
	VerdictLikelyFake DocumentVerdict = "LIKELY_FAKE"
)

// SecurityFeatures lists which expected document security features the
// vision model saw and which were missing.
type SecurityFeatures struct {
	Detected []string `json:"detected"`
	Missing  []string `json:"missing"`
}

// ExtractedData holds identity fields read off the document.
type ExtractedData struct {
	Name     string `json:"name"`
	IDNumber string `json:"idNumber"`
	DOB      string `json:"dob"`
	Gender   string `json:"gender"`
}

// DocumentVerificationResult is the structured reply of the document
// verification prompt. Produced once per upload, never persisted.
type DocumentVerificationResult struct {
	DocumentType     string           `json:"documentType"`
	IsAuthentic      bool             `json:"isAuthentic"`
	ConfidenceScore  float64          `json:"confidenceScore"` // 0-100
	TamperedAreas    []string         `json:"tamperedAreas"`
	FormatValid      bool             `json:"formatValid"`
	SecurityFeatures SecurityFeatures `json:"securityFeatures"`
	ExtractedData    ExtractedData    `json:"extractedData"`
	QRConsistent     *bool            `json:"qrConsistent"` // nil when no QR payload was supplied
	RiskFlags        []string         `json:"riskFlags"`
	OverallVerdict   DocumentVerdict  `json:"overallVerdict"`
	Reason           string           `json:"reason"`
}

// Flagged reports whether the verdict warrants a manual review alert.
func (r *DocumentVerificationResult) Flagged() bool {
	return r.OverallVerdict == VerdictSuspicious || r.OverallVerdict == VerdictLikelyFake
}

// FaceVerificationResult is the structured reply of the liveness/match
// prompt. Match is nil when no reference document face was available.
type FaceVerificationResult struct {
	Liveness bool   `json:"liveness"`
	Match    *bool  `json:"match"`
	Reason   string `json:"reason"`
}

// Passed applies the fail-open policy: a missing match defaults to
// true, and only an explicit false gates progress.
func (r *FaceVerificationResult) Passed() bool {
	if !r.Liveness {
		return false
	}
	if r.Match != nil && !*r.Match {
		return false
	}
	return true
}
