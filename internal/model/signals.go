package model

// VisionSignal is the typed output of the vision producer: extracted text
// plus the structured fields the model could identify on the receipt.
// A producer either returns a complete VisionSignal or fails atomically;
// partial payloads never cross the producer boundary.
type VisionSignal struct {
	// OCRText is the full text extracted from the receipt image.
	OCRText string `json:"ocr_text"`

	// Confidence is the producer's extraction confidence, 0-100.
	Confidence float64 `json:"confidence"`

	// MerchantName is the detected business name, if any.
	MerchantName string `json:"merchant_name,omitempty"`

	// TotalAmount is the detected total, kept as a string because receipts
	// mix formats ("1,500.00", "NGN 1500") and we never do arithmetic on it.
	TotalAmount string `json:"total_amount,omitempty"`

	// Currency is the detected currency code (e.g., NGN, USD).
	Currency string `json:"currency,omitempty"`

	// ReceiptDate is the date printed on the receipt in YYYY-MM-DD form.
	ReceiptDate string `json:"receipt_date,omitempty"`

	// Items lists the purchased items found on the receipt.
	Items []string `json:"items,omitempty"`

	// AccountNumbers lists account numbers the producer spotted in the text.
	AccountNumbers []string `json:"account_numbers,omitempty"`

	// PhoneNumbers lists phone numbers the producer spotted in the text.
	PhoneNumbers []string `json:"phone_numbers,omitempty"`

	// VisualQuality is the overall legibility category of the image.
	VisualQuality VisualQuality `json:"visual_quality"`

	// VisualAnomalies lists suspicious visual elements, one description each.
	VisualAnomalies []string `json:"visual_anomalies,omitempty"`
}

// ForensicSignal is the typed output of the forensic scoring engine:
// four independent sub-scores combined into one manipulation estimate.
type ForensicSignal struct {
	// ELAScore is the error-level-analysis sub-score, 0-100.
	ELAScore float64 `json:"ela_score"`

	// NoiseScore is the noise-pattern sub-score, 0-100.
	NoiseScore float64 `json:"noise_score"`

	// CompressionScore is the recompression sub-score, 0-100.
	// Always 0 for non-JPEG sources.
	CompressionScore float64 `json:"compression_score"`

	// EdgeScore is the edge-density sub-score, 0-100.
	EdgeScore float64 `json:"edge_score"`

	// ManipulationScore is the combined estimate, 0-100, weighted
	// 0.30/0.30/0.20/0.20 over ela/noise/compression/edge and truncated.
	ManipulationScore int `json:"manipulation_score"`

	// TechniquesDetected names each manipulation technique whose sub-score
	// exceeded the detection threshold. Entries are independent, not
	// mutually exclusive.
	TechniquesDetected []string `json:"techniques_detected"`

	// Verdict is the categorical reading of ManipulationScore.
	Verdict ForensicVerdict `json:"verdict"`
}

// MetadataSignal is the typed output of the metadata risk engine:
// provenance tags plus the flags raised against them.
type MetadataSignal struct {
	// EXIFData maps provenance tag names to their string values.
	EXIFData map[string]string `json:"exif_data"`

	// Flags lists suspicious metadata findings, one description each.
	Flags []string `json:"flags"`

	// SoftwareDetected is the matched editing-software name, if any.
	SoftwareDetected string `json:"software_detected,omitempty"`

	// DatetimeConsistent is false when the captured-at and digitized-at
	// timestamps disagree by more than the allowed skew. Missing timestamps
	// count as consistent; absence is never penalized.
	DatetimeConsistent bool `json:"datetime_consistent"`

	// RiskLevel summarizes the flag count: 0 low, 1-2 medium, 3+ high.
	RiskLevel RiskLevel `json:"risk_level"`
}

// AccountSummary describes one account number checked against the fraud store.
type AccountSummary struct {
	// AccountNumber is the masked account number (first 3 + **** + last 2).
	// The full number never leaves the reputation producer.
	AccountNumber string `json:"account_number"`

	// FraudReports is the count of verified fraud reports for this account.
	FraudReports int `json:"fraud_reports"`

	// RiskLevel categorizes the report count: 3+ high, 1+ medium, else low.
	RiskLevel RiskLevel `json:"risk_level"`
}

// Merchant is a verified-business record from the reputation store.
type Merchant struct {
	// Name is the registered business name.
	Name string `json:"name"`

	// Verified is true when the business passed verification.
	Verified bool `json:"verified"`

	// TrustScore is the business's standing trust score, 0-100.
	TrustScore int `json:"trust_score"`

	// BusinessID is the store identifier of the business record.
	BusinessID string `json:"business_id"`
}

// ReputationSignal is the typed output of the reputation producer:
// fraud history for accounts found in the extracted text plus any
// verified-merchant match.
type ReputationSignal struct {
	// AccountsAnalyzed summarizes each account number that was checked.
	AccountsAnalyzed []AccountSummary `json:"accounts_analyzed"`

	// PhoneNumbers lists phone numbers found in the extracted text.
	PhoneNumbers []string `json:"phone_numbers"`

	// TotalFraudReports is the sum of verified fraud reports across accounts.
	TotalFraudReports int `json:"total_fraud_reports"`

	// Merchant is the verified merchant record if one matched, else nil.
	Merchant *Merchant `json:"merchant"`

	// TrustLevel is the overall reputation assessment.
	TrustLevel TrustLevel `json:"trust_level"`
}
