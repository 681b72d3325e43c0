package vision

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nao1215/receiptscan/internal/model"
)

// defaultConfidence is assumed when the model omits a confidence score.
const defaultConfidence = 70

// payload mirrors the JSON object the extraction prompt asks for.
// TotalAmount is left loosely typed because the model returns it as
// either a number or a string depending on the receipt.
type payload struct {
	OCRText         string   `json:"ocr_text"`
	MerchantName    string   `json:"merchant_name"`
	TotalAmount     any      `json:"total_amount"`
	Currency        string   `json:"currency"`
	ReceiptDate     string   `json:"receipt_date"`
	Items           []string `json:"items"`
	AccountNumbers  []string `json:"account_numbers"`
	PhoneNumbers    []string `json:"phone_numbers"`
	VisualQuality   string   `json:"visual_quality"`
	VisualAnomalies []string `json:"visual_anomalies"`
	ConfidenceScore *float64 `json:"confidence_score"`
}

// parseResponse turns the model's completion text into a vision signal.
// Models wrap JSON in prose or code fences often enough that we extract
// the outermost JSON object by brace matching. When no JSON object is
// found at all, the raw text becomes the OCR text with the default
// confidence, matching how a plain-text completion is still useful for
// downstream reputation lookups.
func parseResponse(content string) model.VisionSignal {
	raw, ok := extractJSONObject(content)
	if !ok {
		return model.VisionSignal{
			OCRText:         strings.TrimSpace(content),
			Confidence:      defaultConfidence,
			VisualQuality:   model.QualityGood,
			VisualAnomalies: make([]string, 0),
		}
	}

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return model.VisionSignal{
			OCRText:         strings.TrimSpace(content),
			Confidence:      defaultConfidence,
			VisualQuality:   model.QualityGood,
			VisualAnomalies: make([]string, 0),
		}
	}

	confidence := float64(defaultConfidence)
	if p.ConfidenceScore != nil {
		confidence = clampConfidence(*p.ConfidenceScore)
	}

	ocrText := p.OCRText
	if ocrText == "" {
		ocrText = strings.TrimSpace(content)
	}

	return model.VisionSignal{
		OCRText:         ocrText,
		Confidence:      confidence,
		MerchantName:    p.MerchantName,
		TotalAmount:     amountString(p.TotalAmount),
		Currency:        p.Currency,
		ReceiptDate:     p.ReceiptDate,
		Items:           emptyIfNil(p.Items),
		AccountNumbers:  emptyIfNil(p.AccountNumbers),
		PhoneNumbers:    emptyIfNil(p.PhoneNumbers),
		VisualQuality:   qualityFor(p.VisualQuality),
		VisualAnomalies: emptyIfNil(p.VisualAnomalies),
	}
}

// extractJSONObject returns the outermost brace-balanced JSON object in
// the text, if any.
func extractJSONObject(content string) (string, bool) {
	start := strings.Index(content, "{")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == '{':
			depth++
		case !inString && ch == '}':
			depth--
			if depth == 0 {
				return content[start : i+1], true
			}
		}
	}
	return "", false
}

// amountString normalizes the loosely typed total amount to a string.
func amountString(amount any) string {
	switch v := amount.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	default:
		return fmt.Sprint(v)
	}
}

// qualityFor maps the model's quality string to a category, defaulting
// to "good" for anything unrecognized.
func qualityFor(quality string) model.VisualQuality {
	switch strings.ToLower(strings.TrimSpace(quality)) {
	case "excellent":
		return model.QualityExcellent
	case "poor":
		return model.QualityPoor
	default:
		return model.QualityGood
	}
}

// clampConfidence bounds a confidence value to [0,100].
func clampConfidence(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}

// emptyIfNil normalizes nil slices to empty ones so the JSON report
// serializes lists, not nulls.
func emptyIfNil(values []string) []string {
	if values == nil {
		return make([]string, 0)
	}
	return values
}
