// Package vision implements the OCR and visual-analysis signal producer.
//
// The producer sends the receipt image to a multimodal chat-completion
// model with a structured-extraction prompt and parses the JSON payload
// the model returns: extracted text, confidence, merchant details, item
// list, and visual anomaly descriptions.
//
// Design decision: Unlike the forensic and metadata engines, this producer
// is failing by contract. A transport error, an empty completion, or an
// unusable payload all surface as a generic error; the orchestrator
// isolates the failure and the analysis continues on the remaining
// signals. The caller never needs to distinguish network errors from
// model errors.
package vision
