package reputation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/receiptscan/internal/model"
)

// Store is the persistent fraud and merchant store the producer queries.
// *database.FraudDB satisfies it; tests substitute deterministic stand-ins.
type Store interface {
	// CountVerifiedFraudReports returns the number of verified fraud
	// reports for the given account hash.
	CountVerifiedFraudReports(ctx context.Context, accountHash string) (int, error)

	// FindVerifiedBusiness looks up a verified business by exact name.
	// Returns (nil, nil) when no verified business matches.
	FindVerifiedBusiness(ctx context.Context, name string) (*model.Merchant, error)
}

// Producer checks accounts and merchants found in extracted receipt text
// against the fraud-report store.
type Producer struct {
	// store is the fraud and merchant store.
	store Store

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Producer.
type Option func(*Producer)

// WithLogger sets a custom logger for the producer.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Producer) {
		p.logger = logger
	}
}

// NewProducer creates a reputation producer backed by the given store.
func NewProducer(store Store, opts ...Option) *Producer {
	p := &Producer{
		store: store,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Analyze extracts account and phone numbers from the text, checks each
// account's fraud history, and attempts a verified-merchant match.
// It fails only when the underlying store is unreachable; an empty text
// or no matches is a normal, successful outcome.
func (p *Producer) Analyze(ctx context.Context, ocrText string) (model.ReputationSignal, error) {
	accountNumbers := ExtractAccountNumbers(ocrText)
	phoneNumbers := ExtractPhoneNumbers(ocrText)

	accounts := make([]model.AccountSummary, 0, len(accountNumbers))
	totalFraudReports := 0

	for _, accountNumber := range accountNumbers {
		count, err := p.store.CountVerifiedFraudReports(ctx, HashAccountNumber(accountNumber))
		if err != nil {
			return model.ReputationSignal{}, fmt.Errorf("reputation: fraud report lookup failed: %w", err)
		}

		accounts = append(accounts, model.AccountSummary{
			AccountNumber: MaskAccountNumber(accountNumber),
			FraudReports:  count,
			RiskLevel:     accountRiskFor(count),
		})
		totalFraudReports += count
	}

	merchant, err := p.findMerchant(ctx, ocrText)
	if err != nil {
		return model.ReputationSignal{}, err
	}

	signal := model.ReputationSignal{
		AccountsAnalyzed:  accounts,
		PhoneNumbers:      phoneNumbers,
		TotalFraudReports: totalFraudReports,
		Merchant:          merchant,
		TrustLevel:        trustLevelFor(totalFraudReports, merchant, len(accounts)),
	}

	p.logger.Debug("reputation: analysis completed",
		"accounts_checked", len(accounts),
		"total_fraud_reports", totalFraudReports,
		"merchant_found", merchant != nil,
	)
	return signal, nil
}

// findMerchant tries every candidate word window from the text against
// the verified-business store and returns the first match.
func (p *Producer) findMerchant(ctx context.Context, ocrText string) (*model.Merchant, error) {
	for _, candidate := range merchantCandidates(ocrText) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		merchant, err := p.store.FindVerifiedBusiness(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("reputation: merchant lookup failed: %w", err)
		}
		if merchant != nil {
			return merchant, nil
		}
	}
	return nil, nil
}

// accountRiskFor maps a verified fraud-report count to a per-account
// risk level: 3+ high, 1+ medium, else low.
func accountRiskFor(fraudReports int) model.RiskLevel {
	switch {
	case fraudReports >= 3:
		return model.RiskHigh
	case fraudReports >= 1:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// trustLevelFor computes the overall trust level. Fraud history wins
// over merchant verification; no accounts at all is a neutral outcome.
func trustLevelFor(fraudReports int, merchant *model.Merchant, accountCount int) model.TrustLevel {
	switch {
	case fraudReports >= 3:
		return model.TrustVeryLow
	case fraudReports >= 1:
		return model.TrustLow
	case merchant != nil && merchant.Verified:
		return model.TrustVeryHigh
	case accountCount == 0:
		return model.TrustMedium
	default:
		return model.TrustHigh
	}
}
