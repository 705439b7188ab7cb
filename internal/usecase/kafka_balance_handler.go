package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	domrepo "TradeStage/internal/domain/repository"
	pkgkafka "TradeStage/pkg/kafka"
)

// KafkaBalanceHandler consumes balance updates published by the exchange
// sync and feeds them into the account monitors.
type KafkaBalanceHandler struct {
	topic    string
	accounts *AccountUsecase
	metrics  domrepo.Metrics
}

func NewKafkaBalanceHandler(topic string, accounts *AccountUsecase, metrics domrepo.Metrics) *KafkaBalanceHandler {
	return &KafkaBalanceHandler{topic: topic, accounts: accounts, metrics: metrics}
}

func (h *KafkaBalanceHandler) Topic() string { return h.topic }

// incoming message schema: {account_id, balance, t}
func (h *KafkaBalanceHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		AccountID string `json:"account_id"`
		Balance   string `json:"balance"`
		T         int64  `json:"t"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	balance, err := decimal.NewFromString(m.Balance)
	if err != nil {
		h.metrics.RecordError("consumer_balance_parse")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	if m.T > 0 {
		// E2E latency from event time to now (approx)
		h.metrics.RecordLatency("intake_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())
	}

	// Rule violations (negative balance, unknown account state) are data
	// errors: counted by the usecase, not retried by the consumer.
	if _, err := h.accounts.UpdateBalance(ctx, m.AccountID, balance); err != nil {
		return nil
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaBalanceHandler)(nil)
