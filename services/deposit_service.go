package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"deposit-service/kafka"
	"deposit-service/models"
	"deposit-service/providers"
	"deposit-service/repository"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

// statusCacheTTL bounds how long a terminal status lives in Redis.
const statusCacheTTL = 24 * time.Hour

// cachedStatus is the JSON document stored in Redis per finalized deposit.
type cachedStatus struct {
	Status        models.DepositStatus `json:"status"`
	TransactionID *string              `json:"transaction_id,omitempty"`
}

// DepositService defines the business logic interface.
type DepositService interface {
	// SubmitDeposit records a pending deposit, initiates the gateway
	// charge, and returns the gateway's acknowledgment.
	SubmitDeposit(ctx context.Context, req *models.DepositRequest) (*providers.ChargeResponse, *ServiceError)

	// GetDeposit returns the current status of a deposit.
	GetDeposit(ctx context.Context, id uint) (*models.DepositStatusResponse, *ServiceError)

	// HandleWebhook applies the terminal transition reported by the
	// gateway. A structurally valid payload never returns an error, even
	// when the underlying store update fails; the gateway must be
	// acknowledged or it will retry-storm.
	HandleWebhook(ctx context.Context, payload *models.WebhookPayload) *ServiceError
}

type depositServiceImpl struct {
	repo     repository.DepositRepository
	provider providers.PaymentProvider
	producer kafka.DepositEventPublisher
	cache    *redis.Client // optional, may be nil
	currency string
	logger   *zap.Logger
}

// NewDepositService creates a new DepositService. producer and cache are
// optional; a nil value disables event publishing / status caching.
func NewDepositService(
	repo repository.DepositRepository,
	provider providers.PaymentProvider,
	producer kafka.DepositEventPublisher,
	cache *redis.Client,
	currency string,
	logger *zap.Logger,
) DepositService {
	return &depositServiceImpl{
		repo:     repo,
		provider: provider,
		producer: producer,
		cache:    cache,
		currency: currency,
		logger:   logger,
	}
}

// SubmitDeposit persists the pending row first, then calls the gateway.
// A gateway failure leaves the pending row in place for operator-level
// reconciliation; there is no compensating delete.
func (s *depositServiceImpl) SubmitDeposit(ctx context.Context, req *models.DepositRequest) (*providers.ChargeResponse, *ServiceError) {
	if req.UserID == "" || req.PhoneNumber == "" || req.Amount <= 0 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "user_id, phone_number and a positive amount are required"}
	}

	deposit := &models.Deposit{
		UserID:      req.UserID,
		PhoneNumber: req.PhoneNumber,
		Amount:      req.Amount,
	}
	if err := s.repo.Create(ctx, deposit); err != nil {
		s.logger.Error("Failed to create deposit", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to save deposit"}
	}

	ack, err := s.provider.ChargeMobileMoney(ctx, providers.ChargeRequest{
		DepositID:   deposit.ID,
		Amount:      deposit.Amount,
		PhoneNumber: deposit.PhoneNumber,
	})
	if err != nil {
		var gwErr *providers.GatewayError
		if errors.As(err, &gwErr) {
			s.logger.Error("Gateway charge failed",
				zap.Uint("deposit_id", deposit.ID),
				zap.Int("upstream_status", gwErr.StatusCode),
				zap.String("upstream_body", gwErr.Body),
				zap.Error(gwErr.Err),
			)
		} else {
			s.logger.Error("Gateway charge failed", zap.Uint("deposit_id", deposit.ID), zap.Error(err))
		}
		return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "Payment gateway request failed"}
	}

	s.logger.Info("Deposit charge initiated",
		zap.Uint("deposit_id", deposit.ID),
		zap.String("user_id", deposit.UserID),
		zap.Float64("amount", deposit.Amount),
	)
	return ack, nil
}

// GetDeposit serves terminal statuses from Redis when available and falls
// back to the store.
func (s *depositServiceImpl) GetDeposit(ctx context.Context, id uint) (*models.DepositStatusResponse, *ServiceError) {
	if cached := s.cachedStatusFor(ctx, id); cached != nil {
		return cached, nil
	}

	deposit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDepositNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Deposit not found"}
		}
		s.logger.Error("Failed to fetch deposit", zap.Uint("deposit_id", id), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch deposit"}
	}

	if deposit.Status.IsTerminal() {
		go func() {
			cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.cacheStatus(cacheCtx, deposit.ID, deposit.Status, deposit.TransactionID)
		}()
	}
	return &models.DepositStatusResponse{
		DepositID:     deposit.ID,
		Status:        deposit.Status,
		TransactionID: deposit.TransactionID,
	}, nil
}

// HandleWebhook extracts the outcome and applies it. Storage failures and
// duplicate deliveries are logged, never surfaced: once the payload is
// structurally valid the gateway gets its acknowledgment.
func (s *depositServiceImpl) HandleWebhook(ctx context.Context, payload *models.WebhookPayload) *ServiceError {
	if payload == nil || payload.Data == nil {
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid webhook"}
	}

	data := payload.Data
	status := models.DepositStatusFailed
	var txID *string
	if data.Status == "successful" {
		status = models.DepositStatusSuccessful
		if v := data.TransactionID.String(); v != "" {
			txID = &v
		}
	}

	applied, err := s.repo.Finalize(ctx, data.OrderID, status, txID)
	if err != nil {
		s.logger.Error("Failed to finalize deposit",
			zap.Uint("deposit_id", data.OrderID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return nil
	}
	if !applied {
		// Unknown id or already terminal: idempotent re-delivery.
		s.logger.Info("Webhook ignored, deposit missing or already finalized",
			zap.Uint("deposit_id", data.OrderID),
			zap.String("status", string(status)),
		)
		return nil
	}

	s.logger.Info("Deposit finalized",
		zap.Uint("deposit_id", data.OrderID),
		zap.String("status", string(status)),
	)

	s.cacheStatus(ctx, data.OrderID, status, txID)
	s.publishEvent(ctx, data.OrderID, status, txID)
	return nil
}

// publishEvent looks the deposit back up to fill in user and amount, then
// publishes the finalized event. Failures are non-fatal.
func (s *depositServiceImpl) publishEvent(ctx context.Context, id uint, status models.DepositStatus, txID *string) {
	if s.producer == nil {
		return
	}

	deposit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("Skipping deposit event, lookup failed", zap.Uint("deposit_id", id), zap.Error(err))
		return
	}

	event := models.DepositEvent{
		Type:      "deposit_" + string(status),
		DepositID: deposit.ID,
		UserID:    deposit.UserID,
		Amount:    deposit.Amount,
		Currency:  s.currency,
		Timestamp: time.Now().UTC(),
	}
	if txID != nil {
		event.TransactionID = *txID
	}

	if err := s.producer.SendDepositEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish deposit event", zap.Uint("deposit_id", id), zap.Error(err))
	}
}

func statusCacheKey(id uint) string {
	return "deposit:status:" + strconv.FormatUint(uint64(id), 10)
}

// cachedStatusFor returns the cached status response, or nil on a miss.
// Only terminal statuses are ever cached.
func (s *depositServiceImpl) cachedStatusFor(ctx context.Context, id uint) *models.DepositStatusResponse {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, statusCacheKey(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Redis cache read failed", zap.Uint("deposit_id", id), zap.Error(err))
		}
		return nil
	}
	var cs cachedStatus
	if err := json.Unmarshal([]byte(raw), &cs); err != nil {
		return nil
	}
	return &models.DepositStatusResponse{DepositID: id, Status: cs.Status, TransactionID: cs.TransactionID}
}

func (s *depositServiceImpl) cacheStatus(ctx context.Context, id uint, status models.DepositStatus, txID *string) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(cachedStatus{Status: status, TransactionID: txID})
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statusCacheKey(id), b, statusCacheTTL).Err(); err != nil {
		s.logger.Warn("Redis cache write failed", zap.Uint("deposit_id", id), zap.Error(err))
	}
}
