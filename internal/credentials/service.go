package credentials

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	errMissingStore = errors.New("credential store is required")
	noOpLogger      = zap.NewNop()
)

const (
	opServiceNew   = "credentials.service.new"
	opAuthenticate = "credentials.authenticate"
)

// ServiceError carries an operation-scoped error code alongside its cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// ServiceConfig describes the dependencies of the credential service.
type ServiceConfig struct {
	Store  Store
	Logger *zap.Logger
}

// Service manages the single credential record and login comparisons.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService constructs the credential service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, newServiceError(opServiceNew, "missing_store", errMissingStore)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{store: cfg.Store, logger: logger}, nil
}

// Authenticate checks the submitted pair against the stored record. While no
// record exists the submitted pair is persisted verbatim first, so the very
// first login always succeeds and fixes the account for good. The record is
// never updated afterwards. A mismatch is an ordinary false result, not an
// error.
func (s *Service) Authenticate(email, password string) (bool, error) {
	record, found, err := s.store.Load()
	if err != nil {
		s.logger.Error("credential load failed",
			zap.String("operation", opAuthenticate),
			zap.Error(err))
		return false, newServiceError(opAuthenticate, "load_failed", err)
	}

	if !found {
		record = Record{Email: email, Password: password}
		if err := s.store.Save(record); err != nil {
			s.logger.Error("credential save failed",
				zap.String("operation", opAuthenticate),
				zap.Error(err))
			return false, newServiceError(opAuthenticate, "save_failed", err)
		}
		s.logger.Info("credential record created", zap.String("email", email))
	}

	return email == record.Email && password == record.Password, nil
}
