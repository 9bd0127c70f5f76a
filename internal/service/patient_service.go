package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"healthdb/internal/domain/audit"
	"healthdb/internal/domain/patient"
)

// PatientService owns the patient record lifecycle: registration, lookup,
// and test-result accumulation. Persistence is delegated to the injected
// repository; the service holds no connection state of its own.
type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		auditSvc: auditSvc,
		log:      log,
	}
}

// Register creates and persists a new patient with an empty test history
// and unknown age. fullName must be exactly two whitespace-separated
// tokens. Uniqueness of the MRN is the store's responsibility; an existing
// document under the same MRN is replaced.
func (s *PatientService) Register(ctx context.Context, fullName string, mrn int64, bloodType patient.BloodType, requestID, ip string) (*patient.Patient, error) {
	firstName, lastName, err := patient.SplitName(fullName)
	if err != nil {
		return nil, err
	}
	if !bloodType.IsValid() {
		return nil, patient.ErrInvalidBloodType
	}

	p := patient.New(firstName, lastName, mrn, bloodType)
	if err := s.repo.Save(ctx, p); err != nil {
		s.log.Error("failed to save patient", zap.Int64("mrn", mrn), zap.Error(err))
		return nil, fmt.Errorf("registering patient: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:    audit.ActionRegisterPatient,
		MRN:       mrn,
		RequestID: requestID,
		IPAddress: ip,
	})

	s.log.Info("patient registered",
		zap.Int64("mrn", mrn),
		zap.String("name", p.FullName()),
	)

	return p, nil
}

// Find looks a patient up by MRN. patient.ErrPatientNotFound is an
// expected outcome, not a fault.
func (s *PatientService) Find(ctx context.Context, mrn int64) (*patient.Patient, error) {
	return s.repo.GetByMRN(ctx, mrn)
}

// AddTestResult appends one result to the identified patient's history.
// When the patient does not exist nothing is written.
func (s *PatientService) AddTestResult(ctx context.Context, mrn int64, testName string, testResult int64, requestID, ip string) error {
	err := s.repo.AppendTestResult(ctx, mrn, patient.TestResult{Name: testName, Result: testResult})
	if err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:    audit.ActionAddTestResult,
		MRN:       mrn,
		RequestID: requestID,
		IPAddress: ip,
		Detail:    testName,
	})

	s.log.Info("test result recorded",
		zap.Int64("mrn", mrn),
		zap.String("test_name", testName),
	)

	return nil
}

// ListTestResults returns the patient's history in insertion order.
func (s *PatientService) ListTestResults(ctx context.Context, mrn int64, requestID, ip string) ([]patient.TestResult, error) {
	p, err := s.repo.GetByMRN(ctx, mrn)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:    audit.ActionReadResults,
		MRN:       mrn,
		RequestID: requestID,
		IPAddress: ip,
	})

	return p.Tests, nil
}
