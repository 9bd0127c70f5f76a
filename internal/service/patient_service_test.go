package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"healthdb/internal/domain/audit"
	"healthdb/internal/domain/patient"
	"healthdb/internal/repository/memory"
)

type PatientServiceSuite struct {
	suite.Suite
	repo      *memory.PatientRepository
	auditRepo *memory.AuditRepository
	auditSvc  *AuditService
	svc       *PatientService
	ctx       context.Context
}

func TestPatientServiceSuite(t *testing.T) {
	suite.Run(t, new(PatientServiceSuite))
}

func (s *PatientServiceSuite) SetupTest() {
	s.repo = memory.NewPatientRepository()
	s.auditRepo = memory.NewAuditRepository()
	s.auditSvc = NewAuditService(s.auditRepo, zap.NewNop())
	s.svc = NewPatientService(s.repo, s.auditSvc, zap.NewNop())
	s.ctx = context.Background()
}

func (s *PatientServiceSuite) TearDownTest() {
	s.auditSvc.Shutdown()
}

func (s *PatientServiceSuite) TestRegister() {
	s.Run("registers and finds a patient", func() {
		created, err := s.svc.Register(s.ctx, "Ann Ables", 1, patient.BloodTypeAPos, "req-1", "127.0.0.1")
		s.Require().NoError(err)

		found, err := s.svc.Find(s.ctx, 1)
		s.Require().NoError(err)
		s.True(created.Equal(found))
		s.Equal("Ann", found.FirstName)
		s.Equal("Ables", found.LastName)
		s.Equal(int64(1), found.MRN)
		s.Zero(found.Age)
		s.Require().NotNil(found.Tests)
		s.Empty(found.Tests)
	})

	s.Run("rejects names that do not split into two tokens", func() {
		for _, name := range []string{"Ann", "Ann Mary Ables", ""} {
			_, err := s.svc.Register(s.ctx, name, 2, patient.BloodTypeAPos, "req-2", "")
			s.Require().ErrorIs(err, patient.ErrMalformedName, "name %q", name)
		}

		_, err := s.svc.Find(s.ctx, 2)
		s.Require().ErrorIs(err, patient.ErrPatientNotFound)
	})

	s.Run("rejects an invalid blood type", func() {
		_, err := s.svc.Register(s.ctx, "Bob Boyle", 3, "Z+", "req-3", "")
		s.Require().ErrorIs(err, patient.ErrInvalidBloodType)
	})
}

func (s *PatientServiceSuite) TestAddTestResult() {
	s.Run("appends in order and lists back", func() {
		_, err := s.svc.Register(s.ctx, "Ann Ables", 1, patient.BloodTypeAPos, "req-1", "")
		s.Require().NoError(err)

		s.Require().NoError(s.svc.AddTestResult(s.ctx, 1, "glucose", 90, "req-2", ""))
		s.Require().NoError(s.svc.AddTestResult(s.ctx, 1, "cholesterol", 180, "req-3", ""))

		results, err := s.svc.ListTestResults(s.ctx, 1, "req-4", "")
		s.Require().NoError(err)
		s.Equal([]patient.TestResult{
			{Name: "glucose", Result: 90},
			{Name: "cholesterol", Result: 180},
		}, results)
	})

	s.Run("reports not found without writing", func() {
		err := s.svc.AddTestResult(s.ctx, 999, "x", 1, "req-5", "")
		s.Require().ErrorIs(err, patient.ErrPatientNotFound)

		_, err = s.svc.Find(s.ctx, 999)
		s.Require().ErrorIs(err, patient.ErrPatientNotFound)
	})
}

func (s *PatientServiceSuite) TestListTestResults() {
	s.Run("returns not found on an empty store", func() {
		_, err := s.svc.ListTestResults(s.ctx, 999, "req-1", "")
		s.Require().ErrorIs(err, patient.ErrPatientNotFound)
	})
}

func (s *PatientServiceSuite) TestAuditTrail() {
	_, err := s.svc.Register(s.ctx, "Ann Ables", 1, patient.BloodTypeAPos, "req-1", "127.0.0.1")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.AddTestResult(s.ctx, 1, "glucose", 90, "req-2", "127.0.0.1"))

	// Drain the async worker before inspecting.
	s.auditSvc.Shutdown()
	s.auditSvc = NewAuditService(s.auditRepo, zap.NewNop())

	entries := s.auditRepo.Entries()
	s.Require().Len(entries, 2)
	s.Equal(audit.ActionRegisterPatient, entries[0].Action)
	s.Equal(int64(1), entries[0].MRN)
	s.Equal("req-1", entries[0].RequestID)
	s.Equal(audit.ActionAddTestResult, entries[1].Action)
	s.Equal("glucose", entries[1].Detail)
}

// failingRepo forces persistence errors to verify they surface wrapped.
type failingRepo struct{}

func (failingRepo) Save(context.Context, *patient.Patient) error { return errors.New("store down") }
func (failingRepo) GetByMRN(context.Context, int64) (*patient.Patient, error) {
	return nil, errors.New("store down")
}
func (failingRepo) AppendTestResult(context.Context, int64, patient.TestResult) error {
	return errors.New("store down")
}

func (s *PatientServiceSuite) TestPersistenceFailurePropagates() {
	svc := NewPatientService(failingRepo{}, s.auditSvc, zap.NewNop())

	_, err := svc.Register(s.ctx, "Ann Ables", 1, patient.BloodTypeAPos, "req-1", "")
	s.Require().Error(err)
	s.NotErrorIs(err, patient.ErrPatientNotFound)
	s.Contains(err.Error(), "store down")
}
