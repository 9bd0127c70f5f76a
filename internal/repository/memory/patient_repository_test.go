package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"healthdb/internal/domain/audit"
	"healthdb/internal/domain/patient"
)

type PatientRepositorySuite struct {
	suite.Suite
	repo *PatientRepository
	ctx  context.Context
}

func TestPatientRepositorySuite(t *testing.T) {
	suite.Run(t, new(PatientRepositorySuite))
}

func (s *PatientRepositorySuite) SetupTest() {
	s.repo = NewPatientRepository()
	s.ctx = context.Background()
}

func (s *PatientRepositorySuite) TestSaveAndGet() {
	s.Run("round-trips a saved record", func() {
		p := patient.New("Ann", "Ables", 1, patient.BloodTypeAPos)
		s.Require().NoError(s.repo.Save(s.ctx, p))

		found, err := s.repo.GetByMRN(s.ctx, 1)
		s.Require().NoError(err)
		s.True(p.Equal(found))
		s.Empty(found.Tests)
		s.NotNil(found.Tests)
	})

	s.Run("returns ErrPatientNotFound for an unknown MRN", func() {
		_, err := s.repo.GetByMRN(s.ctx, 999)
		s.Require().ErrorIs(err, patient.ErrPatientNotFound)
	})

	s.Run("saving again replaces the record under the same MRN", func() {
		s.Require().NoError(s.repo.Save(s.ctx, patient.New("Ann", "Ables", 1, patient.BloodTypeAPos)))
		s.Require().NoError(s.repo.Save(s.ctx, patient.New("Bob", "Boyle", 1, patient.BloodTypeONeg)))

		found, err := s.repo.GetByMRN(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal("Bob", found.FirstName)
	})
}

func (s *PatientRepositorySuite) TestAppendTestResult() {
	s.Run("preserves insertion order", func() {
		s.Require().NoError(s.repo.Save(s.ctx, patient.New("Ann", "Ables", 1, patient.BloodTypeAPos)))

		s.Require().NoError(s.repo.AppendTestResult(s.ctx, 1, patient.TestResult{Name: "glucose", Result: 90}))
		s.Require().NoError(s.repo.AppendTestResult(s.ctx, 1, patient.TestResult{Name: "cholesterol", Result: 180}))

		found, err := s.repo.GetByMRN(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal([]patient.TestResult{
			{Name: "glucose", Result: 90},
			{Name: "cholesterol", Result: 180},
		}, found.Tests)
	})

	s.Run("returns ErrPatientNotFound and writes nothing for an unknown MRN", func() {
		err := s.repo.AppendTestResult(s.ctx, 999, patient.TestResult{Name: "x", Result: 1})
		s.Require().ErrorIs(err, patient.ErrPatientNotFound)

		_, err = s.repo.GetByMRN(s.ctx, 999)
		s.Require().ErrorIs(err, patient.ErrPatientNotFound)
	})

	s.Run("loses nothing under concurrent appends to the same MRN", func() {
		s.Require().NoError(s.repo.Save(s.ctx, patient.New("Ann", "Ables", 7, patient.BloodTypeAPos)))

		const workers = 50
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func(i int) {
				defer wg.Done()
				err := s.repo.AppendTestResult(s.ctx, 7, patient.TestResult{
					Name:   fmt.Sprintf("test-%d", i),
					Result: int64(i),
				})
				s.NoError(err)
			}(i)
		}
		wg.Wait()

		found, err := s.repo.GetByMRN(s.ctx, 7)
		s.Require().NoError(err)
		s.Len(found.Tests, workers)
	})
}

func (s *PatientRepositorySuite) TestIsolation() {
	s.Run("mutating a returned record does not touch the store", func() {
		s.Require().NoError(s.repo.Save(s.ctx, patient.New("Ann", "Ables", 1, patient.BloodTypeAPos)))

		found, err := s.repo.GetByMRN(s.ctx, 1)
		s.Require().NoError(err)
		found.AddTestResult("glucose", 90)

		again, err := s.repo.GetByMRN(s.ctx, 1)
		s.Require().NoError(err)
		s.Empty(again.Tests)
	})
}

func TestAuditRepository(t *testing.T) {
	repo := NewAuditRepository()
	ctx := context.Background()

	entries := []audit.Log{
		{Action: audit.ActionRegisterPatient, MRN: 1},
		{Action: audit.ActionAddTestResult, MRN: 1, Detail: "glucose"},
	}
	for i := range entries {
		if err := repo.Create(ctx, &entries[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got := repo.Entries()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Action != audit.ActionRegisterPatient || got[1].Detail != "glucose" {
		t.Fatalf("entries recorded out of order: %+v", got)
	}
}
