// Package memory holds mutex-guarded in-memory repositories. They back the
// test suites and let the service run without external stores; they favor
// clarity over performance.
package memory

import (
	"context"
	"sync"
	"time"

	"healthdb/internal/domain/audit"
	"healthdb/internal/domain/patient"
)

type PatientRepository struct {
	mu       sync.RWMutex
	patients map[int64]*patient.Patient
}

func NewPatientRepository() *PatientRepository {
	return &PatientRepository{patients: make(map[int64]*patient.Patient)}
}

func (r *PatientRepository) Save(_ context.Context, p *patient.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.patients[p.MRN]; ok {
		p.CreatedAt = existing.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.patients[p.MRN] = clone(p)
	return nil
}

func (r *PatientRepository) GetByMRN(_ context.Context, mrn int64) (*patient.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[mrn]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return clone(p), nil
}

// AppendTestResult appends under the write lock, so concurrent appends to
// the same MRN serialize and none are lost.
func (r *PatientRepository) AppendTestResult(_ context.Context, mrn int64, result patient.TestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[mrn]
	if !ok {
		return patient.ErrPatientNotFound
	}
	p.Tests = append(p.Tests, result)
	p.UpdatedAt = time.Now()
	return nil
}

// clone returns a copy whose test slice is detached from the stored record.
func clone(p *patient.Patient) *patient.Patient {
	c := *p
	c.Tests = make([]patient.TestResult, len(p.Tests))
	copy(c.Tests, p.Tests)
	return &c
}

// AuditRepository collects audit entries in memory. It stands in for the
// relational audit store when no database is configured.
type AuditRepository struct {
	mu      sync.Mutex
	entries []audit.Log
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Create(_ context.Context, entry *audit.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

// Entries returns a snapshot of everything recorded so far.
func (r *AuditRepository) Entries() []audit.Log {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]audit.Log, len(r.entries))
	copy(out, r.entries)
	return out
}
