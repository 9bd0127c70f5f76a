package patient

import "context"

type Repository interface {
	// Save persists the full record, inserting or replacing by MRN.
	Save(ctx context.Context, p *Patient) error

	// GetByMRN retrieves a patient by medical record number. Returns
	// ErrPatientNotFound if no record exists.
	GetByMRN(ctx context.Context, mrn int64) (*Patient, error)

	// AppendTestResult adds one result to the end of the patient's history
	// in a single store operation, so concurrent appends to the same MRN
	// cannot overwrite each other. Returns ErrPatientNotFound if no record
	// exists; the store is left unchanged in that case.
	AppendTestResult(ctx context.Context, mrn int64, r TestResult) error
}
