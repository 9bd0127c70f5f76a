// Package mongodb implements the patient repository on the document store.
// Each patient is one document keyed by MRN; the test history lives in an
// embedded array on the document.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"healthdb/internal/domain/patient"
)

type PatientRepository struct {
	coll *mongo.Collection
}

func NewPatientRepository(coll *mongo.Collection) *PatientRepository {
	return &PatientRepository{coll: coll}
}

func (r *PatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"_id": p.MRN},
		p,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("saving patient %d: %w", p.MRN, err)
	}
	return nil
}

func (r *PatientRepository) GetByMRN(ctx context.Context, mrn int64) (*patient.Patient, error) {
	var p patient.Patient
	err := r.coll.FindOne(ctx, bson.M{"_id": mrn}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, patient.ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading patient %d: %w", mrn, err)
	}
	if p.Tests == nil {
		p.Tests = []patient.TestResult{}
	}
	return &p, nil
}

// AppendTestResult pushes onto the embedded array in one update, so
// concurrent appends to the same MRN interleave instead of overwriting
// each other.
func (r *PatientRepository) AppendTestResult(ctx context.Context, mrn int64, result patient.TestResult) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": mrn},
		bson.M{
			"$push": bson.M{"tests": result},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("appending test result for patient %d: %w", mrn, err)
	}
	if res.MatchedCount == 0 {
		return patient.ErrPatientNotFound
	}
	return nil
}
