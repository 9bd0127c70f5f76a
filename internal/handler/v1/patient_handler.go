package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthdb/internal/domain/patient"
	"healthdb/internal/service"
	"healthdb/internal/validation"
	"healthdb/pkg/metrics"
)

// Request schemas, checked in order; the first invalid field wins.
var (
	newPatientSchema = []validation.Field{
		{Key: "name", Type: validation.TypeString},
		{Key: "id", Type: validation.TypeInt},
		{Key: "blood_type", Type: validation.TypeString},
	}

	addTestSchema = []validation.Field{
		{Key: "id", Type: validation.TypeInt},
		{Key: "test_name", Type: validation.TypeString},
		{Key: "test_result", Type: validation.TypeInt},
	}
)

type PatientHandler struct {
	svc     *service.PatientService
	metrics *metrics.Collector
}

func NewPatientHandler(svc *service.PatientService, m *metrics.Collector) *PatientHandler {
	return &PatientHandler{svc: svc, metrics: m}
}

// Register wires the patient routes. Route shapes and body keys follow the
// service's published wire contract.
func (h *PatientHandler) Register(r gin.IRouter) {
	r.POST("/new_patient", h.NewPatient)
	r.POST("/add_test", h.AddTest)
	r.GET("/get_results/:patient_id", h.GetResults)
	r.GET("/patients/:patient_id", h.GetPatient)
}

// NewPatient registers a patient from a JSON body of the shape
// {"name": string, "id": int, "blood_type": string}.
func (h *PatientHandler) NewPatient(c *gin.Context) {
	body, ok := decodeBody(c)
	if !ok {
		return
	}

	if err := validation.ValidateShape(body, newPatientSchema); err != nil {
		respondServiceError(c, err)
		return
	}
	bloodType := body["blood_type"].(string)
	if err := validation.ValidateBloodType(bloodType); err != nil {
		respondServiceError(c, err)
		return
	}

	p, err := h.svc.Register(c.Request.Context(),
		body["name"].(string),
		asInt64(body["id"]),
		patient.BloodType(bloodType),
		requestID(c), c.ClientIP(),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.PatientsRegisteredTotal.Inc()
	}
	respondOK(c, "Patient added", p)
}

// AddTest appends a test result from a JSON body of the shape
// {"id": int, "test_name": string, "test_result": int}.
func (h *PatientHandler) AddTest(c *gin.Context) {
	body, ok := decodeBody(c)
	if !ok {
		return
	}

	if err := validation.ValidateShape(body, addTestSchema); err != nil {
		respondServiceError(c, err)
		return
	}

	err := h.svc.AddTestResult(c.Request.Context(),
		asInt64(body["id"]),
		body["test_name"].(string),
		asInt64(body["test_result"]),
		requestID(c), c.ClientIP(),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.TestResultsRecordedTotal.Inc()
	}
	respondOK(c, "Test added", nil)
}

// GetResults returns the patient's test results in insertion order.
func (h *PatientHandler) GetResults(c *gin.Context) {
	mrn, err := validation.ParseMRN(c.Param("patient_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	results, err := h.svc.ListTestResults(c.Request.Context(), mrn, requestID(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

type patientSummary struct {
	Name    string               `json:"name"`
	MRN     int64                `json:"mrn"`
	Status  string               `json:"status"`
	Results []patient.TestResult `json:"test_results"`
}

// GetPatient returns a display summary of the record, including the
// Minor/Adult classification derived from age.
func (h *PatientHandler) GetPatient(c *gin.Context) {
	mrn, err := validation.ParseMRN(c.Param("patient_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	p, err := h.svc.Find(c.Request.Context(), mrn)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "", patientSummary{
		Name:    p.FullName(),
		MRN:     p.MRN,
		Status:  p.Status(),
		Results: p.Tests,
	})
}
