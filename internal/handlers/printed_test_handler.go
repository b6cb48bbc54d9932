package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"diagnostics-backend/internal/models"
	"diagnostics-backend/internal/store"
	"diagnostics-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type printedTestsBody struct {
	Tests json.RawMessage `json:"tests"`
}

func (h *Handler) ListPrintedTests(c *gin.Context) {
	tests, err := h.store.PrintedTests.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to retrieve printed tests")
		return
	}
	c.JSON(http.StatusOK, tests)
}

func (h *Handler) GetPrintedTest(c *gin.Context) {
	id, err := models.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Text(c, http.StatusNotFound, "Printed test not found")
		return
	}
	test, err := h.store.PrintedTests.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.Text(c, http.StatusNotFound, "Printed test not found")
		return
	}
	if err != nil {
		h.serverError(c, err, "Failed to retrieve printed test")
		return
	}
	c.JSON(http.StatusOK, test)
}

// CreatePrintedTests stores a batch of results. Records are inserted in
// order and a failure part way leaves the earlier ones stored.
func (h *Handler) CreatePrintedTests(c *gin.Context) {
	var body printedTestsBody
	if err := c.ShouldBindJSON(&body); err != nil || !isJSONArray(body.Tests) {
		utils.Text(c, http.StatusBadRequest, "Tests data must be an array")
		return
	}

	var inputs []models.PrintedTestInput
	if err := json.Unmarshal(body.Tests, &inputs); err != nil {
		utils.Text(c, http.StatusBadRequest, "Invalid printed test data: "+err.Error())
		return
	}

	tests := make([]*models.PrintedTest, 0, len(inputs))
	for i := range inputs {
		if err := binding.Validator.ValidateStruct(&inputs[i]); err != nil {
			utils.Text(c, http.StatusBadRequest, fmt.Sprintf("tests[%d]: lab_no, name, sex and age are required", i))
			return
		}
		tests = append(tests, h.printedTestFromInput(&inputs[i]))
	}

	if err := h.store.PrintedTests.InsertMany(c.Request.Context(), tests); err != nil {
		h.serverError(c, err, "Failed to save printed tests")
		return
	}
	c.JSON(http.StatusCreated, tests)
}

func (h *Handler) printedTestFromInput(in *models.PrintedTestInput) *models.PrintedTest {
	now := h.now()

	patientID, ok := in.PatientID.ObjectID()
	if !ok {
		h.log.Warn().Str("patient_id", in.PatientID.String()).Msg("invalid or missing patient_id, assigning default")
		patientID = models.NilObjectID
	}

	date := now
	if in.Date != "" {
		if d, err := utils.ParseDate(in.Date); err == nil {
			date = d
		} else {
			h.log.Warn().Str("date", in.Date).Msg("invalid date, assigning current date")
		}
	}

	at := now
	if in.Time != "" {
		if t, err := utils.ParseTimeOn(in.Time, date); err == nil {
			at = t
		} else {
			h.log.Warn().Str("time", in.Time).Msg("invalid time format, assigning current time")
		}
	}

	return &models.PrintedTest{
		PatientID:      patientID,
		LabNo:          float64(*in.LabNo),
		Name:           in.Name,
		Sex:            in.Sex,
		Age:            string(in.Age),
		Time:           at,
		Specimen:       in.Specimen,
		ReferredBy:     in.ReferredBy,
		Date:           date,
		Investigation:  in.Investigation,
		Rate:           in.Rate.Float(),
		ReferenceRange: in.ReferenceRange,
		Interpretation: in.Interpretation,
		PriceNaira:     in.PriceNaira.Float(),
		Remark:         in.Remark,
	}
}

// PrintedTestSummary returns price totals by month, ISO week and sex.
func (h *Handler) PrintedTestSummary(c *gin.Context) {
	summary, err := h.store.PrintedTests.Summary(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to retrieve printed tests summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func isJSONArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
