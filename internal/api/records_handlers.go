package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/kznhealth/queue-booking/internal/complaint"
	"github.com/kznhealth/queue-booking/internal/prescription"
)

func issuePrescriptionHandler(svc *prescription.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req IssuePrescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		practitionerID, err := uuid.Parse(req.PractitionerID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_practitioner_id", "practitioner_id must be a valid UUID")
			return
		}

		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return
		}

		p, err := svc.Issue(r.Context(), practitionerID, patientID, req.Medication)
		if err != nil {
			handleRecordsError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, PrescriptionResponse{
			ID:             p.ID,
			PatientID:      p.PatientID,
			PractitionerID: p.PractitionerID,
			Medication:     p.Medication,
			IssuedOn:       p.IssuedOn,
			RefillDue:      p.RefillDue,
		})
	}
}

func patientPrescriptionsHandler(svc *prescription.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_patient_id")
		if !ok {
			return
		}

		list, err := svc.ForPatient(r.Context(), id)
		if err != nil {
			handleRecordsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPrescriptionResponses(list))
	}
}

func submitComplaintHandler(svc *complaint.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitComplaintRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return
		}

		c, err := svc.Submit(r.Context(), patientID, req.Content)
		if err != nil {
			handleRecordsError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toComplaintResponse(c))
	}
}

func patientComplaintsHandler(svc *complaint.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_patient_id")
		if !ok {
			return
		}

		list, err := svc.ForPatient(r.Context(), id)
		if err != nil {
			handleRecordsError(w, err)
			return
		}

		out := make([]ComplaintResponse, 0, len(list))
		for i := range list {
			out = append(out, toComplaintResponse(&list[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func resolveComplaintHandler(svc *complaint.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_complaint_id")
		if !ok {
			return
		}

		c, err := svc.Resolve(r.Context(), id)
		if err != nil {
			handleRecordsError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toComplaintResponse(c))
	}
}

func handleRecordsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, prescription.ErrNoAppointment):
		writeError(w, http.StatusForbidden, "no_appointment_on_record", err.Error())
	case errors.Is(err, prescription.ErrEmptyMedication):
		writeError(w, http.StatusUnprocessableEntity, "empty_medication", err.Error())
	case errors.Is(err, complaint.ErrEmptyContent):
		writeError(w, http.StatusUnprocessableEntity, "empty_content", err.Error())
	case errors.Is(err, complaint.ErrNotFound):
		writeError(w, http.StatusNotFound, "complaint_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
