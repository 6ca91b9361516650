package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kznhealth/queue-booking/internal/identity"
	"github.com/kznhealth/queue-booking/internal/scheduling"
)

func registerPatientHandler(svc *identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date_of_birth", "date_of_birth must be formatted 2006-01-02")
			return
		}

		p, err := svc.RegisterPatient(r.Context(), identity.RegisterPatientInput{
			IDNumber:    req.IDNumber,
			Name:        req.FullName,
			DateOfBirth: dob,
			Language:    req.Language,
			Password:    req.Password,
		})
		if err != nil {
			handleIdentityError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, patientIdentity(p))
	}
}

func registerPractitionerHandler(svc *identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPractitionerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		hours := make(scheduling.WorkHours, len(req.WorkHours))
		for day, win := range req.WorkHours {
			hours[day] = scheduling.DayWindow{Start: win.Start, End: win.End}
		}

		pr, err := svc.RegisterPractitioner(r.Context(), identity.RegisterPractitionerInput{
			PracticeNumber: req.PracticeNumber,
			Name:           req.FullName,
			Specialty:      req.Specialty,
			WorkHours:      hours,
			Password:       req.Password,
		})
		if err != nil {
			handleIdentityError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, practitionerIdentity(pr))
	}
}

func loginHandler(svc *identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		switch req.Role {
		case "patient":
			p, err := svc.LoginPatient(r.Context(), req.Credential, req.Password)
			if err != nil {
				handleIdentityError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, patientIdentity(p))
		case "practitioner":
			pr, err := svc.LoginPractitioner(r.Context(), req.Credential, req.Password)
			if err != nil {
				handleIdentityError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, practitionerIdentity(pr))
		default:
			writeError(w, http.StatusBadRequest, "invalid_role", "role must be patient or practitioner")
		}
	}
}

func deactivatePractitionerHandler(svc *identity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r, "id", "invalid_practitioner_id")
		if !ok {
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			handleIdentityError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
	}
}

func handleIdentityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrCredentialTaken):
		writeError(w, http.StatusConflict, "credential_taken", err.Error())
	case errors.Is(err, identity.ErrWeakPassword):
		writeError(w, http.StatusUnprocessableEntity, "weak_password", err.Error())
	case errors.Is(err, identity.ErrUnknownLanguage):
		writeError(w, http.StatusUnprocessableEntity, "unknown_language", err.Error())
	case errors.Is(err, identity.ErrInvalidWorkHours):
		writeError(w, http.StatusUnprocessableEntity, "invalid_work_hours", err.Error())
	case errors.Is(err, identity.ErrMissingField):
		writeError(w, http.StatusUnprocessableEntity, "missing_field", err.Error())
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "credential or password is wrong")
	case errors.Is(err, identity.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, identity.ErrPractitionerNotFound):
		writeError(w, http.StatusNotFound, "practitioner_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
