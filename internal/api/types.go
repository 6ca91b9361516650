package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kznhealth/queue-booking/internal/complaint"
	"github.com/kznhealth/queue-booking/internal/identity"
	"github.com/kznhealth/queue-booking/internal/prescription"
	"github.com/kznhealth/queue-booking/internal/scheduling"
)

type RegisterPatientRequest struct {
	IDNumber    string `json:"id_number"`
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"` // 2006-01-02
	Language    string `json:"language"`
	Password    string `json:"password"`
}

type WorkWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type RegisterPractitionerRequest struct {
	PracticeNumber string                `json:"practice_number"`
	FullName       string                `json:"full_name"`
	Specialty      *string               `json:"specialty,omitempty"`
	WorkHours      map[string]WorkWindow `json:"work_hours"`
	Password       string                `json:"password"`
}

type LoginRequest struct {
	Role       string `json:"role"` // patient or practitioner
	Credential string `json:"credential"`
	Password   string `json:"password"`
}

type BookAppointmentRequest struct {
	PatientID      string `json:"patient_id"`
	PractitionerID string `json:"practitioner_id"`
	SlotStart      string `json:"slot_start"` // RFC 3339
}

type RequesterRequest struct {
	RequesterID string `json:"requester_id"`
}

type IssuePrescriptionRequest struct {
	PractitionerID string `json:"practitioner_id"`
	PatientID      string `json:"patient_id"`
	Medication     string `json:"medication"`
}

type SubmitComplaintRequest struct {
	PatientID string `json:"patient_id"`
	Content   string `json:"content"`
}

type IdentityResponse struct {
	ID       uuid.UUID `json:"id"`
	Role     string    `json:"role"`
	FullName string    `json:"full_name"`
	Language string    `json:"language,omitempty"`
}

type SlotResponse struct {
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patient_id"`
	PractitionerID  uuid.UUID `json:"practitioner_id"`
	SlotStart       time.Time `json:"slot_start"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
}

type AppointmentDetailResponse struct {
	AppointmentResponse
	PatientName      string `json:"patient_name"`
	PractitionerName string `json:"practitioner_name"`
}

type PrescriptionResponse struct {
	ID             uuid.UUID `json:"id"`
	PatientID      uuid.UUID `json:"patient_id"`
	PractitionerID uuid.UUID `json:"practitioner_id"`
	Medication     string    `json:"medication"`
	IssuedOn       time.Time `json:"issued_on"`
	RefillDue      time.Time `json:"refill_due"`
}

type ComplaintResponse struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	SubmittedOn time.Time `json:"submitted_on"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

func toAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		PatientID:       a.PatientID,
		PractitionerID:  a.PractitionerID,
		SlotStart:       a.SlotStart,
		DurationMinutes: int(a.Duration.Minutes()),
		Status:          string(a.Status),
	}
}

func toDetailResponses(details []scheduling.AppointmentDetail) []AppointmentDetailResponse {
	out := make([]AppointmentDetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, AppointmentDetailResponse{
			AppointmentResponse: toAppointmentResponse(&d.Appointment),
			PatientName:         d.PatientName,
			PractitionerName:    d.PractitionerName,
		})
	}
	return out
}

func toSlotResponses(slots []scheduling.Slot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotResponse{Start: s.Start, DurationMinutes: int(s.Duration.Minutes())})
	}
	return out
}

func toPrescriptionResponses(list []prescription.Prescription) []PrescriptionResponse {
	out := make([]PrescriptionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, PrescriptionResponse{
			ID:             p.ID,
			PatientID:      p.PatientID,
			PractitionerID: p.PractitionerID,
			Medication:     p.Medication,
			IssuedOn:       p.IssuedOn,
			RefillDue:      p.RefillDue,
		})
	}
	return out
}

func toComplaintResponse(c *complaint.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:          c.ID,
		PatientID:   c.PatientID,
		Content:     c.Content,
		Status:      string(c.Status),
		SubmittedOn: c.SubmittedOn,
	}
}

func patientIdentity(p *identity.Patient) IdentityResponse {
	return IdentityResponse{ID: p.ID, Role: "patient", FullName: p.Name, Language: p.Language}
}

func practitionerIdentity(pr *identity.Practitioner) IdentityResponse {
	return IdentityResponse{ID: pr.ID, Role: "practitioner", FullName: pr.Name}
}
