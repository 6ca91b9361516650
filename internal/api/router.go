package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kznhealth/queue-booking/internal/complaint"
	"github.com/kznhealth/queue-booking/internal/identity"
	"github.com/kznhealth/queue-booking/internal/prescription"
	"github.com/kznhealth/queue-booking/internal/scheduling"
)

type RouterConfig struct {
	Scheduling    *scheduling.Service
	Identity      *identity.Service
	Prescriptions *prescription.Service
	Complaints    *complaint.Service
	PgPool        *pgxpool.Pool
	Redis         *redis.Client
	Env           string
	Version       string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Registration and login
	r.Post("/patients", registerPatientHandler(cfg.Identity))
	r.Post("/practitioners", registerPractitionerHandler(cfg.Identity))
	r.Post("/login", loginHandler(cfg.Identity))
	r.Post("/practitioners/{id}/deactivate", deactivatePractitionerHandler(cfg.Identity))

	// Scheduling
	r.Get("/practitioners/{id}/slots", freeSlotsHandler(cfg.Scheduling))
	r.Post("/appointments", bookAppointmentHandler(cfg.Scheduling))
	r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Scheduling))
	r.Post("/appointments/{id}/complete", completeAppointmentHandler(cfg.Scheduling))
	r.Get("/patients/{id}/appointments", patientAppointmentsHandler(cfg.Scheduling))
	r.Get("/practitioners/{id}/appointments", practitionerAppointmentsHandler(cfg.Scheduling))

	// Prescriptions and complaints
	r.Post("/prescriptions", issuePrescriptionHandler(cfg.Prescriptions))
	r.Get("/patients/{id}/prescriptions", patientPrescriptionsHandler(cfg.Prescriptions))
	r.Post("/complaints", submitComplaintHandler(cfg.Complaints))
	r.Get("/patients/{id}/complaints", patientComplaintsHandler(cfg.Complaints))
	r.Post("/complaints/{id}/resolve", resolveComplaintHandler(cfg.Complaints))

	return r
}
