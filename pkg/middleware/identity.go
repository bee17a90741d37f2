package middleware

import (
	"net/http"

	"hospital-queue/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PatientIdentity trusts the patient identity injected by the auth gateway.
// Authentication itself lives upstream; this service never verifies
// credentials, it only requires that the gateway identified the caller.
func PatientIdentity(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("X-Patient-ID")
			if header == "" {
				utils.ResponseUnauthorized(w, "Missing patient identity")
				return
			}

			patientID, err := uuid.Parse(header)
			if err != nil {
				logger.Warn("Malformed patient identity header",
					zap.String("value", header),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid patient identity")
				return
			}

			ctx := utils.SetPatientContext(r.Context(), patientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Staff requires the gateway-asserted staff role for desk/admin routes
func Staff(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := r.Header.Get("X-Staff-Role")
			if role == "" {
				utils.ResponseUnauthorized(w, "Missing staff identity")
				return
			}

			if role != "admin" && role != "desk" {
				logger.Warn("Non-staff access attempt",
					zap.String("role", role),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Staff access required")
				return
			}

			ctx := utils.SetStaffRoleContext(r.Context(), role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
