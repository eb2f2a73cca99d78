package handler

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"go-rest-auth-starter/internal/http/middleware"
	"go-rest-auth-starter/internal/http/response"
	"go-rest-auth-starter/internal/observability"
	"go-rest-auth-starter/internal/security"
	"go-rest-auth-starter/internal/service"
)

type AuthHandler struct {
	auth   *service.AuthService
	tokens *service.TokenService
}

func NewAuthHandler(auth *service.AuthService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type authPayload struct {
	User   any `json:"user"`
	Tokens any `json:"tokens"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}
	if err := validateFields(
		requireField("name", req.Name),
		validEmail(req.Email),
		validPassword(req.Password),
	); err != nil {
		response.FromError(w, r, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Name, strings.ToLower(req.Email), req.Password)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	pair, err := h.tokens.Issue(user)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	observability.Audit(r, "auth.register", "user_id", user.ID)
	response.JSON(w, r, http.StatusCreated, authPayload{User: user, Tokens: pair})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}
	if err := validateFields(validEmail(req.Email), requireField("password", req.Password)); err != nil {
		response.FromError(w, r, err)
		return
	}

	user, err := h.auth.Login(r.Context(), strings.ToLower(req.Email), req.Password)
	if err != nil {
		observability.RecordAuthLogin("failure")
		response.FromError(w, r, err)
		return
	}
	pair, err := h.tokens.Issue(user)
	if err != nil {
		observability.RecordAuthLogin("failure")
		response.FromError(w, r, err)
		return
	}
	observability.RecordAuthLogin("success")
	observability.Audit(r, "auth.login", "user_id", user.ID)
	response.JSON(w, r, http.StatusOK, authPayload{User: user, Tokens: pair})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}
	if err := validateFields(requireField("refreshToken", req.RefreshToken)); err != nil {
		response.FromError(w, r, err)
		return
	}

	if err := h.tokens.Logout(r.Context(), req.RefreshToken); err != nil {
		observability.RecordAuthLogout("failure")
		response.FromError(w, r, err)
		return
	}
	observability.RecordAuthLogout("success")
	observability.Audit(r, "auth.logout")
	response.NoContent(w)
}

func (h *AuthHandler) RefreshTokens(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}
	if err := validateFields(requireField("refreshToken", req.RefreshToken)); err != nil {
		response.FromError(w, r, err)
		return
	}

	pair, err := h.tokens.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		observability.RecordAuthRefresh("failure")
		response.FromError(w, r, err)
		return
	}
	observability.RecordAuthRefresh("success")
	response.JSON(w, r, http.StatusOK, pair)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}
	if err := validateFields(validEmail(req.Email)); err != nil {
		response.FromError(w, r, err)
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), strings.ToLower(req.Email)); err != nil {
		response.FromError(w, r, err)
		return
	}
	observability.Audit(r, "auth.forgot_password")
	response.NoContent(w)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, r, err)
		return
	}
	if err := validateFields(requireField("token", token), validPassword(req.Password)); err != nil {
		response.FromError(w, r, err)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), token, req.Password); err != nil {
		observability.RecordPasswordReset("failure")
		response.FromError(w, r, err)
		return
	}
	observability.RecordPasswordReset("success")
	observability.Audit(r, "auth.reset_password")
	response.NoContent(w)
}

func (h *AuthHandler) SendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}
	if err := h.auth.SendVerificationEmail(r.Context(), user); err != nil {
		response.FromError(w, r, err)
		return
	}
	observability.Audit(r, "auth.send_verification_email", "user_id", user.ID)
	response.NoContent(w)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if err := validateFields(requireField("token", token)); err != nil {
		response.FromError(w, r, err)
		return
	}

	if err := h.auth.VerifyEmail(r.Context(), token); err != nil {
		observability.RecordEmailVerification("failure")
		response.FromError(w, r, err)
		return
	}
	observability.RecordEmailVerification("success")
	observability.Audit(r, "auth.verify_email")
	response.NoContent(w)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return service.NewValidation("Invalid request body")
	}
	return nil
}

// validateFields joins every failed check into one message, matching the
// one-line-per-field shape clients expect.
func validateFields(problems ...string) error {
	var failed []string
	for _, p := range problems {
		if p != "" {
			failed = append(failed, p)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return service.NewValidation(strings.Join(failed, ", "))
}

func requireField(name, value string) string {
	if strings.TrimSpace(value) == "" {
		return "\"" + name + "\" is required"
	}
	return ""
}

func validEmail(email string) string {
	if strings.TrimSpace(email) == "" {
		return "\"email\" is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "\"email\" must be a valid email"
	}
	return ""
}

func validPassword(password string) string {
	if password == "" {
		return "\"password\" is required"
	}
	if !security.ValidatePassword(password) {
		return "password must be at least 8 characters and contain at least 1 letter and 1 number"
	}
	return ""
}
