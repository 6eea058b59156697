package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/staffrate/staffrate/internal/api"
)

// fallbackErrorMessage mirrors the server's generic rejection text when the
// error body carries no message.
const fallbackErrorMessage = "Something went wrong"

// SignupProfile is the registration payload. The photo rides alongside as a
// binary multipart field.
type SignupProfile struct {
	EmployeeID   string `validate:"required"`
	EmployeeName string `validate:"required"`
	Email        string `validate:"required,email"`
	Password     string `validate:"required,min=6"`
	Department   string
	Designation  string
	ContactNo    string
	BloodGroup   string
	JoiningDate  string
	Role         string
	PhotoPath    string
}

// Login exchanges credentials for identity and tokens. On success the session
// becomes authenticated and the credentials are persisted; on failure the
// session is left untouched and the error carries the server's message.
func (s *Store) Login(ctx context.Context, creds Credentials) (*api.LoginResponse, error) {
	if err := s.validate.Struct(creds); err != nil {
		s.notifier.Error("employeeId and password are required")
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	body, err := s.postJSON(ctx, "/auth/login", creds)
	if err != nil {
		s.notifier.Error("%s", err.Error())
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	var resp api.LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		s.notifier.Error("%s", fallbackErrorMessage)
		return nil, fmt.Errorf("%w: failed to parse login response: %v", ErrLoginFailed, err)
	}

	if resp.AccessToken == "" {
		s.notifier.Error("login response carried no access token")
		return nil, fmt.Errorf("%w: missing access token", ErrLoginFailed)
	}

	s.mu.Lock()
	s.user = resp.User
	s.accessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		s.refreshToken = resp.RefreshToken
	}
	s.state = Authenticated
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.persister.save(snapshot); err != nil {
		return nil, err
	}

	s.notifier.Success("Login successful!")

	return &resp, nil
}

// Signup registers a new identity. It does not authenticate the caller; the
// operator logs in afterwards.
func (s *Store) Signup(ctx context.Context, profile SignupProfile) (*api.MessageResponse, error) {
	if err := s.validate.Struct(profile); err != nil {
		s.notifier.Error("invalid signup details: %v", err)
		return nil, fmt.Errorf("invalid signup details: %w", err)
	}

	form := api.NewForm().
		Set("employeeId", profile.EmployeeID).
		Set("employeeName", profile.EmployeeName).
		Set("email", profile.Email).
		Set("password", profile.Password).
		Set("department", profile.Department).
		Set("designation", profile.Designation).
		Set("contactNo", profile.ContactNo).
		Set("bloodGroup", profile.BloodGroup).
		Set("joiningDate", profile.JoiningDate).
		Set("role", profile.Role).
		Attach("employeePhoto", profile.PhotoPath)

	body, err := s.postForm(ctx, "/auth/signup", form)
	if err != nil {
		s.notifier.Error("%s", err.Error())
		return nil, err
	}

	var resp api.MessageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse signup response: %w", err)
	}

	s.notifier.Success("Sign-up successful! Please log in.")

	return &resp, nil
}

// Logout invalidates the server-side session best-effort, then clears local
// state and persisted credentials regardless of the server's answer.
func (s *Store) Logout(ctx context.Context) error {
	if _, err := s.postJSON(ctx, "/auth/logout", nil); err != nil {
		log.Debug().Err(err).Msg("server logout failed, clearing local state anyway")
	}

	if err := s.ClearLocal(); err != nil {
		return err
	}

	s.notifier.Success("Logged out successfully!")

	return nil
}

// ForgotPassword starts the three-step password-recovery flow.
func (s *Store) ForgotPassword(ctx context.Context, email string) (*api.MessageResponse, error) {
	return s.recoveryStep(ctx, "/auth/forgot-password", map[string]string{"email": email})
}

// VerifyOTP confirms the one-time code sent to the operator.
func (s *Store) VerifyOTP(ctx context.Context, email, otp string) (*api.MessageResponse, error) {
	return s.recoveryStep(ctx, "/auth/verify-otp", map[string]string{"email": email, "otp": otp})
}

// ResetPassword completes the recovery flow with a new password.
func (s *Store) ResetPassword(ctx context.Context, email, otp, newPassword string) (*api.MessageResponse, error) {
	return s.recoveryStep(ctx, "/auth/reset-password", map[string]string{
		"email":       email,
		"otp":         otp,
		"newPassword": newPassword,
	})
}

func (s *Store) recoveryStep(ctx context.Context, path string, payload map[string]string) (*api.MessageResponse, error) {
	body, err := s.postJSON(ctx, path, payload)
	if err != nil {
		s.notifier.Error("%s", err.Error())
		return nil, err
	}

	var resp api.MessageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Message != "" {
		s.notifier.Success("%s", resp.Message)
	}

	return &resp, nil
}

// postJSON sends an unauthenticated JSON POST to an auth endpoint. Cookies on
// the shared client still ride along as the secondary session mechanism.
func (s *Store) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return s.do(req)
}

// postForm sends an unauthenticated multipart POST.
func (s *Store) postForm(ctx context.Context, path string, form *api.Form) ([]byte, error) {
	data, contentType, err := form.Encode()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	return s.do(req)
}

func (s *Store) do(req *http.Request) ([]byte, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s", api.ErrorMessage(body, fallbackErrorMessage))
	}

	return body, nil
}
