package api

import "time"

// Outcome is what the user sees after an action.
type Outcome struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// SessionResponse describes the caller's session after an action that may
// change it. Token is set only when a new token was issued.
type SessionResponse struct {
	Outcome
	Token         string `json:"token,omitempty"`
	Username      string `json:"username,omitempty"`
	Role          string `json:"role,omitempty"`
	Cohort        string `json:"cohort,omitempty"`
	LogoutPending bool   `json:"logout_pending,omitempty"`
	ResetPending  bool   `json:"reset_pending,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Cohort   string `json:"cohort,omitempty"`
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,max=64"`
	Password        string `json:"password" validate:"required,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
	Cohort          string `json:"cohort,omitempty" validate:"max=32"`
}

// Scores are the three components of an attempt.
type Scores struct {
	TWK int `json:"twk" validate:"gte=0"`
	TIU int `json:"tiu" validate:"gte=0"`
	TKP int `json:"tkp" validate:"gte=0"`
}

// SubmitAttemptRequest records an attempt. AccountID defaults to the
// session's own account; only admins may name another.
type SubmitAttemptRequest struct {
	AccountID string `json:"account_id,omitempty"`
	Scores
}

type EditAttemptRequest struct {
	AttemptID string `json:"attempt_id" validate:"required"`
	Scores
}

type DeleteAttemptRequest struct {
	AttemptID string `json:"attempt_id" validate:"required"`
}

// ListAttemptsRequest selects attempts by mode: "latest" (default), "all",
// a single ordinal "N" or an inclusive range "LO-HI".
type ListAttemptsRequest struct {
	AccountID string `json:"account_id,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=NewPassword"`
}

type ConfirmResetRequest struct {
	Phrase string `json:"phrase"`
}

type SetRoleRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=admin user"`
}

type SetPasswordRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	Password  string `json:"password" validate:"required,max=72"`
}

type DeleteAccountRequest struct {
	AccountID string `json:"account_id" validate:"required"`
}

type BulkDeleteRequest struct {
	AttemptIDs []string `json:"attempt_ids" validate:"required,min=1,dive,required"`
}

// ExportRequest exports one account's attempts, or every account's when All
// is set (admins only). Format is "csv" (default) or "xlsx".
type ExportRequest struct {
	AccountID string `json:"account_id,omitempty"`
	All       bool   `json:"all,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Format    string `json:"format,omitempty" validate:"omitempty,oneof=csv xlsx"`
}

type AttemptView struct {
	Ordinal   int       `json:"ordinal"`
	ID        string    `json:"id"`
	TWK       int       `json:"twk"`
	TIU       int       `json:"tiu"`
	TKP       int       `json:"tkp"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

type AccountView struct {
	ID       string       `json:"id"`
	Username string       `json:"username"`
	Role     string       `json:"role"`
	Cohort   string       `json:"cohort,omitempty"`
	Attempts int          `json:"attempts"`
	Latest   *AttemptView `json:"latest,omitempty"`
}

type SubmitAttemptResult struct {
	Outcome
	Attempt *AttemptView `json:"attempt,omitempty"`
}

type ListAttemptsResult struct {
	Outcome
	Attempts []AttemptView `json:"attempts"`
}

type ListAccountsResult struct {
	Outcome
	Accounts []AccountView `json:"accounts"`
}

type ExportResult struct {
	Outcome
	Key  string `json:"key,omitempty"`
	URL  string `json:"url,omitempty"`
	Rows int    `json:"rows"`
}
