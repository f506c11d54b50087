package api

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "skd.Dashboard"

// Method names.
const (
	MethodPing               = "Ping"
	MethodRegister           = "Register"
	MethodLogin              = "Login"
	MethodWhoAmI             = "WhoAmI"
	MethodRequestLogout      = "RequestLogout"
	MethodConfirmLogout      = "ConfirmLogout"
	MethodCancelLogout       = "CancelLogout"
	MethodChangePassword     = "ChangePassword"
	MethodSubmitAttempt      = "SubmitAttempt"
	MethodEditAttempt        = "EditAttempt"
	MethodDeleteAttempt      = "DeleteAttempt"
	MethodListAttempts       = "ListAttempts"
	MethodListAccounts       = "ListAccounts"
	MethodSetRole            = "SetRole"
	MethodSetPassword        = "SetPassword"
	MethodDeleteAccount      = "DeleteAccount"
	MethodBulkDeleteAttempts = "BulkDeleteAttempts"
	MethodRequestReset       = "RequestReset"
	MethodConfirmReset       = "ConfirmReset"
	MethodCancelReset        = "CancelReset"
	MethodExport             = "Export"
)

// FullMethod returns "/skd.Dashboard/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Public reports whether method may be called without an access token.
func Public(method string) bool {
	switch method {
	case MethodPing, MethodRegister, MethodLogin:
		return true
	}
	return false
}
