package constants

const (
	// Default list sizes
	DefaultProblemListLimit = 50
	MaxProblemListLimit     = 200
	RecentProblemsLimit     = 5
	RecentHistoryLimit      = 10

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXCSRFToken    = "X-CSRF-Token"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyPrincipal = "principal"
	ContextKeyRequestID = "request_id"
	ContextKeyCSRFToken = "csrf_token"

	// Cookie and form field carrying the CSRF token
	CSRFCookieName = "helpdesk_csrf"
	CSRFFormField  = "csrf_token"

	// Flash session key
	SessionKeyFlash = "flash"

	// Role slugs
	RoleAdmin      = "admin"
	RoleOperator   = "operator"
	RoleSpecialist = "specialist"
	RoleUser       = "user"

	// Audit table names
	TableProblems = "problems"

	// Numbering
	ProblemNumberPrefix   = "PRB"
	ProblemNumberPadWidth = 4
	ProblemSequenceName   = "problem"

	// Paths whose cached views are invalidated after problem mutations
	PathDashboard    = "/dashboard"
	PathProblemsList = "/dashboard/problems"
	PathProblemFmt   = "/dashboard/problems/%d"

	PathNewProblem = "/dashboard/problems/new"
	PathLogin      = "/auth/login"
)

// Database table names
const (
	TableUsers                = "users"
	TableRoles                = "roles"
	TablePermissions          = "permissions"
	TableRolePermissions      = "role_permissions"
	TableUserRoles            = "user_roles"
	TableDepartments          = "departments"
	TableEquipment            = "equipment"
	TableProblemTypes         = "problem_types"
	TableProblemStatusHistory = "problem_status_history"
	TableProblemSequences     = "problem_sequences"
	TableAuditLogs            = "audit_logs"
)
