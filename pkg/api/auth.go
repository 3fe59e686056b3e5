package api

// CSRFResponse carries the anti-forgery token handed out before login.
type CSRFResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// LoginRequest represents the credentials submitted on login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login: the user record plus
// the access/refresh token pair.
type LoginResponse struct {
	User    User   `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// SignupRequest represents a self-service account registration.
type SignupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// RefreshRequest asks the server to mint a new access token.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse carries the newly minted access token. The refresh
// token itself is not rotated by this endpoint.
type RefreshResponse struct {
	Access string `json:"access"`
}

// User is the authenticated user record as served by /api/auth/user/.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Known user roles. Any other value gets no dashboard fetch plan.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
	RoleAdmin   = "admin"
)

// Profile holds the editable profile fields behind /api/auth/profile/.
type Profile struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// MessageResponse is a generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error body. The backend uses "detail" for
// API errors and "error" in a few legacy places; both are accepted.
type ErrorResponse struct {
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}
