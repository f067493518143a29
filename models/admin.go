package models

// AdminLogin is the request body for POST /admin/login
type AdminLogin struct {
	Password string `json:"password" binding:"required"`
}
