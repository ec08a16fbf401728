package dto

// SendCodeRequest asks for a confirmation code to be mailed.
type SendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SendCodeResponse struct {
	Email string `json:"email"`
}

// TokenRequest exchanges a mailed confirmation code for an access token.
type TokenRequest struct {
	Email            string `json:"email" binding:"required,email"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
