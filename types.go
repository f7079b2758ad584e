// File: types.go
package main

import "shapeCaptcha/internal/challenge"

// StartResponse is returned by /api/challenge/start
type StartResponse struct {
	UUID string `json:"uuid"`
	StateResponse
}

// StateResponse describes a session to the browser.
type StateResponse struct {
	Phase       challenge.Phase   `json:"phase"`
	Region      challenge.Region  `json:"region"`
	Attempts    int               `json:"attempts"`
	MaxAttempts int               `json:"maxAttempts"`
	Outcome     challenge.Outcome `json:"outcome"`
	Prompt      string            `json:"prompt"`
	Target      *challenge.Target `json:"target,omitempty"`
	Rows        int               `json:"rows,omitempty"`
	Cols        int               `json:"cols,omitempty"`
	Cells       []challenge.Cell  `json:"cells,omitempty"`
	Regions     []string          `json:"regions,omitempty"` // 格子标签，按网格顺序
	Image       string            `json:"image,omitempty"`   // 验证码图片 Base64
}

// CaptureRequest is the JSON body for /api/challenge/{id}/capture. An
// empty frame means the browser has no camera.
type CaptureRequest struct {
	Frame string `json:"frame"`
}

// ToggleRequest is the JSON body for /api/challenge/{id}/toggle
type ToggleRequest struct {
	Cell int `json:"cell"`
}

// VerifyRequest is the JSON body for /api/challenge/{id}/verify. When
// Selections is present it replaces the current selection first.
type VerifyRequest struct {
	Selections []int `json:"selections"`
}

// VerifyResponse is returned by /api/challenge/{id}/verify
type VerifyResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Phase       challenge.Phase `json:"phase"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"maxAttempts"`
}
