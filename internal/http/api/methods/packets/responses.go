package packets

import "github.com/appskottage/AKSalat/internal/method"

// RESPONSES FOR /api/methods/*

type MethodResponse struct {
	Name       string            `json:"name"`
	Parameters method.Parameters `json:"parameters"`
}
