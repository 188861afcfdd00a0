package models

type CreateSessionRequest struct {
	Name string `json:"name"`
}

// CheckInRequest is the participant form. Name and ID carry no binding tags,
// roster membership is checked before presence.
type CheckInRequest struct {
	Name          string  `json:"name" form:"name"`
	ParticipantID string  `json:"participant_id" form:"participant_id"`
	Latitude      float64 `json:"latitude" form:"latitude"`
	Longitude     float64 `json:"longitude" form:"longitude"`
	SessionToken  string  `json:"session_token" form:"session_token"`
}
