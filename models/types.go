// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll status constants
const (
	StatusIdle    = "idle"
	StatusRunning = "running"
	StatusEnded   = "ended"
)

// Error codes surfaced in the "error" field of error responses
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeAlreadyVoted = "ALREADY_VOTED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeServerError  = "SERVER_ERROR"
)

// Request types

type VoteRequest struct {
	QuestionID int64  `json:"questionId"`
	OptionID   int64  `json:"optionId"`
	DeviceID   string `json:"deviceId"`
}

type ResetVoteRequest struct {
	QuestionID int64  `json:"questionId"`
	DeviceID   string `json:"deviceId"`
}

// Answer is one row of a bulk submission. The bulk path carries no device
// attribution.
type Answer struct {
	QuestionID int64 `json:"questionId"`
	OptionID   int64 `json:"optionId"`
}

type BulkSubmitRequest struct {
	Answers []Answer `json:"answers"`
}

type SetCorrectRequest struct {
	QuestionID int64  `json:"questionId"`
	OptionID   *int64 `json:"optionId"` // null clears the correct option
}

type RevealRequest struct {
	Reveal bool `json:"reveal"`
}

type QnASubmitRequest struct {
	Text string `json:"text"`
	User string `json:"user"`
}

type QnAIDRequest struct {
	ID int64 `json:"id"`
}

// Response types

type OKResponse struct {
	OK bool `json:"ok"`
}

type ResetVoteResponse struct {
	OK      bool  `json:"ok"`
	Removed int64 `json:"removed"`
}

type AdminIndexResponse struct {
	OK    bool `json:"ok"`
	Index int  `json:"index"`
}

type RevealResponse struct {
	OK     bool `json:"ok"`
	Reveal bool `json:"reveal"`
}

type QnASubmitResponse struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}

type QuestionsResponse struct {
	Questions []Question `json:"questions"`
}

type StateResponse struct {
	Status         string `json:"status"`
	ActiveIndex    int    `json:"activeIndex"`
	TotalQuestions int    `json:"totalQuestions"`
	RevealCorrect  bool   `json:"revealCorrect"`
}

type StatsResponse struct {
	Stats []QuestionStats `json:"stats"`
}

type QnAListResponse struct {
	QnA []QnAItem `json:"qna"`
	// Currently highlighted item id, 0 for none. Lets a reconnecting
	// viewer recover the highlight without having seen the event.
	HighlightID int64 `json:"highlightId"`
}

// Domain types

type Question struct {
	ID      int64    `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

type Option struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// OptionCount is an option together with its aggregated vote count.
type OptionCount struct {
	ID    int64  `json:"id"`
	Text  string `json:"text"`
	Count int64  `json:"count"`
}

type QuestionStats struct {
	ID              int64         `json:"id"`
	Text            string        `json:"text"`
	Total           int64         `json:"total"`
	Options         []OptionCount `json:"options"`
	CorrectOptionID *int64        `json:"correctOptionId"`
}

type QnAItem struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
