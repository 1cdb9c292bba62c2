// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - VoteRequest: questionId, optionId, deviceId
  - ResetVoteRequest: questionId, deviceId
  - BulkSubmitRequest: answers ([]Answer, no device attribution)
  - SetCorrectRequest: questionId, optionId (null clears)
  - RevealRequest: reveal
  - QnASubmitRequest: text, user
  - QnAIDRequest: id

# Response Types

Types for JSON responses:

  - OKResponse: ok
  - ResetVoteResponse: ok, removed
  - AdminIndexResponse: ok, index
  - RevealResponse: ok, reveal
  - QnASubmitResponse: ok, id
  - QuestionsResponse: questions
  - StateResponse: status, activeIndex, totalQuestions, revealCorrect
  - StatsResponse: stats
  - QnAListResponse: qna, highlightId
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Question: question text with its options
  - Option: a selectable answer
  - OptionCount: option plus its aggregated vote count
  - QuestionStats: per-question tallies and the correct option, if set
  - QnAItem: audience-submitted question

# Constants

Status values:

	StatusIdle    = "idle"
	StatusRunning = "running"
	StatusEnded   = "ended"

Error codes (the "error" field of ErrorResponse):

	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeAlreadyVoted = "ALREADY_VOTED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeServerError  = "SERVER_ERROR"
*/
package models
