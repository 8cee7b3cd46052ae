package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CallStage string

const (
	CallStageRetrieval  CallStage = "retrieval"
	CallStageAnalysis   CallStage = "analysis"
	CallStageSampleCase CallStage = "sample_case"
)

// CallLog stores one retrieval/analysis backend call (system monitoring purpose)
// Collection: call_logs
type CallLog struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"user_id" json:"user_id"`
	SessionID       string             `bson:"session_id,omitempty" json:"session_id,omitempty"`
	Stage           CallStage          `bson:"stage" json:"stage"`
	Query           string             `bson:"query" json:"query"`
	TemplateUsed    bool               `bson:"template_used" json:"template_used"`
	DurationMs      int64              `bson:"duration_ms" json:"duration_ms"`
	Success         bool               `bson:"success" json:"success"`
	ErrorMessage    *string            `bson:"error_message,omitempty" json:"error_message,omitempty"`
	ResultCount     int                `bson:"result_count" json:"result_count"`
	ResponseExcerpt string             `bson:"response_excerpt" json:"response_excerpt"`
	RequestedAt     time.Time          `bson:"requested_at" json:"requested_at"`
	CompletedAt     time.Time          `bson:"completed_at" json:"completed_at"`
}
