// Package transport defines request and response DTOs for the training API.
package transport

import "time"

// TrainFromURLRequest is the payload for training from a web page.
type TrainFromURLRequest struct {
	AgentID string `json:"agentId" validate:"required,uuid4"`
	URL     string `json:"url" validate:"required,url"`
}

// FAQItemRequest is one question/answer pair.
type FAQItemRequest struct {
	Question string `json:"question" validate:"required,min=1,max=1000"`
	Answer   string `json:"answer" validate:"required,min=1,max=4000"`
}

// TrainFromFAQRequest is the payload for training from FAQ pairs.
type TrainFromFAQRequest struct {
	AgentID string           `json:"agentId" validate:"required,uuid4"`
	Items   []FAQItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TrainFromTextRequest is the payload for training from raw text.
type TrainFromTextRequest struct {
	AgentID string `json:"agentId" validate:"required,uuid4"`
	Text    string `json:"text" validate:"required,min=50"`
}

// TrainingReceiptResponse reports the outcome of submitting a source.
type TrainingReceiptResponse struct {
	TrainingDataID string `json:"trainingDataId"`
	Status         string `json:"status"`
	ChunksCreated  int    `json:"chunksCreated,omitempty"`
	Message        string `json:"message"`
}

// TrainingDataResponse describes one training record.
type TrainingDataResponse struct {
	ID            string    `json:"id"`
	AgentID       string    `json:"agentId"`
	SourceType    string    `json:"sourceType"`
	Status        string    `json:"status"`
	ChunksCreated int       `json:"chunksCreated,omitempty"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
