package dto

import "time"

type CreateTaskRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=120" example:"Build REST API"`
	Description   string `json:"description" validate:"max=2000"`
	Difficulty    string `json:"difficulty" validate:"required,oneof=easy medium hard" example:"medium"`
	EstimatedTime int    `json:"estimatedTime" validate:"required,gt=0" example:"60"`
}

func (r CreateTaskRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateTaskRequest struct {
	Name          string `json:"name" validate:"omitempty,min=1,max=120"`
	Description   string `json:"description" validate:"max=2000"`
	Difficulty    string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	EstimatedTime int    `json:"estimatedTime" validate:"omitempty,gt=0"`
}

func (r UpdateTaskRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CompleteTaskRequest struct {
	ActualTime int `json:"actualTime" validate:"required,gt=0" example:"45"`
}

func (r CompleteTaskRequest) Validate() error {
	return GetValidator().Struct(r)
}

type TaskResponse struct {
	ID            string     `json:"_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Difficulty    string     `json:"difficulty"`
	EstimatedTime int        `json:"estimatedTime"`
	ActualTime    int        `json:"actualTime,omitempty"`
	Status        string     `json:"status"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
