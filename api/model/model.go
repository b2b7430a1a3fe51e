/*
Copyright 2025 Creator Platform Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"

	"github.com/harukitakahashi812/creator-platform/model"
)

// CreateProject is the submission payload for a new project.
type CreateProject struct {
	OwnerID         string          `json:"owner_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	ProjectType     string          `json:"project_type"`
	Price           decimal.Decimal `json:"price"`
	Subscription    bool            `json:"subscription"`
	BillingInterval string          `json:"billing_interval"`
	Deadline        *time.Time      `json:"deadline"`
	FileLink        string          `json:"file_link"`
}

func (p *CreateProject) ValidateCreateProject() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.OwnerID, validation.Required),
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.ProjectType, validation.Required, validation.In(
			model.ProjectTypeElementor, model.ProjectTypeGraphicDesign, model.ProjectTypeVideo,
		)),
	)
}

func (p *CreateProject) ToProject() *model.Project {
	return &model.Project{
		OwnerID:         p.OwnerID,
		Title:           p.Title,
		Description:     p.Description,
		ProjectType:     p.ProjectType,
		Price:           p.Price,
		Subscription:    p.Subscription,
		BillingInterval: p.BillingInterval,
		Deadline:        p.Deadline,
		FileLink:        p.FileLink,
	}
}

// SaveCredentials is the payload for storing a Gumroad login.
type SaveCredentials struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *SaveCredentials) ValidateSaveCredentials() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.UserID, validation.Required),
		validation.Field(&s.Email, validation.Required, is.Email),
		validation.Field(&s.Password, validation.Required),
	)
}

func (s *SaveCredentials) ToCredentials() *model.GumroadCredentials {
	return &model.GumroadCredentials{
		UserID:   s.UserID,
		Email:    s.Email,
		Password: s.Password,
	}
}

// CheckCredentials asks whether a user has a stored login.
type CheckCredentials struct {
	UserID string `json:"user_id"`
}

func (s *CheckCredentials) ValidateCheckCredentials() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.UserID, validation.Required),
	)
}

// CreateCheckout requests a hosted checkout session for a project.
type CreateCheckout struct {
	ProjectID string `json:"project_id"`
}

func (s *CreateCheckout) ValidateCreateCheckout() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.ProjectID, validation.Required),
	)
}
