// Package forms talks to the third-party survey forms provider and derives
// the analytics shown on the dashboard.
package forms

import "time"

type Form struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
	Links         FormLinks `json:"_links"`
}

type FormLinks struct {
	Display string `json:"display"`
}

type FormList struct {
	TotalItems int    `json:"total_items"`
	PageCount  int    `json:"page_count"`
	Items      []Form `json:"items"`
}

type Answer struct {
	Field   AnswerField `json:"field"`
	Type    string      `json:"type"`
	Text    string      `json:"text,omitempty"`
	Number  *float64    `json:"number,omitempty"`
	Boolean *bool       `json:"boolean,omitempty"`
	Choice  *Choice     `json:"choice,omitempty"`
}

type AnswerField struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Ref  string `json:"ref,omitempty"`
}

type Choice struct {
	Label string `json:"label"`
}

type Response struct {
	ResponseID  string    `json:"response_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Answers     []Answer  `json:"answers"`
}

type ResponseList struct {
	TotalItems int        `json:"total_items"`
	PageCount  int        `json:"page_count"`
	Items      []Response `json:"items"`
}
