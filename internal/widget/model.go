// Package widget owns the operator-facing widget configuration records.
package widget

import "time"

// ContextSource is one operator-supplied document whose extracted text is
// injected into the system prompt. Content is already capped at
// extraction time (30k for pdf, 15k for website); URL is set iff the
// source is a website.
type ContextSource struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"` // "website" | "pdf"
	Name    string    `json:"name"`
	URL     string    `json:"url,omitempty"`
	Content string    `json:"content"`
	AddedAt time.Time `json:"addedAt"`
}

type AIConfig struct {
	Provider                 string `json:"provider"` // "openai" | "anthropic"
	Model                    string `json:"model"`
	SystemPrompt             string `json:"systemPrompt"`
	BusinessContext          string `json:"businessContext"`
	RestrictToBusinessTopics bool   `json:"restrictToBusinessTopics"`
}

type Branding struct {
	Logo             string `json:"logo"`
	Name             string `json:"name"`
	WelcomeText      string `json:"welcomeText"`
	ResponseTimeText string `json:"responseTimeText"`
}

type Style struct {
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	Position        string `json:"position"` // "left" | "right"
	BackgroundColor string `json:"backgroundColor"`
	FontColor       string `json:"fontColor"`
	FontFamily      string `json:"fontFamily"`
}

type Behavior struct {
	IsOpenByDefault    bool   `json:"isOpenByDefault"`
	PopupMessage       string `json:"popupMessage"`
	AutoOpenDelay      int    `json:"autoOpenDelay"` // seconds, 0 disables
	Animation          string `json:"animation"`
	SoundEnabled       bool   `json:"soundEnabled"`
	ShowInitialMessage bool   `json:"showInitialMessage"`
	InitialMessage     string `json:"initialMessage"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Widget is the persisted configuration record. Nested structures are
// stored as JSON columns; the pipeline reads them, the editor UI writes
// them.
type Widget struct {
	ID       string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name     string `gorm:"type:varchar(128);not null" json:"name"`
	IsActive bool   `json:"isActive"`

	AI             AIConfig        `gorm:"serializer:json;type:text" json:"ai"`
	ContextSources []ContextSource `gorm:"serializer:json;type:text" json:"contextSources"`
	Branding       Branding        `gorm:"serializer:json;type:text" json:"branding"`
	Style          Style           `gorm:"serializer:json;type:text" json:"style"`
	Behavior       Behavior        `gorm:"serializer:json;type:text" json:"behavior"`
	FAQ            []FAQ           `gorm:"serializer:json;type:text" json:"faq"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Widget) TableName() string { return "widgets" }

// Default returns a new unsaved widget with the stock configuration.
func Default(name string) Widget {
	if name == "" {
		name = "My Chat Widget"
	}
	return Widget{
		Name:     name,
		IsActive: true,
		AI: AIConfig{
			Provider:                 "openai",
			Model:                    "gpt-4o-mini",
			RestrictToBusinessTopics: true,
		},
		ContextSources: []ContextSource{},
		Branding: Branding{
			WelcomeText:      "Hi there 👋",
			ResponseTimeText: "We typically reply in a few minutes",
		},
		Style: Style{
			PrimaryColor:    "#059669",
			SecondaryColor:  "#047857",
			Position:        "right",
			BackgroundColor: "#ffffff",
			FontColor:       "#333333",
			FontFamily:      "Geist Sans",
		},
		Behavior: Behavior{
			PopupMessage:       "👋 Can I help you with something?",
			AutoOpenDelay:      5,
			Animation:          "fade",
			SoundEnabled:       true,
			ShowInitialMessage: true,
			InitialMessage:     "Hello! How can I help you today?",
		},
		FAQ: []FAQ{},
	}
}
